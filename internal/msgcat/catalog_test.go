package msgcat

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
)

var reasonCodes = []string{
    "malformed_input", "game_over", "no_piece", "not_your_turn", "same_square",
    "occupied_by_own", "illegal_pattern", "blocked_path", "king_exposed",
    "castling_unavailable", "castling_through_check", "promotion_required",
    "invalid_promotion",
}

func TestEmbeddedCoversReasonCodes(t *testing.T) {
    c, err := New("")
    if err != nil { t.Fatalf("New: %v", err) }
    for _, code := range reasonCodes {
        if !c.Has("reason." + code) {
            t.Fatalf("missing reason.%s", code)
        }
        if got := c.Reason(code); got == "" || got == code {
            t.Fatalf("Reason(%q) = %q", code, got)
        }
    }
    if got := c.Reason("brand_new"); !strings.Contains(got, "brand_new") {
        t.Fatalf("unknown reason fallback = %q", got)
    }
}

func TestRenderMissingKeyErrors(t *testing.T) {
    c, err := New("")
    if err != nil { t.Fatalf("New: %v", err) }
    got, err := c.Render("outcome.checkmate", map[string]any{"Winner": "Alice"})
    if err != nil || got != "Checkmate. Alice wins." {
        t.Fatalf("Render = %q, %v", got, err)
    }
    if _, err := c.Render("outcome.checkmate", map[string]any{}); err == nil {
        t.Fatalf("expected missingkey error")
    }
    if _, err := c.Render("nope.nothing", nil); err == nil {
        t.Fatalf("expected not found error")
    }
    if got := c.Text("nope.nothing", nil, "fallback"); got != "fallback" {
        t.Fatalf("Text fallback = %q", got)
    }
    var nilCat *Catalog
    if got := nilCat.Reason("king_exposed"); got != "king_exposed" {
        t.Fatalf("nil catalog Reason = %q", got)
    }
}

func TestOverrideDir(t *testing.T) {
    dir := t.TempDir()
    write := func(name, body string) {
        if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
            t.Fatalf("write %s: %v", name, err)
        }
    }
    write("a.yaml", "reason:\n  no_piece: \"Empty square.\"\n")
    write("ignored.txt", "reason: [")

    c, err := New(dir)
    if err != nil { t.Fatalf("New override: %v", err) }
    if got := c.Reason("no_piece"); got != "Empty square." {
        t.Fatalf("override not applied: %q", got)
    }
    if got := c.Reason("blocked_path"); got == "blocked_path" {
        t.Fatalf("embedded default lost")
    }

    write("b.yml", "reason:\n  no_piece: \"again\"\n")
    if _, err := New(dir); err == nil {
        t.Fatalf("expected duplicate key error")
    }
}

func TestOverrideRejectsBrokenTemplates(t *testing.T) {
    dir := t.TempDir()
    if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("move:\n  accepted: \"{{.Player\"\n"), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    if _, err := New(dir); err == nil {
        t.Fatalf("expected template parse error")
    }
    if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("move:\n  accepted: 3\n"), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    if _, err := New(dir); err == nil {
        t.Fatalf("expected non-string leaf error")
    }
}
