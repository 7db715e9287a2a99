package msgcat

import (
    "embed"
    "fmt"
    "io/fs"
    "os"
    "path"
    "sort"
    "strings"
    "sync"
    "text/template"

    yaml "gopkg.in/yaml.v3"
)

//go:embed messages.en.yaml
var embedded embed.FS

// Catalog holds user-facing message templates keyed by dotted path
// ("reason.king_exposed"). Templates run with missingkey=error.
type Catalog struct {
    mu        sync.RWMutex
    templates map[string]*template.Template
}

// New loads the embedded English messages, then every *.yaml/*.yml file in
// overrideDir. A key defined by two override files is an error.
func New(overrideDir string) (*Catalog, error) {
    c := &Catalog{templates: make(map[string]*template.Template)}
    if err := c.load(embedded, []string{"messages.en.yaml"}); err != nil {
        return nil, fmt.Errorf("embedded messages: %w", err)
    }
    dir := strings.TrimSpace(overrideDir)
    if dir == "" {
        return c, nil
    }
    fsys := os.DirFS(dir)
    names, err := yamlFiles(fsys)
    if err != nil {
        return nil, fmt.Errorf("read template dir: %w", err)
    }
    if err := c.load(fsys, names); err != nil {
        return nil, err
    }
    return c, nil
}

func yamlFiles(fsys fs.FS) ([]string, error) {
    entries, err := fs.ReadDir(fsys, ".")
    if err != nil {
        return nil, err
    }
    var names []string
    for _, e := range entries {
        switch strings.ToLower(path.Ext(e.Name())) {
        case ".yaml", ".yml":
            if !e.IsDir() { names = append(names, e.Name()) }
        }
    }
    sort.Strings(names)
    return names, nil
}

// load compiles every file before touching the catalog, so a bad file
// leaves it unchanged.
func (c *Catalog) load(fsys fs.FS, names []string) error {
    owner := make(map[string]string)
    compiled := make(map[string]*template.Template)
    for _, name := range names {
        raw, err := fs.ReadFile(fsys, name)
        if err != nil { return fmt.Errorf("read %s: %w", name, err) }
        var doc yaml.Node
        if err := yaml.Unmarshal(raw, &doc); err != nil { return fmt.Errorf("parse %s: %w", name, err) }
        leaves := make(map[string]*yaml.Node)
        if err := collect(&doc, "", leaves); err != nil { return fmt.Errorf("%s: %w", name, err) }
        for key, node := range leaves {
            if prev, ok := owner[key]; ok {
                return fmt.Errorf("duplicate override key %q in %s and %s", key, prev, name)
            }
            owner[key] = name
            t, err := template.New(key).Option("missingkey=error").Parse(node.Value)
            if err != nil { return fmt.Errorf("%s:%d: template %s: %w", name, node.Line, key, err) }
            compiled[key] = t
        }
    }
    c.mu.Lock()
    for k, t := range compiled {
        c.templates[k] = t
    }
    c.mu.Unlock()
    return nil
}

// collect walks mapping nodes and records string leaves under dotted keys.
func collect(n *yaml.Node, prefix string, out map[string]*yaml.Node) error {
    switch n.Kind {
    case yaml.DocumentNode:
        for _, child := range n.Content {
            if err := collect(child, prefix, out); err != nil { return err }
        }
        return nil
    case yaml.MappingNode:
        for i := 0; i+1 < len(n.Content); i += 2 {
            key := n.Content[i].Value
            if prefix != "" { key = prefix + "." + key }
            if err := collect(n.Content[i+1], key, out); err != nil { return err }
        }
        return nil
    case yaml.ScalarNode:
        if prefix == "" { return fmt.Errorf("line %d: value without key", n.Line) }
        if n.Tag != "!!str" { return fmt.Errorf("line %d: %s must be a string, got %s", n.Line, prefix, n.Tag) }
        out[prefix] = n
        return nil
    case 0:
        return nil
    default:
        return fmt.Errorf("line %d: unsupported value at %s", n.Line, prefix)
    }
}

// Has reports whether key is defined.
func (c *Catalog) Has(key string) bool {
    if c == nil { return false }
    c.mu.RLock()
    defer c.mu.RUnlock()
    _, ok := c.templates[strings.TrimSpace(key)]
    return ok
}

// Render executes the template for key with data.
func (c *Catalog) Render(key string, data any) (string, error) {
    if c == nil { return "", fmt.Errorf("template not found: %s", key) }
    c.mu.RLock()
    t, ok := c.templates[strings.TrimSpace(key)]
    c.mu.RUnlock()
    if !ok { return "", fmt.Errorf("template not found: %s", key) }
    var b strings.Builder
    if err := t.Execute(&b, data); err != nil { return "", err }
    return strings.TrimSpace(b.String()), nil
}

// Text renders key and falls back to fallback on any error. A nil catalog
// always returns fallback.
func (c *Catalog) Text(key string, data any, fallback string) string {
    s, err := c.Render(key, data)
    if err != nil || s == "" {
        return fallback
    }
    return s
}

// Reason returns the user text for a rejection reason code such as
// "king_exposed". Unknown codes render as "reason.unknown", or the code
// itself.
func (c *Catalog) Reason(code string) string {
    code = strings.TrimSpace(code)
    if c.Has("reason." + code) {
        return c.Text("reason."+code, nil, code)
    }
    return c.Text("reason.unknown", map[string]any{"Code": code}, code)
}
