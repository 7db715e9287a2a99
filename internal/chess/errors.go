package chess

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedFEN  = errors.New("malformed fen")
	ErrMalformedMove = errors.New("malformed move")
)

// Reason is a stable code explaining why a move was rejected.
type Reason string

const (
	ReasonMalformedInput       Reason = "malformed_input"
	ReasonGameOver             Reason = "game_over"
	ReasonNoPiece              Reason = "no_piece"
	ReasonNotYourTurn          Reason = "not_your_turn"
	ReasonSameSquare           Reason = "same_square"
	ReasonOccupiedByOwn        Reason = "occupied_by_own"
	ReasonIllegalPattern       Reason = "illegal_pattern"
	ReasonBlockedPath          Reason = "blocked_path"
	ReasonKingExposed          Reason = "king_exposed"
	ReasonCastlingUnavailable  Reason = "castling_unavailable"
	ReasonCastlingThroughCheck Reason = "castling_through_check"
	ReasonPromotionRequired    Reason = "promotion_required"
	ReasonInvalidPromotion     Reason = "invalid_promotion"
)

// Rejection is returned for a move that is not legal. The state it was
// checked against is left untouched.
type Rejection struct {
	Reason Reason
	Move   Move
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("move %s rejected: %s", r.Move, r.Reason)
}

func reject(reason Reason, m Move) *Rejection {
	return &Rejection{Reason: reason, Move: m}
}

// ReasonOf extracts the rejection reason from err, or "" when err is not a
// rejection. Malformed moves map to ReasonMalformedInput.
func ReasonOf(err error) Reason {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason
	}
	if errors.Is(err, ErrMalformedMove) {
		return ReasonMalformedInput
	}
	return ""
}
