package chesspresenter

import (
	"strings"

	"github.com/park285/cheese-chess/pkg/chessdto"
)

// Presenter delivers formatted messages and board diagrams without coupling to the command layer.
type Presenter struct {
	formatter   *Formatter
	sendMessage func(room, message string) error
	sendBoard   func(room, board string) error
}

// NewPresenter wires the senders; sendBoard falls back to sendMessage when nil.
func NewPresenter(formatter *Formatter, sendMessage func(room, message string) error, sendBoard func(room, board string) error) *Presenter {
	if sendBoard == nil {
		sendBoard = sendMessage
	}
	return &Presenter{
		formatter:   formatter,
		sendMessage: sendMessage,
		sendBoard:   sendBoard,
	}
}

func (p *Presenter) Message(room, message string) error {
	if p == nil || p.sendMessage == nil {
		return nil
	}
	if strings.TrimSpace(message) == "" {
		return nil
	}
	return p.sendMessage(room, message)
}

// Board sends message followed by the diagram of state.
func (p *Presenter) Board(room, message string, state *chessdto.GameState) error {
	if p == nil {
		return nil
	}

	if err := p.Message(room, message); err != nil {
		return err
	}

	if state != nil && p.sendBoard != nil && p.formatter != nil {
		if board := p.formatter.Board(state); board != "" {
			if err := p.sendBoard(room, board); err != nil {
				return err
			}
		}
	}

	return nil
}

// Rejection sends the formatted reason for err.
func (p *Presenter) Rejection(room string, err error) error {
	if p == nil || err == nil {
		return nil
	}
	return p.Message(room, p.formatter.Rejection(err))
}
