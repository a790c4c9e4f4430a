// Package engine is the boundary to the game rules. The coordinator and
// the HTTP layer treat State as an opaque blob: the engine produces it,
// the store persists it verbatim.
package engine

import "hanabi/internal/errs"

// State is the serialized engine state of one game.
type State map[string]any

const (
	ActionPlay    = "play"
	ActionDiscard = "discard"
	ActionHint    = "hint"
)

// Action describes one move taken by the player in a given seat.
type Action struct {
	Kind         string
	PieceId      string
	Hint         string
	AffectedSeat int
}

// Rule violations pass through the coordinator unchanged.
var (
	ErrNotYourTurn    = &errs.RuleViolation{Reason: "It is not your turn"}
	ErrNotEnoughHints = &errs.RuleViolation{Reason: "Not enough hints to give."}
	ErrYouLose        = &errs.RuleViolation{Reason: "You have lost the game."}
)

type Engine interface {
	// NewGame builds the initial state for a game.
	NewGame(numPlayers int, withRainbow bool, name string) (State, error)
	// Apply takes a move for the player in seat and returns the new
	// state, or a rule violation. On ErrYouLose the returned state is
	// still valid and reflects the losing move.
	Apply(state State, seat int, action Action) (State, error)
}
