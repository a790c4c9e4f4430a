package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"hanabi/internal/errs"
)

const (
	maxHints  = 8
	maxErrors = 3
)

var colors = []string{"red", "yellow", "green", "blue", "white"}

// pieceNumbers is the number distribution per color.
var pieceNumbers = []int{1, 1, 1, 2, 2, 3, 3, 4, 4, 5}

type piece struct {
	Id     string `json:"id"`
	Color  string `json:"color"`
	Number int    `json:"number"`
}

type player struct {
	Id     int     `json:"id"`
	Pieces []piece `json:"pieces"`
}

type gameState struct {
	Name        string   `json:"name"`
	Turn        int      `json:"turn"`
	NumHints    int      `json:"num_hints"`
	NumErrors   int      `json:"num_errors"`
	WithRainbow bool     `json:"with_rainbow"`
	Players     []player `json:"players"`
	Available   []piece  `json:"available_pieces"`
	Played      []piece  `json:"played_pieces"`
	Binned      []piece  `json:"binned_pieces"`
}

// Rules is the built-in engine implementation.
type Rules struct{}

func NewRules() *Rules {
	return &Rules{}
}

func (r *Rules) NewGame(numPlayers int, withRainbow bool, name string) (State, error) {
	if numPlayers < 2 || numPlayers > 5 {
		return nil, &errs.RuleViolation{Reason: "A game needs between 2 and 5 players"}
	}
	deckColors := colors
	if withRainbow {
		deckColors = append(append([]string{}, colors...), "rainbow")
	}
	deck := []piece{}
	for _, color := range deckColors {
		for _, number := range pieceNumbers {
			deck = append(deck, piece{
				Id:     fmt.Sprintf("%s-%d-%d", color, number, len(deck)),
				Color:  color,
				Number: number,
			})
		}
	}
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	handSize := 5
	if numPlayers >= 4 {
		handSize = 4
	}
	players := make([]player, numPlayers)
	for seat := range players {
		players[seat] = player{Id: seat, Pieces: deck[:handSize]}
		deck = deck[handSize:]
	}
	gs := &gameState{
		Name:        name,
		NumHints:    maxHints,
		WithRainbow: withRainbow,
		Players:     players,
		Available:   deck,
		Played:      []piece{},
		Binned:      []piece{},
	}
	return encodeState(gs)
}

func (r *Rules) Apply(state State, seat int, action Action) (State, error) {
	gs, err := decodeState(state)
	if err != nil {
		return nil, err
	}
	if seat < 0 || seat >= len(gs.Players) {
		return nil, &errs.RuleViolation{Reason: "No player in that seat"}
	}
	if gs.Turn%len(gs.Players) != seat {
		return nil, ErrNotYourTurn
	}

	switch action.Kind {
	case ActionPlay:
		if err := gs.playPiece(seat, action.PieceId); err != nil {
			if err == ErrYouLose {
				// The losing move still counts; hand back the state.
				lost, encErr := encodeState(gs)
				if encErr != nil {
					return nil, encErr
				}
				return lost, err
			}
			return nil, err
		}
	case ActionDiscard:
		if err := gs.discardPiece(seat, action.PieceId); err != nil {
			return nil, err
		}
	case ActionHint:
		if gs.NumHints == 0 {
			return nil, ErrNotEnoughHints
		}
		if action.AffectedSeat < 0 || action.AffectedSeat >= len(gs.Players) {
			return nil, &errs.RuleViolation{Reason: "No player in that seat"}
		}
		gs.NumHints--
	default:
		return nil, &errs.RuleViolation{Reason: "Action not recognized. Must be either play, discard or hint."}
	}
	gs.Turn++
	return encodeState(gs)
}

func (gs *gameState) playPiece(seat int, pieceId string) error {
	p, err := gs.takeFromHand(seat, pieceId)
	if err != nil {
		return err
	}
	if gs.playedCount(p.Color)+1 == p.Number {
		gs.Played = append(gs.Played, p)
		return nil
	}
	gs.Binned = append(gs.Binned, p)
	gs.NumErrors++
	if gs.NumErrors >= maxErrors {
		return ErrYouLose
	}
	return nil
}

func (gs *gameState) discardPiece(seat int, pieceId string) error {
	p, err := gs.takeFromHand(seat, pieceId)
	if err != nil {
		return err
	}
	gs.Binned = append(gs.Binned, p)
	if gs.NumHints < maxHints {
		gs.NumHints++
	}
	return nil
}

// takeFromHand removes a piece from the seat's hand and deals a
// replacement from the draw pile when one remains.
func (gs *gameState) takeFromHand(seat int, pieceId string) (piece, error) {
	hand := gs.Players[seat].Pieces
	for i, p := range hand {
		if p.Id != pieceId {
			continue
		}
		hand = append(hand[:i], hand[i+1:]...)
		if len(gs.Available) > 0 {
			hand = append(hand, gs.Available[0])
			gs.Available = gs.Available[1:]
		}
		gs.Players[seat].Pieces = hand
		return p, nil
	}
	return piece{}, &errs.RuleViolation{Reason: "Player no longer has piece."}
}

func (gs *gameState) playedCount(color string) int {
	count := 0
	for _, p := range gs.Played {
		if p.Color == color {
			count++
		}
	}
	return count
}

// FindPiece looks a piece up anywhere in the state: hands, draw pile,
// played or binned.
func FindPiece(state State, pieceId string) (map[string]any, error) {
	gs, err := decodeState(state)
	if err != nil {
		return nil, err
	}
	pools := [][]piece{gs.Available, gs.Played, gs.Binned}
	for _, pl := range gs.Players {
		pools = append(pools, pl.Pieces)
	}
	for _, pool := range pools {
		for _, p := range pool {
			if p.Id == pieceId {
				return map[string]any{"id": p.Id, "color": p.Color, "number": p.Number}, nil
			}
		}
	}
	return nil, &errs.NotFound{Kind: "piece"}
}

func decodeState(state State) (*gameState, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	gs := &gameState{}
	if err := json.Unmarshal(raw, gs); err != nil {
		return nil, err
	}
	return gs, nil
}

func encodeState(gs *gameState) (State, error) {
	raw, err := json.Marshal(gs)
	if err != nil {
		return nil, err
	}
	state := State{}
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return state, nil
}
