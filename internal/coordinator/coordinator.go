// Package coordinator orchestrates every mutation that touches more than
// one aggregate. The store has no cross-collection transactions, so the
// protocols here rely on call ordering and explicit compensation instead.
package coordinator

import (
	"hanabi/internal/db"
	"hanabi/internal/errs"
	"hanabi/internal/logger"
	"hanabi/internal/saga"
)

// Notifier is the hook for out-of-band subscriber updates. The websocket
// hub implements it in production.
type Notifier interface {
	Emit(event string, data any)
}

// NopNotifier drops every event. Used where no realtime layer is wired.
type NopNotifier struct{}

func (NopNotifier) Emit(event string, data any) {}

type Coordinator struct {
	Store  *db.Store
	Notify Notifier
	Logger logger.Logger
	runner *saga.Runner
}

func New(store *db.Store, notify Notifier) *Coordinator {
	log := logger.New("coordinator")
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Coordinator{
		Store:  store,
		Notify: notify,
		Logger: log,
		runner: saga.NewRunner(log),
	}
}

// CreateUser registers a user with a unique name.
func (c *Coordinator) CreateUser(name string) (*db.User, error) {
	existing, err := c.Store.Users.FindByName(name)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, &errs.Conflict{Reason: "A user with this name already exists."}
	}
	user := &db.User{Name: name}
	if _, err := c.Store.Users.Insert(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateGame persists an engine-produced state verbatim and re-syncs the
// denormalized MetaGame counters. Both writes are read-modify-write full
// overwrites; the window between them is a documented staleness risk, not
// a bug to hide.
func (c *Coordinator) UpdateGame(gameId string, state map[string]any, finished bool) (*db.Game, error) {
	game, err := c.Store.Games.Read(gameId)
	if err != nil {
		return nil, err
	}
	game.State = state
	game.Finished = finished
	if err := c.Store.Games.Replace(gameId, game); err != nil {
		return nil, err
	}

	metaGame, err := c.Store.Metagames.FindByGame(gameId)
	if err != nil {
		// The game exists but its lobby record is gone: an orphan left
		// by a mid-protocol crash. Propagate instead of papering over.
		return nil, err
	}
	metaGame.Turn = stateInt(state, "turn")
	metaGame.NumHints = stateInt(state, "num_hints")
	metaGame.NumErrors = stateInt(state, "num_errors")
	if err := c.Store.Metagames.Replace(metaGame.Id, metaGame); err != nil {
		return nil, err
	}

	c.Notify.Emit("game_updated", map[string]any{"id": gameId, "game": game.State})
	return game, nil
}

func stateInt(state map[string]any, key string) int {
	switch v := state[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func statePlayerCount(state map[string]any) int {
	if players, ok := state["players"].([]any); ok {
		return len(players)
	}
	return 0
}
