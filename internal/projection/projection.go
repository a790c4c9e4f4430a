// Package projection builds the read-side views: reference fields are
// replaced by the joined user records and internal identifiers are
// stringified so payloads are transport-safe. Everything here is
// read-only.
package projection

import (
	"fmt"

	"github.com/google/uuid"

	"hanabi/internal/db"
	"hanabi/internal/logger"
)

// MetaGameView is a MetaGame with its owner and players references
// resolved into embedded user records.
type MetaGameView struct {
	Id         string     `json:"_id"`
	GameId     string     `json:"game_id"`
	GameName   string     `json:"game_name"`
	Turn       int        `json:"turn"`
	NumHints   int        `json:"num_hints"`
	NumErrors  int        `json:"num_errors"`
	Owner      *db.User   `json:"owner"`
	NumPlayers int        `json:"num_players"`
	Players    []*db.User `json:"players"`
}

type Builder struct {
	Users  db.UserRepository
	Logger logger.Logger
}

func NewBuilder(users db.UserRepository) *Builder {
	return &Builder{Users: users, Logger: logger.New("projection")}
}

// MetaGame resolves a single lobby record.
func (b *Builder) MetaGame(metaGame *db.MetaGame) (*MetaGameView, error) {
	users, err := b.userIndex()
	if err != nil {
		return nil, err
	}
	return b.join(metaGame, users), nil
}

// MetaGames resolves every lobby record with one pass over the user
// collection rather than per-record lookups.
func (b *Builder) MetaGames(metaGames []*db.MetaGame) ([]*MetaGameView, error) {
	users, err := b.userIndex()
	if err != nil {
		return nil, err
	}
	views := make([]*MetaGameView, 0, len(metaGames))
	for _, metaGame := range metaGames {
		views = append(views, b.join(metaGame, users))
	}
	return views, nil
}

func (b *Builder) userIndex() (map[string]*db.User, error) {
	all, err := b.Users.ReadAll()
	if err != nil {
		return nil, err
	}
	users := make(map[string]*db.User, len(all))
	for _, user := range all {
		users[user.Id] = user
	}
	return users, nil
}

func (b *Builder) join(metaGame *db.MetaGame, users map[string]*db.User) *MetaGameView {
	view := &MetaGameView{
		Id:         metaGame.Id,
		GameId:     metaGame.GameId,
		GameName:   metaGame.GameName,
		Turn:       metaGame.Turn,
		NumHints:   metaGame.NumHints,
		NumErrors:  metaGame.NumErrors,
		NumPlayers: metaGame.NumPlayers,
		Players:    []*db.User{},
	}
	view.Owner = users[metaGame.Owner]
	if view.Owner == nil {
		b.Logger.Debug(fmt.Sprintf("Meta game %s references missing owner %s", metaGame.Id, metaGame.Owner))
	}
	for _, playerId := range metaGame.Players {
		player, exists := users[playerId]
		if !exists {
			b.Logger.Debug(fmt.Sprintf("Meta game %s references missing player %s", metaGame.Id, playerId))
			continue
		}
		view.Players = append(view.Players, player)
	}
	return view
}

// StringifyIDs walks an arbitrary document and converts every uuid-typed
// value to its string form, recursing through nested maps and lists. The
// input is not mutated.
func StringifyIDs(doc any) any {
	switch v := doc.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = StringifyIDs(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = StringifyIDs(val)
		}
		return out
	case uuid.UUID:
		return v.String()
	default:
		return v
	}
}
