package coordinator

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"hanabi/internal/db"
	"hanabi/internal/errs"
	"hanabi/internal/saga"
)

// CreateGame inserts the Game, records ownership on the owner's user
// document and creates the lobby MetaGame, in that order. If the owner
// turns out not to exist the inserted Game is deleted again, so an invalid
// owner never leaves an orphaned Game behind. A crash after the ownership
// write but before the MetaGame insert leaves a transiently inconsistent
// but owner-traceable state.
func (c *Coordinator) CreateGame(ownerId string, game *db.Game) (string, error) {
	if err := db.CheckID("user", ownerId); err != nil {
		return "", err
	}

	var gameId string
	steps := []saga.Step{
		{
			Name: "insert game",
			Run: func() error {
				id, err := c.Store.Games.Insert(game)
				gameId = id
				return err
			},
			Compensate: func() error {
				return c.Store.Games.Remove(gameId)
			},
		},
		{
			Name: "append owner owns",
			Run: func() error {
				owner, err := c.Store.Users.Read(ownerId)
				if err != nil {
					return err
				}
				owner.Owns = addRef(owner.Owns, db.GameRef{Game: gameId, PlayerId: 0})
				return c.Store.Users.Replace(ownerId, owner)
			},
			Compensate: func() error {
				owner, err := c.Store.Users.Read(ownerId)
				if err != nil {
					return err
				}
				owner.Owns = stripRefs(owner.Owns, gameId)
				return c.Store.Users.Replace(ownerId, owner)
			},
		},
		{
			Name: "insert meta game",
			Run: func() error {
				c.Logger.Debug("Creating meta game reference.")
				_, err := c.Store.Metagames.Insert(&db.MetaGame{
					GameId:     gameId,
					GameName:   game.Name,
					Turn:       stateInt(game.State, "turn"),
					NumHints:   stateInt(game.State, "num_hints"),
					NumErrors:  stateInt(game.State, "num_errors"),
					Owner:      ownerId,
					NumPlayers: statePlayerCount(game.State),
					Players:    []string{ownerId},
				})
				return err
			},
		},
	}
	if err := c.runner.Execute(steps); err != nil {
		return "", err
	}

	c.Notify.Emit("game_created", map[string]any{"name": game.Name, "id": gameId})
	return gameId, nil
}

// DeleteGame removes one game and every reference to it: referencing
// users are repaired first, then the MetaGame goes, then the Game itself.
// With that ordering no reader ever observes a MetaGame pointing at a
// deleted Game, or a user claiming one.
func (c *Coordinator) DeleteGame(gameId string) error {
	if err := db.CheckID("game", gameId); err != nil {
		return err
	}

	users, err := c.Store.Users.ListReferencing(gameId)
	if err != nil {
		return err
	}
	for _, user := range users {
		user.Owns = stripRefs(user.Owns, gameId)
		user.Games = stripRefs(user.Games, gameId)
		if err := c.Store.Users.Replace(user.Id, user); err != nil {
			return err
		}
	}
	if err := c.Store.Metagames.RemoveByGame(gameId); err != nil {
		return err
	}
	if err := c.Store.Games.Remove(gameId); err != nil {
		return err
	}

	c.Notify.Emit("game_deleted", gameId)
	return nil
}

// DeleteAllGames wipes every game. Users are repaired before the games
// they referenced vanish.
func (c *Coordinator) DeleteAllGames() error {
	users, err := c.Store.Users.ReadAll()
	if err != nil {
		return err
	}
	for _, user := range users {
		if len(user.Owns) == 0 && len(user.Games) == 0 {
			continue
		}
		user.Owns = []db.GameRef{}
		user.Games = []db.GameRef{}
		if err := c.Store.Users.Replace(user.Id, user); err != nil {
			return err
		}
	}
	if err := c.Store.Metagames.RemoveAll(); err != nil {
		return err
	}
	return c.Store.Games.RemoveAll()
}

// JoinGame seats a user in a game. The user document is written before
// the MetaGame on purpose: if the process dies between the two writes the
// user believes they joined before the lobby lists them, which beats a
// listed seat with no backing user record. Two concurrent joins can race
// past the full check; the set-semantics append at least keeps a double
// join of the same user idempotent.
func (c *Coordinator) JoinGame(metaGameId, userId string) error {
	metaGame, err := c.Store.Metagames.Read(metaGameId)
	if err != nil {
		return err
	}
	if len(metaGame.Players) >= metaGame.NumPlayers {
		return &errs.Conflict{Reason: "Game already has max amount of players"}
	}
	players := set.From(metaGame.Players)
	if players.Contains(userId) {
		return &errs.Conflict{Reason: "You are already in the game."}
	}

	user, err := c.Store.Users.Read(userId)
	if err != nil {
		return err
	}
	seat := len(metaGame.Players)
	user.Games = addRef(user.Games, db.GameRef{Game: metaGame.GameId, PlayerId: seat})
	if err := c.Store.Users.Replace(userId, user); err != nil {
		return err
	}

	if players.Insert(userId) {
		metaGame.Players = append(metaGame.Players, userId)
	}
	if err := c.Store.Metagames.Replace(metaGameId, metaGame); err != nil {
		return err
	}
	c.Logger.Info(fmt.Sprintf("User %s joined game %s", userId, metaGame.GameId))
	return nil
}

// addRef has add-to-set semantics: appending a ref for an already
// referenced game is a no-op.
func addRef(refs []db.GameRef, ref db.GameRef) []db.GameRef {
	for _, existing := range refs {
		if existing.Game == ref.Game {
			return refs
		}
	}
	return append(refs, ref)
}

func stripRefs(refs []db.GameRef, gameId string) []db.GameRef {
	kept := []db.GameRef{}
	for _, ref := range refs {
		if ref.Game != gameId {
			kept = append(kept, ref)
		}
	}
	return kept
}
