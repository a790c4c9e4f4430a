package db

import "fmt"

type sqliteGameRepo struct {
	store *SqliteStore
}

func (r *sqliteGameRepo) Read(id string) (*Game, error) {
	if err := CheckID("game", id); err != nil {
		return nil, err
	}
	r.store.Logger.Debug(fmt.Sprintf("Fetching game %s", id))
	game := &Game{}
	if err := r.store.readDoc("games", "game", id, game); err != nil {
		return nil, err
	}
	return game, nil
}

func (r *sqliteGameRepo) ReadAll() ([]*Game, error) {
	raws, err := r.store.selectDocs(`SELECT doc FROM games`)
	if err != nil {
		return nil, err
	}
	return unmarshalDocs[Game](raws)
}

func (r *sqliteGameRepo) Insert(game *Game) (string, error) {
	game.Id = NewID()
	if err := r.store.insertDoc("games", game.Id, game); err != nil {
		return "", err
	}
	return game.Id, nil
}

func (r *sqliteGameRepo) Replace(id string, game *Game) error {
	if err := CheckID("game", id); err != nil {
		return err
	}
	game.Id = id
	return r.store.replaceDoc("games", "game", id, game)
}

func (r *sqliteGameRepo) Remove(id string) error {
	if err := CheckID("game", id); err != nil {
		return err
	}
	return r.store.removeDoc("games", id)
}

func (r *sqliteGameRepo) RemoveAll() error {
	return r.store.removeAll("games")
}
