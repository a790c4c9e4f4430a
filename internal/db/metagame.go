package db

import (
	"database/sql"
	"errors"

	"hanabi/internal/errs"
)

type sqliteMetaGameRepo struct {
	store *SqliteStore
}

func (r *sqliteMetaGameRepo) Read(id string) (*MetaGame, error) {
	if err := CheckID("meta game", id); err != nil {
		return nil, err
	}
	metaGame := &MetaGame{}
	if err := r.store.readDoc("metagames", "meta game", id, metaGame); err != nil {
		return nil, err
	}
	return metaGame, nil
}

func (r *sqliteMetaGameRepo) ReadAll() ([]*MetaGame, error) {
	raws, err := r.store.selectDocs(`SELECT doc FROM metagames`)
	if err != nil {
		return nil, err
	}
	return unmarshalDocs[MetaGame](raws)
}

func (r *sqliteMetaGameRepo) Insert(metaGame *MetaGame) (string, error) {
	metaGame.Id = NewID()
	if err := r.store.insertDoc("metagames", metaGame.Id, metaGame); err != nil {
		return "", err
	}
	return metaGame.Id, nil
}

func (r *sqliteMetaGameRepo) Replace(id string, metaGame *MetaGame) error {
	if err := CheckID("meta game", id); err != nil {
		return err
	}
	metaGame.Id = id
	return r.store.replaceDoc("metagames", "meta game", id, metaGame)
}

func (r *sqliteMetaGameRepo) Remove(id string) error {
	if err := CheckID("meta game", id); err != nil {
		return err
	}
	return r.store.removeDoc("metagames", id)
}

func (r *sqliteMetaGameRepo) RemoveByGame(gameId string) error {
	if err := CheckID("game", gameId); err != nil {
		return err
	}
	_, err := r.store.Conn.Exec(
		`DELETE FROM metagames WHERE json_extract(doc, '$.game_id') = ?`, gameId)
	if err != nil {
		r.store.Logger.Error("Failed to delete meta games by game", err)
	}
	return err
}

func (r *sqliteMetaGameRepo) FindByGame(gameId string) (*MetaGame, error) {
	if err := CheckID("game", gameId); err != nil {
		return nil, err
	}
	var raw string
	err := r.store.Conn.Get(&raw,
		`SELECT doc FROM metagames WHERE json_extract(doc, '$.game_id') = ?`, gameId)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &errs.NotFound{Kind: "meta game"}
	}
	if err != nil {
		r.store.Logger.Error("Failed to fetch meta game by game", err)
		return nil, err
	}
	docs, err := unmarshalDocs[MetaGame]([]string{raw})
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

func (r *sqliteMetaGameRepo) RemoveAll() error {
	return r.store.removeAll("metagames")
}
