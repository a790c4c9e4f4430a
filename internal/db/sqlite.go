package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hanabi/internal/errs"
	"hanabi/internal/logger"
)

// Each aggregate kind lives in its own collection: a two-column table
// holding the generated id and the document as JSON. Filters go through
// sqlite's json_extract rather than dedicated columns.
var schema = `CREATE TABLE IF NOT EXISTS games (
  id varchar(36) PRIMARY KEY,
  doc text NOT NULL
);

CREATE TABLE IF NOT EXISTS metagames (
  id varchar(36) PRIMARY KEY,
  doc text NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id varchar(36) PRIMARY KEY,
  doc text NOT NULL
);`

type SqliteStore struct {
	Conn   *sqlx.DB
	Logger logger.Logger
}

func (s *SqliteStore) SetupConnection(dbname string) error {
	sqlite_dbfile := dbname + ".db"
	db, err := sqlx.Connect("sqlite3", sqlite_dbfile)
	if err != nil {
		s.Logger.Error("Database setup failed", err)
		return err
	}
	s.Conn = db
	s.Conn.MustExec(schema)
	s.Logger.Info(fmt.Sprintf("Database %s setup successfully", sqlite_dbfile))
	return nil
}

// readDoc fetches a single document by id into out. Absent rows surface as
// NotFound for the given kind.
func (s *SqliteStore) readDoc(table, kind, id string, out any) error {
	var raw string
	err := s.Conn.Get(&raw, `SELECT doc FROM `+table+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return &errs.NotFound{Kind: kind}
	}
	if err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to fetch from %s", table), err)
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *SqliteStore) insertDoc(table string, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.Conn.Exec(`INSERT INTO `+table+`(id, doc) VALUES(?, ?)`, id, string(raw))
	if err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to insert into %s", table), err)
	}
	return err
}

// replaceDoc is a full-document overwrite, not a patch. Callers are
// expected to read-modify-write.
func (s *SqliteStore) replaceDoc(table, kind, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := s.Conn.Exec(`UPDATE `+table+` SET doc = ? WHERE id = ?`, string(raw), id)
	if err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to replace in %s", table), err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &errs.NotFound{Kind: kind}
	}
	return nil
}

func (s *SqliteStore) removeDoc(table, id string) error {
	_, err := s.Conn.Exec(`DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to delete from %s", table), err)
	}
	return err
}

func (s *SqliteStore) removeAll(table string) error {
	_, err := s.Conn.Exec(`DELETE FROM ` + table)
	if err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to clear %s", table), err)
	}
	return err
}

func (s *SqliteStore) selectDocs(query string, args ...any) ([]string, error) {
	raws := []string{}
	if err := s.Conn.Select(&raws, query, args...); err != nil {
		return nil, err
	}
	return raws, nil
}

func unmarshalDocs[T any](raws []string) ([]*T, error) {
	out := make([]*T, 0, len(raws))
	for _, raw := range raws {
		doc := new(T)
		if err := json.Unmarshal([]byte(raw), doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}
