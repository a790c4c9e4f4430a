package db

import (
	"hanabi/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

// GameRepository gives CRUD access to the games collection. Repositories
// never call each other; cross-aggregate consistency is the coordinator's
// job.
type GameRepository interface {
	Read(id string) (*Game, error)
	ReadAll() ([]*Game, error)
	Insert(game *Game) (string, error)
	Replace(id string, game *Game) error
	Remove(id string) error
	RemoveAll() error
}

// MetaGameRepository gives CRUD access to the metagames collection.
type MetaGameRepository interface {
	Read(id string) (*MetaGame, error)
	ReadAll() ([]*MetaGame, error)
	Insert(metaGame *MetaGame) (string, error)
	Replace(id string, metaGame *MetaGame) error
	Remove(id string) error
	RemoveByGame(gameId string) error
	FindByGame(gameId string) (*MetaGame, error)
	RemoveAll() error
}

// UserRepository gives CRUD access to the users collection.
type UserRepository interface {
	Read(id string) (*User, error)
	ReadAll() ([]*User, error)
	Insert(user *User) (string, error)
	Replace(id string, user *User) error
	Remove(id string) error
	RemoveAll() error
	FindByName(name string) ([]*User, error)
	// ListReferencing returns every user whose owns or games entries
	// reference the given game.
	ListReferencing(gameId string) ([]*User, error)
}

// Store bundles the three aggregate repositories over one shared
// connection. It is created once at startup and shared by every request.
type Store struct {
	Games     GameRepository
	Metagames MetaGameRepository
	Users     UserRepository
	Logger    logger.Logger

	closer func() error
}

func (s *Store) CloseConnection() {
	if s.closer == nil {
		return
	}
	s.Logger.Info("Closing database connection")
	if err := s.closer(); err != nil {
		s.Logger.Error("Failed to tear down database connection", err)
		return
	}
	s.Logger.Info("Database connection closed successfully")
}

// SetupDB opens the sqlite-backed store and ensures the collections exist.
func SetupDB(dbName string) (*Store, error) {
	sqlite := &SqliteStore{
		Logger: logger.New("database"),
	}
	if err := sqlite.SetupConnection(dbName); err != nil {
		return nil, err
	}
	return &Store{
		Games:     &sqliteGameRepo{sqlite},
		Metagames: &sqliteMetaGameRepo{sqlite},
		Users:     &sqliteUserRepo{sqlite},
		Logger:    sqlite.Logger,
		closer:    sqlite.Conn.Close,
	}, nil
}
