package db

import (
	"encoding/json"
	"sync"

	"hanabi/internal/errs"
	"hanabi/internal/logger"
)

// NewMemoryStore builds a Store backed by in-process maps. It has the same
// semantics as the sqlite store, including document copy-on-read so callers
// never alias stored state. Used by tests and available as a throwaway
// backend.
func NewMemoryStore() *Store {
	m := &memoryStore{
		games:     make(map[string]string),
		metagames: make(map[string]string),
		users:     make(map[string]string),
	}
	return &Store{
		Games:     &memoryGameRepo{m},
		Metagames: &memoryMetaGameRepo{m},
		Users:     &memoryUserRepo{m},
		Logger:    logger.New("memory_database"),
	}
}

type memoryStore struct {
	mut       sync.Mutex
	games     map[string]string
	metagames map[string]string
	users     map[string]string
}

// Documents are held as JSON so reads hand out copies, mirroring the
// sqlite-backed store.
func encodeDoc(doc any) string {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

func decodeDoc[T any](raw string) *T {
	doc := new(T)
	if err := json.Unmarshal([]byte(raw), doc); err != nil {
		panic(err)
	}
	return doc
}

type memoryGameRepo struct {
	store *memoryStore
}

func (r *memoryGameRepo) Read(id string) (*Game, error) {
	if err := CheckID("game", id); err != nil {
		return nil, err
	}
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	raw, exists := r.store.games[id]
	if !exists {
		return nil, &errs.NotFound{Kind: "game"}
	}
	return decodeDoc[Game](raw), nil
}

func (r *memoryGameRepo) ReadAll() ([]*Game, error) {
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	games := []*Game{}
	for _, raw := range r.store.games {
		games = append(games, decodeDoc[Game](raw))
	}
	return games, nil
}

func (r *memoryGameRepo) Insert(game *Game) (string, error) {
	game.Id = NewID()
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	r.store.games[game.Id] = encodeDoc(game)
	return game.Id, nil
}

func (r *memoryGameRepo) Replace(id string, game *Game) error {
	if err := CheckID("game", id); err != nil {
		return err
	}
	game.Id = id
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	if _, exists := r.store.games[id]; !exists {
		return &errs.NotFound{Kind: "game"}
	}
	r.store.games[id] = encodeDoc(game)
	return nil
}

func (r *memoryGameRepo) Remove(id string) error {
	if err := CheckID("game", id); err != nil {
		return err
	}
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	delete(r.store.games, id)
	return nil
}

func (r *memoryGameRepo) RemoveAll() error {
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	r.store.games = make(map[string]string)
	return nil
}

type memoryMetaGameRepo struct {
	store *memoryStore
}

func (r *memoryMetaGameRepo) Read(id string) (*MetaGame, error) {
	if err := CheckID("meta game", id); err != nil {
		return nil, err
	}
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	raw, exists := r.store.metagames[id]
	if !exists {
		return nil, &errs.NotFound{Kind: "meta game"}
	}
	return decodeDoc[MetaGame](raw), nil
}

func (r *memoryMetaGameRepo) ReadAll() ([]*MetaGame, error) {
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	metaGames := []*MetaGame{}
	for _, raw := range r.store.metagames {
		metaGames = append(metaGames, decodeDoc[MetaGame](raw))
	}
	return metaGames, nil
}

func (r *memoryMetaGameRepo) Insert(metaGame *MetaGame) (string, error) {
	metaGame.Id = NewID()
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	r.store.metagames[metaGame.Id] = encodeDoc(metaGame)
	return metaGame.Id, nil
}

func (r *memoryMetaGameRepo) Replace(id string, metaGame *MetaGame) error {
	if err := CheckID("meta game", id); err != nil {
		return err
	}
	metaGame.Id = id
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	if _, exists := r.store.metagames[id]; !exists {
		return &errs.NotFound{Kind: "meta game"}
	}
	r.store.metagames[id] = encodeDoc(metaGame)
	return nil
}

func (r *memoryMetaGameRepo) Remove(id string) error {
	if err := CheckID("meta game", id); err != nil {
		return err
	}
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	delete(r.store.metagames, id)
	return nil
}

func (r *memoryMetaGameRepo) RemoveByGame(gameId string) error {
	if err := CheckID("game", gameId); err != nil {
		return err
	}
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	for id, raw := range r.store.metagames {
		if decodeDoc[MetaGame](raw).GameId == gameId {
			delete(r.store.metagames, id)
		}
	}
	return nil
}

func (r *memoryMetaGameRepo) FindByGame(gameId string) (*MetaGame, error) {
	if err := CheckID("game", gameId); err != nil {
		return nil, err
	}
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	for _, raw := range r.store.metagames {
		metaGame := decodeDoc[MetaGame](raw)
		if metaGame.GameId == gameId {
			return metaGame, nil
		}
	}
	return nil, &errs.NotFound{Kind: "meta game"}
}

func (r *memoryMetaGameRepo) RemoveAll() error {
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	r.store.metagames = make(map[string]string)
	return nil
}

type memoryUserRepo struct {
	store *memoryStore
}

func (r *memoryUserRepo) Read(id string) (*User, error) {
	if err := CheckID("user", id); err != nil {
		return nil, err
	}
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	raw, exists := r.store.users[id]
	if !exists {
		return nil, &errs.NotFound{Kind: "user"}
	}
	return decodeDoc[User](raw), nil
}

func (r *memoryUserRepo) ReadAll() ([]*User, error) {
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	users := []*User{}
	for _, raw := range r.store.users {
		users = append(users, decodeDoc[User](raw))
	}
	return users, nil
}

func (r *memoryUserRepo) Insert(user *User) (string, error) {
	user.Id = NewID()
	if user.Games == nil {
		user.Games = []GameRef{}
	}
	if user.Owns == nil {
		user.Owns = []GameRef{}
	}
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	r.store.users[user.Id] = encodeDoc(user)
	return user.Id, nil
}

func (r *memoryUserRepo) Replace(id string, user *User) error {
	if err := CheckID("user", id); err != nil {
		return err
	}
	user.Id = id
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	if _, exists := r.store.users[id]; !exists {
		return &errs.NotFound{Kind: "user"}
	}
	r.store.users[id] = encodeDoc(user)
	return nil
}

func (r *memoryUserRepo) Remove(id string) error {
	if err := CheckID("user", id); err != nil {
		return err
	}
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	delete(r.store.users, id)
	return nil
}

func (r *memoryUserRepo) RemoveAll() error {
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	r.store.users = make(map[string]string)
	return nil
}

func (r *memoryUserRepo) FindByName(name string) ([]*User, error) {
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	users := []*User{}
	for _, raw := range r.store.users {
		user := decodeDoc[User](raw)
		if user.Name == name {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *memoryUserRepo) ListReferencing(gameId string) ([]*User, error) {
	if err := CheckID("game", gameId); err != nil {
		return nil, err
	}
	r.store.mut.Lock()
	defer r.store.mut.Unlock()
	users := []*User{}
	for _, raw := range r.store.users {
		user := decodeDoc[User](raw)
		if refersTo(user.Owns, gameId) || refersTo(user.Games, gameId) {
			users = append(users, user)
		}
	}
	return users, nil
}

func refersTo(refs []GameRef, gameId string) bool {
	for _, ref := range refs {
		if ref.Game == gameId {
			return true
		}
	}
	return false
}
