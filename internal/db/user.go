package db

import "fmt"

type sqliteUserRepo struct {
	store *SqliteStore
}

func (r *sqliteUserRepo) Read(id string) (*User, error) {
	if err := CheckID("user", id); err != nil {
		return nil, err
	}
	r.store.Logger.Debug(fmt.Sprintf("Fetching user %s", id))
	user := &User{}
	if err := r.store.readDoc("users", "user", id, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *sqliteUserRepo) ReadAll() ([]*User, error) {
	raws, err := r.store.selectDocs(`SELECT doc FROM users`)
	if err != nil {
		return nil, err
	}
	return unmarshalDocs[User](raws)
}

func (r *sqliteUserRepo) Insert(user *User) (string, error) {
	user.Id = NewID()
	if user.Games == nil {
		user.Games = []GameRef{}
	}
	if user.Owns == nil {
		user.Owns = []GameRef{}
	}
	if err := r.store.insertDoc("users", user.Id, user); err != nil {
		return "", err
	}
	return user.Id, nil
}

func (r *sqliteUserRepo) Replace(id string, user *User) error {
	if err := CheckID("user", id); err != nil {
		return err
	}
	user.Id = id
	return r.store.replaceDoc("users", "user", id, user)
}

func (r *sqliteUserRepo) Remove(id string) error {
	if err := CheckID("user", id); err != nil {
		return err
	}
	return r.store.removeDoc("users", id)
}

func (r *sqliteUserRepo) RemoveAll() error {
	return r.store.removeAll("users")
}

func (r *sqliteUserRepo) FindByName(name string) ([]*User, error) {
	raws, err := r.store.selectDocs(
		`SELECT doc FROM users WHERE json_extract(doc, '$.name') = ?`, name)
	if err != nil {
		r.store.Logger.Error("Failed to fetch users by name", err)
		return nil, err
	}
	return unmarshalDocs[User](raws)
}

func (r *sqliteUserRepo) ListReferencing(gameId string) ([]*User, error) {
	if err := CheckID("game", gameId); err != nil {
		return nil, err
	}
	raws, err := r.store.selectDocs(
		`SELECT doc FROM users
		 WHERE EXISTS (
		   SELECT 1 FROM json_each(users.doc, '$.owns')
		   WHERE json_extract(json_each.value, '$.game') = ?
		 )
		 OR EXISTS (
		   SELECT 1 FROM json_each(users.doc, '$.games')
		   WHERE json_extract(json_each.value, '$.game') = ?
		 )`, gameId, gameId)
	if err != nil {
		r.store.Logger.Error("Failed to fetch users referencing game", err)
		return nil, err
	}
	return unmarshalDocs[User](raws)
}
