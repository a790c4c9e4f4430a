package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hanabi/internal/db"
)

// Boots the server against a throwaway sqlite file and walks the whole
// flow over HTTP: users, game creation, joining, lobby view, delete.
func TestGameFlow(t *testing.T) {
	store, err := db.SetupDB(filepath.Join(t.TempDir(), "hanabi_test"))
	require.Nil(t, err, "Failed to setup test database")
	gs := newGameServer("9998", store)
	ts := httptest.NewServer(gs.Router)
	defer func() {
		ts.Close()
		gs.Shutdown()
	}()

	call := func(method, path string, body any, userId string) *http.Response {
		var buf *bytes.Buffer
		if body != nil {
			raw, err := json.Marshal(body)
			require.Nil(t, err)
			buf = bytes.NewBuffer(raw)
		} else {
			buf = bytes.NewBuffer(nil)
		}
		req, err := http.NewRequest(method, ts.URL+HTTP_API_V1_PREFIX+path, buf)
		require.Nil(t, err)
		if userId != "" {
			req.Header.Set("X-User-Id", userId)
		}
		resp, err := http.DefaultClient.Do(req)
		require.Nil(t, err, "Failed to execute %s %s", method, path)
		return resp
	}

	// Register the owner
	resp := call("POST", "/user", map[string]any{"name": "rookie"}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "Failed to create user")
	owner := &db.User{}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(owner))

	// Create a game for three players
	resp = call("POST", "/game", map[string]any{"game_name": "friday night", "num_players": 3}, owner.Id)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, "Failed to create new game")
	created := map[string]string{}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&created))
	gameId := created["id"]
	require.NotEmpty(t, gameId)

	// The lobby lists it with the owner resolved
	resp = call("GET", "/meta/game", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	views := []map[string]any{}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&views))
	require.Len(t, views, 1)
	metaGameId := views[0]["_id"].(string)
	ownerDoc := views[0]["owner"].(map[string]any)
	assert.Equal(t, "rookie", ownerDoc["name"])

	// Two more players join; a third join must bounce off the cap
	for player := 1; player <= 2; player++ {
		resp = call("POST", "/user", map[string]any{"name": fmt.Sprintf("player%d", player)}, "")
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		joiner := &db.User{}
		require.Nil(t, json.NewDecoder(resp.Body).Decode(joiner))
		resp = call("PUT", fmt.Sprintf("/user/%s?meta_game_id=%s", joiner.Id, metaGameId), nil, "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode, "Failed to add player to the game")
	}
	resp = call("POST", "/user", map[string]any{"name": "playerlast"}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	last := &db.User{}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(last))
	resp = call("PUT", fmt.Sprintf("/user/%s?meta_game_id=%s", last.Id, metaGameId), nil, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode,
		"Player limit has been exhausted, expected the join request to be rejected")

	// Delete and verify nothing still references the game
	resp = call("DELETE", "/game/"+gameId, nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = call("GET", "/meta/game/"+metaGameId, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = call("GET", "/user/"+owner.Id, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	ownerAfter := &db.User{}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(ownerAfter))
	assert.Empty(t, ownerAfter.Owns)
}
