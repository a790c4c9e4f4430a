package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"hanabi/internal/db"
)

type GameServerTestSuite struct {
	suite.Suite
	gs     *GameServer
	server *httptest.Server
}

func (suite *GameServerTestSuite) SetupTest() {
	suite.gs = newGameServer("9999", db.NewMemoryStore())
	suite.server = httptest.NewServer(suite.gs.Router)
}

func (suite *GameServerTestSuite) TearDownTest() {
	suite.server.Close()
}

func TestGameServerSuite(t *testing.T) {
	suite.Run(t, new(GameServerTestSuite))
}

func ReadResponseBody(response *http.Response) ([]byte, error) {
	bodyReader := response.Body
	bytesRead, err := io.ReadAll(bodyReader)
	if err != nil {
		return nil, err
	}
	return bytesRead, nil
}

func (suite *GameServerTestSuite) apiCall(method, path string, body any) *http.Response {
	return suite.apiCallAs(method, path, body, "")
}

func (suite *GameServerTestSuite) apiCallAs(method, path string, body any, userId string) *http.Response {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Nil(err, "Failed to marshal request body")
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, suite.server.URL+HTTP_API_V1_PREFIX+path, reader)
	suite.Nil(err, "Failed to build request")
	if userId != "" {
		req.Header.Set("X-User-Id", userId)
	}
	resp, err := http.DefaultClient.Do(req)
	suite.Nil(err, "Failed to execute api call")
	return resp
}

func (suite *GameServerTestSuite) createUser(name string) string {
	resp := suite.apiCall("POST", "/user", map[string]any{"name": name})
	suite.Equal(http.StatusCreated, resp.StatusCode, "Failed to create user")
	respBody, err := ReadResponseBody(resp)
	suite.Nil(err)
	user := &db.User{}
	suite.Nil(json.Unmarshal(respBody, user))
	return user.Id
}

func (suite *GameServerTestSuite) createGame(ownerId string, numPlayers int) string {
	resp := suite.apiCallAs("POST", "/game", map[string]any{
		"game_name":   "friday night",
		"num_players": numPlayers,
	}, ownerId)
	suite.Equal(http.StatusCreated, resp.StatusCode, "Failed to create game")
	respBody, err := ReadResponseBody(resp)
	suite.Nil(err)
	created := map[string]string{}
	suite.Nil(json.Unmarshal(respBody, &created))
	suite.NotEmpty(created["id"])
	return created["id"]
}

func (suite *GameServerTestSuite) metaGameOf(gameId string) map[string]any {
	resp := suite.apiCall("GET", "/meta/game", nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	respBody, err := ReadResponseBody(resp)
	suite.Nil(err)
	views := []map[string]any{}
	suite.Nil(json.Unmarshal(respBody, &views))
	for _, view := range views {
		if view["game_id"] == gameId {
			return view
		}
	}
	suite.FailNow(fmt.Sprintf("No meta game found for game %s", gameId))
	return nil
}

func (suite *GameServerTestSuite) TestCreateNewGame() {
	ownerId := suite.createUser("rookie")
	tests := []struct {
		description        string
		body               map[string]any
		userId             string
		expectedStatusCode int
	}{
		{"Test with valid new game request", map[string]any{"game_name": "g", "num_players": 3}, ownerId, http.StatusCreated},
		{"Test with missing game name", map[string]any{"num_players": 3}, ownerId, http.StatusBadRequest},
		{"Test with empty game name", map[string]any{"game_name": "", "num_players": 3}, ownerId, http.StatusBadRequest},
		{"Test with missing player count", map[string]any{"game_name": "g"}, ownerId, http.StatusBadRequest},
		{"Test with mistyped player count", map[string]any{"game_name": "g", "num_players": "three"}, ownerId, http.StatusBadRequest},
		{"Test with missing user header", map[string]any{"game_name": "g", "num_players": 3}, "", http.StatusBadRequest},
		{"Test with unknown owner", map[string]any{"game_name": "g", "num_players": 3}, db.NewID(), http.StatusNotFound},
		{"Test with unexpected extra key", map[string]any{"game_name": "g", "num_players": 3, "theme": "dark"}, ownerId, http.StatusCreated},
	}
	for _, tc := range tests {
		suite.Run(tc.description, func() {
			resp := suite.apiCallAs("POST", "/game", tc.body, tc.userId)
			suite.Equal(tc.expectedStatusCode, resp.StatusCode)
		})
	}
}

func (suite *GameServerTestSuite) TestPlayersJoin() {
	ownerId := suite.createUser("rookie")
	gameId := suite.createGame(ownerId, 3)
	metaGameId := suite.metaGameOf(gameId)["_id"].(string)

	joinerId := suite.createUser("veteran")
	resp := suite.apiCall("PUT", fmt.Sprintf("/user/%s?meta_game_id=%s", joinerId, metaGameId), nil)
	suite.Equal(http.StatusNoContent, resp.StatusCode, "Failed to join the game")

	view := suite.metaGameOf(gameId)
	suite.Len(view["players"], 2, "Lobby must list both players")

	// the joined user record carries the seat
	resp = suite.apiCall("GET", "/user/"+joinerId, nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	respBody, err := ReadResponseBody(resp)
	suite.Nil(err)
	joiner := &db.User{}
	suite.Nil(json.Unmarshal(respBody, joiner))
	suite.Equal([]db.GameRef{{Game: gameId, PlayerId: 1}}, joiner.Games)
}

func (suite *GameServerTestSuite) TestPlayersJoinCapacityFull() {
	ownerId := suite.createUser("rookie")
	gameId := suite.createGame(ownerId, 2)
	metaGameId := suite.metaGameOf(gameId)["_id"].(string)

	secondId := suite.createUser("veteran")
	resp := suite.apiCall("PUT", fmt.Sprintf("/user/%s?meta_game_id=%s", secondId, metaGameId), nil)
	suite.Equal(http.StatusNoContent, resp.StatusCode)

	lateId := suite.createUser("latecomer")
	resp = suite.apiCall("PUT", fmt.Sprintf("/user/%s?meta_game_id=%s", lateId, metaGameId), nil)
	suite.Equal(http.StatusConflict, resp.StatusCode, "Player limit exhausted, expected the join to be rejected")
}

func (suite *GameServerTestSuite) TestJoinTwiceConflicts() {
	ownerId := suite.createUser("rookie")
	gameId := suite.createGame(ownerId, 3)
	metaGameId := suite.metaGameOf(gameId)["_id"].(string)

	joinerId := suite.createUser("veteran")
	resp := suite.apiCall("PUT", fmt.Sprintf("/user/%s?meta_game_id=%s", joinerId, metaGameId), nil)
	suite.Equal(http.StatusNoContent, resp.StatusCode)
	resp = suite.apiCall("PUT", fmt.Sprintf("/user/%s?meta_game_id=%s", joinerId, metaGameId), nil)
	suite.Equal(http.StatusConflict, resp.StatusCode)
}

func (suite *GameServerTestSuite) TestDeleteGameCascades() {
	ownerId := suite.createUser("rookie")
	gameId := suite.createGame(ownerId, 2)
	metaGameId := suite.metaGameOf(gameId)["_id"].(string)

	resp := suite.apiCall("DELETE", "/game/"+gameId, nil)
	suite.Equal(http.StatusNoContent, resp.StatusCode)

	resp = suite.apiCall("GET", "/meta/game/"+metaGameId, nil)
	suite.Equal(http.StatusNotFound, resp.StatusCode, "Meta game must be gone after delete")

	resp = suite.apiCall("GET", "/user/"+ownerId, nil)
	suite.Equal(http.StatusOK, resp.StatusCode)
	respBody, err := ReadResponseBody(resp)
	suite.Nil(err)
	owner := &db.User{}
	suite.Nil(json.Unmarshal(respBody, owner))
	suite.Empty(owner.Owns, "Owner must no longer claim the deleted game")
}

func (suite *GameServerTestSuite) TestGetAbsentGame() {
	resp := suite.apiCall("GET", "/game/"+db.NewID(), nil)
	suite.Equal(http.StatusNotFound, resp.StatusCode)
}

func (suite *GameServerTestSuite) TestGetGameWithMalformedId() {
	resp := suite.apiCall("GET", "/game/oops", nil)
	suite.Equal(http.StatusNotFound, resp.StatusCode, "Malformed ids read as absent")
}

func (suite *GameServerTestSuite) TestDuplicateUserName() {
	suite.createUser("rookie")
	resp := suite.apiCall("POST", "/user", map[string]any{"name": "rookie"})
	suite.Equal(http.StatusConflict, resp.StatusCode)
}

func (suite *GameServerTestSuite) TestHintWithoutTurn() {
	ownerId := suite.createUser("rookie")
	gameId := suite.createGame(ownerId, 2)

	// seat 1 acts first, which is not their turn
	resp := suite.apiCall("POST", fmt.Sprintf("/player/1?game_id=%s&hint=red&affected_player=0", gameId), nil)
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (suite *GameServerTestSuite) TestHintUpdatesMetaGameCounters() {
	ownerId := suite.createUser("rookie")
	gameId := suite.createGame(ownerId, 2)

	resp := suite.apiCall("POST", fmt.Sprintf("/player/0?game_id=%s&hint=red&affected_player=1", gameId), nil)
	suite.Equal(http.StatusOK, resp.StatusCode)

	view := suite.metaGameOf(gameId)
	suite.Equal(float64(7), view["num_hints"], "Lobby counters must track the engine state")
	suite.Equal(float64(1), view["turn"])
}
