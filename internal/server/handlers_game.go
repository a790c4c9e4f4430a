package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"hanabi/internal/db"
	"hanabi/internal/errs"
)

var createGameRequired = []KeySpec{
	{Key: "game_name", Type: "string"},
	{Key: "num_players", Type: "int"},
}

var createGameOptional = []KeySpec{
	{Key: "with_rainbow", Type: "bool"},
}

func (s *GameServer) CreateNewGame(writer http.ResponseWriter, request *http.Request) {
	s.Logger.Info("Player is creating a new game")
	args, err := s.readBodyArgs(request)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	if err := CheckKeys(s.Logger, createGameRequired, createGameOptional, args); err != nil {
		s.Logger.Error("Bad game request", err)
		s.sendError(writer, err)
		return
	}
	ownerId := request.Header.Get("X-User-Id")
	if ownerId == "" {
		s.sendError(writer, &errs.ContractViolation{Key: "X-User-Id", Reason: "missing required header"})
		return
	}

	gameName := args["game_name"].(string)
	numPlayers := asInt(args["num_players"])
	withRainbow, _ := args["with_rainbow"].(bool)

	s.Logger.Debug("Creating instance of game.")
	state, err := s.Engine.NewGame(numPlayers, withRainbow, gameName)
	if err != nil {
		s.sendError(writer, err)
		return
	}

	s.Logger.Debug("Inserting game into database.")
	gameId, err := s.Coord.CreateGame(ownerId, &db.Game{Name: gameName, State: state})
	if err != nil {
		s.Logger.Error("CreateNewGame request failed", err)
		s.sendError(writer, err)
		return
	}
	s.sendJSON(writer, map[string]string{"id": gameId}, http.StatusCreated)
}

func (s *GameServer) GetGames(writer http.ResponseWriter, request *http.Request) {
	s.Logger.Info("Hitting REST endpoint: '/game'")
	games, err := s.Db.Games.ReadAll()
	if err != nil {
		s.sendError(writer, err)
		return
	}
	summaries := make([]map[string]string, 0, len(games))
	for _, game := range games {
		summaries = append(summaries, map[string]string{"id": game.Id, "name": game.Name})
	}
	s.sendJSON(writer, summaries, http.StatusOK)
}

func (s *GameServer) GetGame(writer http.ResponseWriter, request *http.Request) {
	gameId := mux.Vars(request)["gameId"]
	s.Logger.Debug(fmt.Sprintf("Getting a single game %s", gameId))
	game, err := s.Db.Games.Read(gameId)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendJSON(writer, game, http.StatusOK)
}

func (s *GameServer) DeleteGame(writer http.ResponseWriter, request *http.Request) {
	gameId := mux.Vars(request)["gameId"]
	if err := s.Coord.DeleteGame(gameId); err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendResponse(writer, nil, http.StatusNoContent)
}

func (s *GameServer) DeleteGames(writer http.ResponseWriter, request *http.Request) {
	if err := s.Coord.DeleteAllGames(); err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendResponse(writer, nil, http.StatusNoContent)
}

func (s *GameServer) GetMetaGames(writer http.ResponseWriter, request *http.Request) {
	s.Logger.Info("Hitting REST endpoint: '/meta/game'")
	metaGames, err := s.Db.Metagames.ReadAll()
	if err != nil {
		s.sendError(writer, err)
		return
	}
	views, err := s.Projector.MetaGames(metaGames)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendJSON(writer, views, http.StatusOK)
}

func (s *GameServer) GetMetaGame(writer http.ResponseWriter, request *http.Request) {
	metaGameId := mux.Vars(request)["metaGameId"]
	metaGame, err := s.Db.Metagames.Read(metaGameId)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	view, err := s.Projector.MetaGame(metaGame)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendJSON(writer, view, http.StatusOK)
}

func asInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
