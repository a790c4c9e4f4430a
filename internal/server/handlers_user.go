package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"hanabi/internal/errs"
)

var createUserRequired = []KeySpec{
	{Key: "name", Type: "string"},
}

func (s *GameServer) CreateUser(writer http.ResponseWriter, request *http.Request) {
	args, err := s.readBodyArgs(request)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	if err := CheckKeys(s.Logger, createUserRequired, nil, args); err != nil {
		s.sendError(writer, err)
		return
	}
	user, err := s.Coord.CreateUser(args["name"].(string))
	if err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendJSON(writer, user, http.StatusCreated)
}

func (s *GameServer) GetUsers(writer http.ResponseWriter, request *http.Request) {
	s.Logger.Info("Hitting REST endpoint: '/user'")
	name := request.URL.Query().Get("name")
	gameId := request.URL.Query().Get("game_id")

	if name != "" {
		users, err := s.Db.Users.FindByName(name)
		if err != nil {
			s.sendError(writer, err)
			return
		}
		if len(users) == 0 {
			s.sendError(writer, errs.UserNotFound())
			return
		}
		s.sendJSON(writer, users[0], http.StatusOK)
		return
	}
	if gameId != "" {
		users, err := s.Db.Users.ListReferencing(gameId)
		if err != nil {
			s.sendError(writer, err)
			return
		}
		s.sendJSON(writer, users, http.StatusOK)
		return
	}
	users, err := s.Db.Users.ReadAll()
	if err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendJSON(writer, users, http.StatusOK)
}

func (s *GameServer) GetUser(writer http.ResponseWriter, request *http.Request) {
	userId := mux.Vars(request)["userId"]
	user, err := s.Db.Users.Read(userId)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendJSON(writer, user, http.StatusOK)
}

// JoinGame seats the user into the game behind the given meta game.
func (s *GameServer) JoinGame(writer http.ResponseWriter, request *http.Request) {
	userId := mux.Vars(request)["userId"]
	metaGameId := request.URL.Query().Get("meta_game_id")
	if metaGameId == "" {
		s.sendError(writer, &errs.ContractViolation{Key: "meta_game_id", Reason: "missing required arg"})
		return
	}
	if err := s.Coord.JoinGame(metaGameId, userId); err != nil {
		s.Logger.Error("Failed to process join game request", err)
		s.sendError(writer, err)
		return
	}
	s.sendResponse(writer, nil, http.StatusNoContent)
}

func (s *GameServer) DeleteUser(writer http.ResponseWriter, request *http.Request) {
	userId := mux.Vars(request)["userId"]
	if err := s.Db.Users.Remove(userId); err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendResponse(writer, nil, http.StatusNoContent)
}

func (s *GameServer) DeleteUsers(writer http.ResponseWriter, request *http.Request) {
	if err := s.Db.Users.RemoveAll(); err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendResponse(writer, nil, http.StatusNoContent)
}
