package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"hanabi/internal/engine"
	"hanabi/internal/errs"
)

func (s *GameServer) GetPiece(writer http.ResponseWriter, request *http.Request) {
	s.Logger.Info("Hitting REST endpoint: '/piece'")
	pieceId := mux.Vars(request)["pieceId"]
	gameId := request.URL.Query().Get("game_id")
	if gameId == "" {
		s.sendError(writer, &errs.ContractViolation{Key: "game_id", Reason: "missing required arg"})
		return
	}
	game, err := s.Db.Games.Read(gameId)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	piece, err := engine.FindPiece(game.State, pieceId)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	s.sendJSON(writer, piece, http.StatusOK)
}

// ActOnPiece plays or discards a piece. The engine decides legality; the
// handler only persists what the engine hands back.
func (s *GameServer) ActOnPiece(writer http.ResponseWriter, request *http.Request) {
	pieceId := mux.Vars(request)["pieceId"]
	gameId := request.URL.Query().Get("game_id")
	action := request.URL.Query().Get("action")
	seat, err := s.requireSeat(request, "player_id")
	if err != nil {
		s.sendError(writer, err)
		return
	}
	if gameId == "" {
		s.sendError(writer, &errs.ContractViolation{Key: "game_id", Reason: "missing required arg"})
		return
	}
	if action != engine.ActionPlay && action != engine.ActionDiscard {
		s.sendError(writer, &errs.ContractViolation{
			Key:    "action",
			Reason: "not recognized. Must be either play or discard",
		})
		return
	}

	game, err := s.Db.Games.Read(gameId)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	newState, err := s.Engine.Apply(game.State, seat, engine.Action{Kind: action, PieceId: pieceId})
	if errors.Is(err, engine.ErrYouLose) {
		// The losing move is still persisted; the game is over.
		if _, updErr := s.Coord.UpdateGame(gameId, newState, true); updErr != nil {
			s.sendError(writer, updErr)
			return
		}
		s.sendError(writer, err)
		return
	}
	if err != nil {
		s.sendError(writer, err)
		return
	}
	if _, err := s.Coord.UpdateGame(gameId, newState, game.Finished); err != nil {
		s.sendError(writer, err)
		return
	}
	msg := "Successfully played piece."
	if action == engine.ActionDiscard {
		msg = "Successfully removed piece."
	}
	s.sendJSON(writer, map[string]string{"message": msg}, http.StatusOK)
}

func (s *GameServer) GetPlayer(writer http.ResponseWriter, request *http.Request) {
	s.Logger.Info("Hitting REST endpoint: '/player'")
	gameId := request.URL.Query().Get("game_id")
	if gameId == "" {
		s.sendError(writer, &errs.ContractViolation{Key: "game_id", Reason: "missing required arg"})
		return
	}
	seat, err := s.requireSeat(request, "player_id")
	if err != nil {
		s.sendError(writer, err)
		return
	}
	game, err := s.Db.Games.Read(gameId)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	players, _ := game.State["players"].([]any)
	if seat < 0 || seat >= len(players) {
		s.sendError(writer, &errs.NotFound{Kind: "player"})
		return
	}
	s.sendJSON(writer, players[seat], http.StatusOK)
}

// GiveHint spends a hint on behalf of the acting player.
func (s *GameServer) GiveHint(writer http.ResponseWriter, request *http.Request) {
	gameId := request.URL.Query().Get("game_id")
	hint := request.URL.Query().Get("hint")
	if gameId == "" {
		s.sendError(writer, &errs.ContractViolation{Key: "game_id", Reason: "missing required arg"})
		return
	}
	if hint == "" {
		s.sendError(writer, &errs.ContractViolation{Key: "hint", Reason: "missing required arg"})
		return
	}
	seat, err := s.seatFromVar(request, "playerId")
	if err != nil {
		s.sendError(writer, err)
		return
	}
	affected, err := s.requireSeat(request, "affected_player")
	if err != nil {
		s.sendError(writer, err)
		return
	}

	game, err := s.Db.Games.Read(gameId)
	if err != nil {
		s.sendError(writer, err)
		return
	}
	newState, err := s.Engine.Apply(game.State, seat, engine.Action{
		Kind:         engine.ActionHint,
		Hint:         hint,
		AffectedSeat: affected,
	})
	if err != nil {
		s.sendError(writer, err)
		return
	}
	if _, err := s.Coord.UpdateGame(gameId, newState, game.Finished); err != nil {
		s.sendError(writer, err)
		return
	}
	s.Coord.Notify.Emit("player_updated", map[string]any{
		"affected_player": affected,
		"acting_player":   seat,
	})
	s.sendJSON(writer, newState, http.StatusOK)
}

func (s *GameServer) requireSeat(request *http.Request, key string) (int, error) {
	raw := request.URL.Query().Get(key)
	if raw == "" {
		return 0, &errs.ContractViolation{Key: key, Reason: "missing required arg"}
	}
	seat, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &errs.ContractViolation{Key: key, Reason: "is not an integer"}
	}
	return seat, nil
}

func (s *GameServer) seatFromVar(request *http.Request, name string) (int, error) {
	raw := mux.Vars(request)[name]
	seat, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &errs.ContractViolation{Key: name, Reason: "is not an integer"}
	}
	return seat, nil
}

// HandleClientPush subscribes a websocket client to the event stream.
func (s *GameServer) HandleClientPush(writer http.ResponseWriter, request *http.Request) {
	wssConn := s.UpgradeToWebsocket(writer, request)
	if wssConn == nil {
		return
	}
	s.Hub.Add(wssConn)
	for {
		if _, _, err := wssConn.ReadMessage(); err != nil {
			s.Logger.Info("Subscriber disconnected")
			s.Hub.Remove(wssConn)
			return
		}
	}
}
