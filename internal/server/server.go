package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"hanabi/internal/coordinator"
	"hanabi/internal/db"
	"hanabi/internal/engine"
	"hanabi/internal/errs"
	"hanabi/internal/logger"
	"hanabi/internal/projection"
)

const HTTP_API_V1_PREFIX = "/api/v1"

type GameServer struct {
	Db          *db.Store
	Coord       *coordinator.Coordinator
	Projector   *projection.Builder
	Engine      engine.Engine
	Logger      logger.Logger
	port        string
	wssUpgrader websocket.Upgrader
	Router      *mux.Router
	Hub         *Hub
}

func NewGameServer(port string) (*GameServer, error) {
	store, err := db.SetupDB(os.Getenv("HANABI_DB"))
	if err != nil {
		return nil, err
	}
	return newGameServer(port, store), nil
}

func newGameServer(port string, store *db.Store) *GameServer {
	hub := NewHub()
	gs := &GameServer{
		Db:        store,
		Coord:     coordinator.New(store, hub),
		Projector: projection.NewBuilder(store.Users),
		Engine:    engine.NewRules(),
		Logger:    logger.New("api_server"),
		port:      port,
		wssUpgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		Router: mux.NewRouter().PathPrefix(HTTP_API_V1_PREFIX).Subrouter(),
		Hub:    hub,
	}
	gs.registerRoutes()
	return gs
}

func (s *GameServer) registerRoutes() {
	s.Router.HandleFunc("/game", s.CreateNewGame).Methods("POST")
	s.Router.HandleFunc("/game", s.GetGames).Methods("GET")
	s.Router.HandleFunc("/game", s.DeleteGames).Methods("DELETE")
	s.Router.HandleFunc("/game/{gameId}", s.GetGame).Methods("GET")
	s.Router.HandleFunc("/game/{gameId}", s.DeleteGame).Methods("DELETE")
	s.Router.HandleFunc("/meta/game", s.GetMetaGames).Methods("GET")
	s.Router.HandleFunc("/meta/game/{metaGameId}", s.GetMetaGame).Methods("GET")
	s.Router.HandleFunc("/user", s.CreateUser).Methods("POST")
	s.Router.HandleFunc("/user", s.GetUsers).Methods("GET")
	s.Router.HandleFunc("/user", s.DeleteUsers).Methods("DELETE")
	s.Router.HandleFunc("/user/{userId}", s.GetUser).Methods("GET")
	s.Router.HandleFunc("/user/{userId}", s.JoinGame).Methods("PUT")
	s.Router.HandleFunc("/user/{userId}", s.DeleteUser).Methods("DELETE")
	s.Router.HandleFunc("/piece/{pieceId}", s.GetPiece).Methods("GET")
	s.Router.HandleFunc("/piece/{pieceId}", s.ActOnPiece).Methods("POST")
	s.Router.HandleFunc("/player/{playerId}", s.GetPlayer).Methods("GET")
	s.Router.HandleFunc("/player/{playerId}", s.GiveHint).Methods("POST")
	s.Router.HandleFunc("/push", s.HandleClientPush)
}

func (s *GameServer) Run() {
	s.Logger.Info(fmt.Sprintf("Starting server on port %s", s.port))
	sigtermHandler := make(chan os.Signal, 1)
	signal.Notify(sigtermHandler, os.Interrupt)
	go func() {
		<-sigtermHandler
		s.Shutdown()
		os.Exit(0)
	}()
	if err := http.ListenAndServe(fmt.Sprintf(":%s", s.port), s.Router); err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to start server on port %s", s.port), err)
		return
	}
}

func (s *GameServer) Shutdown() {
	s.Logger.Info("Shutting down server....")
	s.Db.CloseConnection()
	s.Logger.Info("Goodbye !")
}

func (s *GameServer) UpgradeToWebsocket(writer http.ResponseWriter, request *http.Request) *websocket.Conn {
	conn, err := s.wssUpgrader.Upgrade(writer, request, nil)
	if err != nil {
		s.Logger.Error("Failed to upgrade to WS connection", err)
		return nil
	}
	return conn
}

func (s *GameServer) ReadRequestBody(request *http.Request) ([]byte, error) {
	bodyReader := request.Body
	bytesRead, err := io.ReadAll(bodyReader)
	if err != nil {
		s.Logger.Error("Failed to read request body", err)
		return nil, err
	}
	return bytesRead, nil
}

// readBodyArgs parses the request body into the parameter mapping the
// contract validator checks.
func (s *GameServer) readBodyArgs(request *http.Request) (map[string]any, error) {
	data, err := s.ReadRequestBody(request)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &errs.ContractViolation{Key: "body", Reason: "request requires a body"}
	}
	args := map[string]any{}
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, &errs.ContractViolation{Key: "body", Reason: "body was not valid JSON"}
	}
	return args, nil
}

func (s *GameServer) sendResponse(writer http.ResponseWriter, responseBody []byte, status int) {
	writer.WriteHeader(status)
	if responseBody == nil {
		return
	}
	_, err := writer.Write(responseBody)
	if err != nil {
		s.Logger.Info("Failed to write response body")
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
}

func (s *GameServer) sendJSON(writer http.ResponseWriter, payload any, status int) {
	respBody, err := json.Marshal(payload)
	if err != nil {
		s.sendResponse(writer, nil, http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	s.sendResponse(writer, respBody, status)
}

// sendError maps the error taxonomy onto status codes: bad input 400,
// absent 404, state conflicts 409, anything else 500.
func (s *GameServer) sendError(writer http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errs.IsContractViolation(err) || errs.IsRuleViolation(err):
		status = http.StatusBadRequest
	case errs.IsNotFound(err):
		status = http.StatusNotFound
	case errs.IsConflict(err):
		status = http.StatusConflict
	}
	s.sendJSON(writer, map[string]string{"message": err.Error()}, status)
}
