package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"hanabi/internal/server"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		slog.Error("Failed to load .env file")
		return
	}
	// TODO: Accept port via args
	port := os.Getenv("HANABI_PORT")
	if len(port) == 0 {
		slog.Error("Env HANABI_PORT not set")
		return
	}
	gs, err := server.NewGameServer(port)
	if err != nil {
		return
	}
	gs.Run()
}
