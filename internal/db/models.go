package db

// Game holds the full engine state for one running game. The State blob is
// produced and mutated only by the game engine; the store persists it
// verbatim.
type Game struct {
	Id       string         `json:"id"`
	Name     string         `json:"name"`
	State    map[string]any `json:"state"`
	Finished bool           `json:"finished"`
}

// GameRef ties a user to a game and the seat they occupy in it.
type GameRef struct {
	Game     string `json:"game"`
	PlayerId int    `json:"player_id"`
}

// MetaGame is the lightweight lobby view of a Game. It is a denormalized
// copy of a Game subset, synchronized manually by the coordinator, never
// derived automatically.
type MetaGame struct {
	Id         string   `json:"id"`
	GameId     string   `json:"game_id"`
	GameName   string   `json:"game_name"`
	Turn       int      `json:"turn"`
	NumHints   int      `json:"num_hints"`
	NumErrors  int      `json:"num_errors"`
	Owner      string   `json:"owner"`
	NumPlayers int      `json:"num_players"`
	Players    []string `json:"players"`
}

type User struct {
	Id    string    `json:"id"`
	Name  string    `json:"name"`
	Games []GameRef `json:"games"`
	Owns  []GameRef `json:"owns"`
}
