package model

// Player is a portal account as returned by the backend.
type Player struct {
	ID       int64  `json:"player_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Session pairs a bearer token with the player it authenticates.
// Both fields are always set together; a session with either missing
// is not a session.
type Session struct {
	Token  string `json:"token"`
	Player Player `json:"player"`
}

// Valid reports whether the session carries both a token and a player.
func (s Session) Valid() bool {
	return s.Token != "" && s.Player.ID != 0
}

// Game is a catalog entry.
type Game struct {
	ID      int64  `json:"game_id"`
	Title   string `json:"title"`
	Genre   string `json:"genre"`
	Release string `json:"release_date,omitempty"`
}

// PlayerGame is the per-player, per-game aggregate. It is created
// server-side on the first recorded match for a game and grows
// additively with each subsequent match.
type PlayerGame struct {
	GameID        int64   `json:"game_id"`
	Title         string  `json:"title"`
	Genre         string  `json:"genre"`
	Rank          string  `json:"player_rank"`
	PlaytimeHours float64 `json:"playtime_hours"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	HighScore     int64   `json:"high_score"`
}

// PlayerStats is the read-only cross-game aggregate. The client never
// mutates it; recording a match triggers recomputation on the server.
type PlayerStats struct {
	TotalPlaytime float64 `json:"total_playtime"`
	TotalWins     int     `json:"total_wins"`
	TotalLosses   int     `json:"total_losses"`
	TotalMatches  int     `json:"total_matches"`
	WinRate       float64 `json:"win_rate"`
}

// Character is a player-owned character.
type Character struct {
	ID    int64  `json:"character_id"`
	Name  string `json:"character_name"`
	Level int    `json:"level"`
}

// Friend is an accepted, symmetric friendship as seen from the
// current player.
type Friend struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// FriendRequest is an incoming, pending request from another player.
type FriendRequest struct {
	PlayerID int64  `json:"player_id"`
	Username string `json:"username"`
}

// SearchPlayer is a transient search hit, annotated client-side with
// membership flags computed against current friend state. It is never
// persisted.
type SearchPlayer struct {
	PlayerID          int64  `json:"player_id"`
	Username          string `json:"username"`
	Email             string `json:"email,omitempty"`
	IsFriend          bool   `json:"is_friend"`
	HasPendingRequest bool   `json:"has_pending_request"`
}

// Match is a single played match to be recorded against a game.
type Match struct {
	GameID   int64   `json:"game_id"`
	Playtime float64 `json:"playtime"`
	IsWin    bool    `json:"is_win"`
	Score    int64   `json:"score"`
}

// PlayerAchievement is an achievement the player has earned.
type PlayerAchievement struct {
	ID          int64  `json:"achievement_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points_value"`
	GameTitle   string `json:"game_title"`
	DateEarned  string `json:"date_earned"`
}

// GameAchievement is an achievement defined for a game, flagged with
// whether the current player has earned it.
type GameAchievement struct {
	ID          int64  `json:"achievement_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points_value"`
	Earned      bool   `json:"earned"`
}

// Profile is the combined profile projection served by the backend.
type Profile struct {
	Player     Player       `json:"player_info"`
	Characters []Character  `json:"characters"`
	Games      []PlayerGame `json:"games"`
	Friends    []Friend     `json:"friends"`
}

// Health is the backend health check response.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}
