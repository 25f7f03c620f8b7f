package portal

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gameportal/portal-go/internal/model"
)

// LoginRequest is the payload for Login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest is the payload for Signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the backend's login payload.
type loginResponse struct {
	Token  string       `json:"token"`
	Player model.Player `json:"player"`
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (model.Session, error) {
	var resp loginResponse
	if err := c.Post(ctx, "", "/auth/login", req, &resp); err != nil {
		return model.Session{}, err
	}
	return model.Session{Token: resp.Token, Player: resp.Player}, nil
}

// Signup creates a new account. It does not log in; the caller is
// expected to follow with Login.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.Post(ctx, "", "/auth/signup", req, nil)
}

// Games fetches the game catalog.
func (c *Client) Games(ctx context.Context, token string) ([]model.Game, error) {
	var games []model.Game
	if err := c.Get(ctx, token, "/games", &games); err != nil {
		return nil, err
	}
	return games, nil
}

// PlayerGames fetches the authenticated player's per-game aggregates.
func (c *Client) PlayerGames(ctx context.Context, token string) ([]model.PlayerGame, error) {
	var games []model.PlayerGame
	if err := c.Get(ctx, token, "/games/player", &games); err != nil {
		return nil, err
	}
	return games, nil
}

// PlayerStats fetches the authenticated player's aggregate stats.
func (c *Client) PlayerStats(ctx context.Context, token string) (model.PlayerStats, error) {
	var stats model.PlayerStats
	if err := c.Get(ctx, token, "/player/stats", &stats); err != nil {
		return model.PlayerStats{}, err
	}
	return stats, nil
}

// GameWinRate fetches the player's win rate for one game.
func (c *Client) GameWinRate(ctx context.Context, token string, gameID int64) (float64, error) {
	var resp struct {
		WinRate float64 `json:"win_rate"`
	}
	if err := c.Get(ctx, token, fmt.Sprintf("/games/%d/winrate", gameID), &resp); err != nil {
		return 0, err
	}
	return resp.WinRate, nil
}

// RecordMatch records a played match. The server updates the game
// aggregate and stats; the caller re-fetches them.
func (c *Client) RecordMatch(ctx context.Context, token string, match model.Match) error {
	return c.Post(ctx, token, "/games/match", match, nil)
}

// Characters fetches the player's characters.
func (c *Client) Characters(ctx context.Context, token string) ([]model.Character, error) {
	var chars []model.Character
	if err := c.Get(ctx, token, "/characters", &chars); err != nil {
		return nil, err
	}
	return chars, nil
}

// CreateCharacterRequest is the payload for CreateCharacter.
type CreateCharacterRequest struct {
	Name  string `json:"character_name"`
	Level int    `json:"level"`
}

// CreateCharacter creates a character for the player.
func (c *Client) CreateCharacter(ctx context.Context, token string, req CreateCharacterRequest) error {
	return c.Post(ctx, token, "/characters", req, nil)
}

// UpdateCharacterRequest is the payload for UpdateCharacter. Zero
// fields are left unchanged.
type UpdateCharacterRequest struct {
	Name  string `json:"character_name,omitempty"`
	Level int    `json:"level,omitempty"`
}

// UpdateCharacter updates a character's name and/or level.
func (c *Client) UpdateCharacter(ctx context.Context, token string, id int64, req UpdateCharacterRequest) error {
	return c.Put(ctx, token, fmt.Sprintf("/characters/%d", id), req, nil)
}

// DeleteCharacter deletes a character. Irreversible.
func (c *Client) DeleteCharacter(ctx context.Context, token string, id int64) error {
	return c.Delete(ctx, token, fmt.Sprintf("/characters/%d", id))
}

// Friends fetches the player's accepted friends.
func (c *Client) Friends(ctx context.Context, token string) ([]model.Friend, error) {
	var friends []model.Friend
	if err := c.Get(ctx, token, "/friends", &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

// FriendRequests fetches pending incoming friend requests.
func (c *Client) FriendRequests(ctx context.Context, token string) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	if err := c.Get(ctx, token, "/friends/requests", &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// SearchPlayers searches players by username or email fragment.
func (c *Client) SearchPlayers(ctx context.Context, token, term string) ([]model.SearchPlayer, error) {
	var players []model.SearchPlayer
	path := "/friends/search?q=" + url.QueryEscape(term)
	if err := c.Get(ctx, token, path, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// SendFriendRequest sends a friend request to another player.
func (c *Client) SendFriendRequest(ctx context.Context, token string, friendID int64) error {
	body := map[string]int64{"friend_id": friendID}
	return c.Post(ctx, token, "/friends/request", body, nil)
}

// AcceptFriendRequest accepts a pending request from friendID.
func (c *Client) AcceptFriendRequest(ctx context.Context, token string, friendID int64) error {
	return c.Put(ctx, token, fmt.Sprintf("/friends/accept/%d", friendID), nil, nil)
}

// RemoveFriend removes an accepted friendship.
func (c *Client) RemoveFriend(ctx context.Context, token string, friendID int64) error {
	return c.Delete(ctx, token, fmt.Sprintf("/friends/%d", friendID))
}

// Profile fetches the combined player profile.
func (c *Client) Profile(ctx context.Context, token string) (model.Profile, error) {
	var p model.Profile
	if err := c.Get(ctx, token, "/player/profile", &p); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// PlayerAchievements fetches achievements the player has earned.
func (c *Client) PlayerAchievements(ctx context.Context, token string) ([]model.PlayerAchievement, error) {
	var achievements []model.PlayerAchievement
	if err := c.Get(ctx, token, "/achievements/player", &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}

// GameAchievements fetches a game's achievements with earned flags.
func (c *Client) GameAchievements(ctx context.Context, token string, gameID int64) ([]model.GameAchievement, error) {
	var achievements []model.GameAchievement
	if err := c.Get(ctx, token, fmt.Sprintf("/achievements/game/%d", gameID), &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}

// Health checks backend liveness. No auth required.
func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var h model.Health
	if err := c.Get(ctx, "", "/health", &h); err != nil {
		return model.Health{}, err
	}
	return h, nil
}
