package portaltest

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/gameportal/portal-go/internal/model"
)

func withPlayer(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, playerKey, id)
}

func playerFrom(r *http.Request) int64 {
	id, _ := r.Context().Value(playerKey).(int64)
	return id
}

func decode(r *http.Request, dst any) bool {
	return json.NewDecoder(r.Body).Decode(dst) == nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(r, &req) || req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		if p.username == req.Username || p.email == req.Email {
			writeError(w, http.StatusConflict, "Username or email already exists")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	id := s.nextID
	s.nextID++
	s.players[id] = &player{id: id, username: req.Username, email: req.Email, passwordHash: hash}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Account created successfully",
		"player_id": id,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(r, &req) || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var found *player
	for _, p := range s.players {
		if p.username == req.Username {
			found = p
			break
		}
	}
	if found == nil || bcrypt.CompareHashAndPassword(found.passwordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token := newToken()
	s.tokens[token] = found.id
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"player": model.Player{
			ID:       found.id,
			Username: found.username,
			Email:    found.email,
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.Health{Status: "healthy", Database: "connected"})
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	games := make([]model.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) aggregates(playerID int64) []model.PlayerGame {
	games := make([]model.PlayerGame, 0, len(s.pgames[playerID]))
	for gameID, pg := range s.pgames[playerID] {
		g := s.games[gameID]
		games = append(games, model.PlayerGame{
			GameID:        gameID,
			Title:         g.Title,
			Genre:         g.Genre,
			Rank:          rankFor(pg.wins),
			PlaytimeHours: pg.playtime,
			Wins:          pg.wins,
			Losses:        pg.losses,
			HighScore:     pg.high,
		})
	}
	sort.Slice(games, func(i, j int) bool { return games[i].GameID < games[j].GameID })
	return games
}

func rankFor(wins int) string {
	switch {
	case wins >= 50:
		return "Diamond"
	case wins >= 20:
		return "Gold"
	case wins >= 5:
		return "Silver"
	default:
		return "Bronze"
	}
}

func (s *Server) handlePlayerGames(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.aggregates(playerFrom(r)))
}

func (s *Server) handleWinRate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pg, ok := s.pgames[playerFrom(r)][pathID(r)]
	rate := 0.0
	if ok && pg.wins+pg.losses > 0 {
		rate = round2(float64(pg.wins) / float64(pg.wins+pg.losses) * 100)
	}
	writeJSON(w, http.StatusOK, map[string]float64{"win_rate": rate})
}

func (s *Server) handleRecordMatch(w http.ResponseWriter, r *http.Request) {
	var match model.Match
	if !decode(r, &match) || match.GameID == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[match.GameID]; !ok {
		writeError(w, http.StatusBadRequest, "Unknown game")
		return
	}

	playerID := playerFrom(r)
	if s.pgames[playerID] == nil {
		s.pgames[playerID] = make(map[int64]*playerGame)
	}
	pg := s.pgames[playerID][match.GameID]
	if pg == nil {
		pg = &playerGame{gameID: match.GameID}
		s.pgames[playerID][match.GameID] = pg
	}

	pg.playtime += match.Playtime
	if match.IsWin {
		pg.wins++
	} else {
		pg.losses++
	}
	if match.Score > pg.high {
		pg.high = match.Score
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Match recorded successfully"})
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats model.PlayerStats
	for _, pg := range s.pgames[playerFrom(r)] {
		stats.TotalPlaytime += pg.playtime
		stats.TotalWins += pg.wins
		stats.TotalLosses += pg.losses
		stats.TotalMatches += pg.wins + pg.losses
	}
	if stats.TotalMatches > 0 {
		stats.WinRate = round2(float64(stats.TotalWins) / float64(stats.TotalMatches) * 100)
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playerID := playerFrom(r)
	p := s.players[playerID]
	writeJSON(w, http.StatusOK, model.Profile{
		Player:     model.Player{ID: p.id, Username: p.username, Email: p.email},
		Characters: append([]model.Character(nil), s.chars[playerID]...),
		Games:      s.aggregates(playerID),
		Friends:    s.friendList(playerID),
	})
}

func (s *Server) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chars := s.chars[playerFrom(r)]
	if chars == nil {
		chars = []model.Character{}
	}
	writeJSON(w, http.StatusOK, chars)
}

func (s *Server) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"character_name"`
		Level int    `json:"level"`
	}
	if !decode(r, &req) || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Character name is required")
		return
	}
	if req.Level == 0 {
		req.Level = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	playerID := playerFrom(r)
	for _, c := range s.chars[playerID] {
		if c.Name == req.Name {
			writeError(w, http.StatusConflict, "Character name already exists for this player")
			return
		}
	}

	id := s.nextID
	s.nextID++
	char := model.Character{ID: id, Name: req.Name, Level: req.Level}
	s.chars[playerID] = append(s.chars[playerID], char)
	writeJSON(w, http.StatusCreated, char)
}

func (s *Server) handleUpdateCharacter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"character_name"`
		Level int    `json:"level"`
	}
	if !decode(r, &req) {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	chars := s.chars[playerFrom(r)]
	for i := range chars {
		if chars[i].ID == pathID(r) {
			if req.Name != "" {
				chars[i].Name = req.Name
			}
			if req.Level != 0 {
				chars[i].Level = req.Level
			}
			writeJSON(w, http.StatusOK, map[string]string{"message": "Character updated successfully"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Character not found")
}

func (s *Server) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	playerID := playerFrom(r)
	chars := s.chars[playerID]
	for i := range chars {
		if chars[i].ID == pathID(r) {
			s.chars[playerID] = append(chars[:i], chars[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Character deleted successfully"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Character not found")
}

func (s *Server) friendList(playerID int64) []model.Friend {
	friends := make([]model.Friend, 0, len(s.friends[playerID]))
	for id := range s.friends[playerID] {
		p := s.players[id]
		friends = append(friends, model.Friend{PlayerID: p.id, Username: p.username, Email: p.email})
	}
	sort.Slice(friends, func(i, j int) bool { return friends[i].PlayerID < friends[j].PlayerID })
	return friends
}

func (s *Server) handleFriends(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.friendList(playerFrom(r)))
}

func (s *Server) handleFriendRequests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playerID := playerFrom(r)
	reqs := []model.FriendRequest{}
	for from, tos := range s.requests {
		if _, ok := tos[playerID]; ok {
			p := s.players[from]
			reqs = append(reqs, model.FriendRequest{PlayerID: p.id, Username: p.username})
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].PlayerID < reqs[j].PlayerID })
	writeJSON(w, http.StatusOK, reqs)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	term := strings.ToLower(r.URL.Query().Get("q"))

	s.mu.Lock()
	defer s.mu.Unlock()
	playerID := playerFrom(r)
	results := []model.SearchPlayer{}
	for _, p := range s.players {
		if p.id == playerID {
			continue
		}
		if strings.Contains(strings.ToLower(p.username), term) ||
			strings.Contains(strings.ToLower(p.email), term) {
			results = append(results, model.SearchPlayer{
				PlayerID: p.id,
				Username: p.username,
				Email:    p.email,
			})
		}
		if len(results) == 20 {
			break
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].PlayerID < results[j].PlayerID })
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FriendID int64 `json:"friend_id"`
	}
	if !decode(r, &req) || req.FriendID == 0 {
		writeError(w, http.StatusBadRequest, "Friend ID is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	playerID := playerFrom(r)
	if req.FriendID == playerID {
		writeError(w, http.StatusBadRequest, "Cannot send friend request to yourself")
		return
	}
	if _, ok := s.players[req.FriendID]; !ok {
		writeError(w, http.StatusNotFound, "Player not found")
		return
	}
	if _, ok := s.requests[playerID][req.FriendID]; ok {
		writeError(w, http.StatusConflict, "Friend request already exists")
		return
	}
	if _, ok := s.friends[playerID][req.FriendID]; ok {
		writeError(w, http.StatusConflict, "Friend request already exists")
		return
	}

	if s.requests[playerID] == nil {
		s.requests[playerID] = make(map[int64]struct{})
	}
	s.requests[playerID][req.FriendID] = struct{}{}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Friend request sent successfully"})
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playerID := playerFrom(r)
	from := pathID(r)
	if _, ok := s.requests[from][playerID]; !ok {
		writeError(w, http.StatusNotFound, "Friend request not found")
		return
	}

	delete(s.requests[from], playerID)
	s.link(playerID, from)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend request accepted"})
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playerID := playerFrom(r)
	friendID := pathID(r)
	if _, ok := s.friends[playerID][friendID]; !ok {
		writeError(w, http.StatusNotFound, "Friendship not found")
		return
	}

	delete(s.friends[playerID], friendID)
	delete(s.friends[friendID], playerID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend removed successfully"})
}

func (s *Server) handlePlayerAchievements(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	earned := s.earned[playerFrom(r)]
	if earned == nil {
		earned = []model.PlayerAchievement{}
	}
	writeJSON(w, http.StatusOK, earned)
}

func (s *Server) handleGameAchievements(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Achievement definitions are derived from what the player has
	// earned; enough for client-side tests.
	achievements := []model.GameAchievement{}
	for _, a := range s.earned[playerFrom(r)] {
		achievements = append(achievements, model.GameAchievement{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Points:      a.Points,
			Earned:      true,
		})
	}
	writeJSON(w, http.StatusOK, achievements)
}
