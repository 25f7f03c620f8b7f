package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gameportal/portal-go/internal/model"
	"github.com/gameportal/portal-go/internal/portal"
)

// Login exchanges credentials for a session, persists it, and runs
// exactly one bulk refresh.
func (s *Syncer) Login(ctx context.Context, username, password string) error {
	session, err := s.gw.Login(ctx, portal.LoginRequest{Username: username, Password: password})
	if err != nil {
		return s.fail(err)
	}

	if err := s.creds.Save(session); err != nil {
		return s.fail(fmt.Errorf("failed to persist session: %w", err))
	}

	s.mu.Lock()
	s.session = session
	s.state = StateAuthenticated
	s.mu.Unlock()

	s.notifier.Success("Login successful!")
	s.BulkRefresh(ctx)
	return nil
}

// Signup creates an account. The caller logs in separately.
func (s *Syncer) Signup(ctx context.Context, username, email, password string) error {
	req := portal.SignupRequest{Username: username, Email: email, Password: password}
	if err := s.gw.Signup(ctx, req); err != nil {
		return s.fail(err)
	}
	s.notifier.Success("Account created successfully! Please login.")
	return nil
}

// Logout ends the session: persisted credential cleared, view state
// discarded, state machine back to anonymous.
func (s *Syncer) Logout() {
	s.forceLogout()
	s.notifier.Success("Logged out successfully")
}

// RecordMatch records a match, then re-fetches only the two queries
// the mutation can change: the player's game aggregates and stats.
func (s *Syncer) RecordMatch(ctx context.Context, match model.Match) error {
	if err := s.gw.RecordMatch(ctx, s.token(), match); err != nil {
		return s.fail(err)
	}

	s.notifier.Success("Match recorded successfully! Stats updated.")
	s.refreshPlayerGames(ctx)
	s.refreshStats(ctx)
	return nil
}

// CreateCharacter creates a character, then re-fetches characters.
func (s *Syncer) CreateCharacter(ctx context.Context, name string, level int) error {
	req := portal.CreateCharacterRequest{Name: name, Level: level}
	if err := s.gw.CreateCharacter(ctx, s.token(), req); err != nil {
		return s.fail(err)
	}

	s.notifier.Success("Character created successfully!")
	s.refreshCharacters(ctx)
	return nil
}

// UpdateCharacter updates a character's name and/or level, then
// re-fetches characters.
func (s *Syncer) UpdateCharacter(ctx context.Context, id int64, name string, level int) error {
	req := portal.UpdateCharacterRequest{Name: name, Level: level}
	if err := s.gw.UpdateCharacter(ctx, s.token(), id, req); err != nil {
		return s.fail(err)
	}

	s.notifier.Success("Character updated successfully!")
	s.refreshCharacters(ctx)
	return nil
}

// DeleteCharacter deletes a character after confirmation. Without
// confirmation no request is issued at all.
func (s *Syncer) DeleteCharacter(ctx context.Context, id int64) error {
	if s.confirm == nil || !s.confirm("Are you sure you want to delete this character?") {
		return model.ErrNotConfirmed
	}

	if err := s.gw.DeleteCharacter(ctx, s.token(), id); err != nil {
		return s.fail(err)
	}

	s.notifier.Success("Character deleted successfully!")
	s.refreshCharacters(ctx)
	return nil
}

// SendFriendRequest sends a request to friendID, remembers the
// outgoing request, and re-runs the current search so the result
// flags reflect it.
func (s *Syncer) SendFriendRequest(ctx context.Context, friendID int64) error {
	if err := s.gw.SendFriendRequest(ctx, s.token(), friendID); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.sentRequests[friendID] = struct{}{}
	term := s.view.SearchTerm
	s.mu.Unlock()

	s.notifier.Success("Friend request sent!")
	if err := s.Search(ctx, term); err != nil {
		s.logger.Warn("search refresh failed", slog.String("error", err.Error()))
	}
	return nil
}

// AcceptFriendRequest accepts a pending request, then re-fetches
// friends and friend requests.
func (s *Syncer) AcceptFriendRequest(ctx context.Context, friendID int64) error {
	if err := s.gw.AcceptFriendRequest(ctx, s.token(), friendID); err != nil {
		return s.fail(err)
	}

	s.notifier.Success("Friend request accepted!")
	s.refreshFriends(ctx)
	s.refreshFriendRequests(ctx)
	return nil
}

// RemoveFriend removes a friendship after confirmation, then
// re-fetches friends.
func (s *Syncer) RemoveFriend(ctx context.Context, friendID int64) error {
	if s.confirm == nil || !s.confirm("Are you sure you want to remove this friend?") {
		return model.ErrNotConfirmed
	}

	if err := s.gw.RemoveFriend(ctx, s.token(), friendID); err != nil {
		return s.fail(err)
	}

	s.notifier.Success("Friend removed")
	s.refreshFriends(ctx)
	return nil
}

// Search runs a player search. A blank term short-circuits to an
// empty result set without touching the backend. Results replace the
// previous set wholesale and are annotated with membership flags
// against current friend state, including requests sent this session.
func (s *Syncer) Search(ctx context.Context, term string) error {
	term = strings.TrimSpace(term)

	if term == "" {
		s.mu.Lock()
		s.view.SearchTerm = ""
		s.view.SearchResults = nil
		s.mu.Unlock()
		return nil
	}

	players, err := s.gw.SearchPlayers(ctx, s.token(), term)
	if err != nil {
		s.checkAuth(err)
		s.logger.Warn("search failed", slog.String("term", term), slog.String("error", err.Error()))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	friends := make(map[int64]struct{}, len(s.view.Friends))
	for _, f := range s.view.Friends {
		friends[f.PlayerID] = struct{}{}
	}
	pending := make(map[int64]struct{}, len(s.view.FriendRequests)+len(s.sentRequests))
	for _, r := range s.view.FriendRequests {
		pending[r.PlayerID] = struct{}{}
	}
	for id := range s.sentRequests {
		pending[id] = struct{}{}
	}

	for i := range players {
		_, players[i].IsFriend = friends[players[i].PlayerID]
		_, players[i].HasPendingRequest = pending[players[i].PlayerID]
	}

	s.view.SearchTerm = term
	s.view.SearchResults = players
	return nil
}

// Achievements fetches the player's earned achievements into the view.
func (s *Syncer) Achievements(ctx context.Context) ([]model.PlayerAchievement, error) {
	achievements, err := s.gw.PlayerAchievements(ctx, s.token())
	if err != nil {
		s.checkAuth(err)
		return nil, err
	}
	s.mu.Lock()
	s.view.Achievements = achievements
	s.mu.Unlock()
	return achievements, nil
}

// GameAchievements fetches one game's achievements with earned flags.
func (s *Syncer) GameAchievements(ctx context.Context, gameID int64) ([]model.GameAchievement, error) {
	achievements, err := s.gw.GameAchievements(ctx, s.token(), gameID)
	if err != nil {
		s.checkAuth(err)
		return nil, err
	}
	return achievements, nil
}

// Profile fetches the combined profile projection.
func (s *Syncer) Profile(ctx context.Context) (model.Profile, error) {
	profile, err := s.gw.Profile(ctx, s.token())
	if err != nil {
		s.checkAuth(err)
		return model.Profile{}, err
	}
	return profile, nil
}

// GameWinRate fetches the player's win rate for one game.
func (s *Syncer) GameWinRate(ctx context.Context, gameID int64) (float64, error) {
	rate, err := s.gw.GameWinRate(ctx, s.token(), gameID)
	if err != nil {
		s.checkAuth(err)
		return 0, err
	}
	return rate, nil
}
