package syncer

import (
	"context"
	"log/slog"
	"sync"
)

// BulkRefresh populates the whole view after a session is
// established: six independent reads dispatched concurrently and
// joined settle-all. Each read owns one view slice, so completion
// order does not matter. A failed read logs and leaves its slice
// unchanged; the other five proceed. There is no aggregate result.
func (s *Syncer) BulkRefresh(ctx context.Context) {
	var wg sync.WaitGroup
	for _, fetch := range []func(context.Context){
		s.refreshGames,
		s.refreshPlayerGames,
		s.refreshStats,
		s.refreshCharacters,
		s.refreshFriends,
		s.refreshFriendRequests,
	} {
		fetch := fetch
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetch(ctx)
		}()
	}
	wg.Wait()
}

// RefreshFriendState re-fetches friends and pending requests, the
// two queries the search result flags are computed from.
func (s *Syncer) RefreshFriendState(ctx context.Context) {
	s.refreshFriends(ctx)
	s.refreshFriendRequests(ctx)
}

func (s *Syncer) refreshGames(ctx context.Context) {
	games, err := s.gw.Games(ctx, s.token())
	if err != nil {
		s.logRefreshErr("games", err)
		return
	}
	s.mu.Lock()
	s.view.Games = games
	s.mu.Unlock()
}

func (s *Syncer) refreshPlayerGames(ctx context.Context) {
	games, err := s.gw.PlayerGames(ctx, s.token())
	if err != nil {
		s.logRefreshErr("player games", err)
		return
	}
	s.mu.Lock()
	s.view.PlayerGames = games
	s.mu.Unlock()
}

func (s *Syncer) refreshStats(ctx context.Context) {
	stats, err := s.gw.PlayerStats(ctx, s.token())
	if err != nil {
		s.logRefreshErr("player stats", err)
		return
	}
	s.mu.Lock()
	s.view.Stats = &stats
	s.mu.Unlock()
}

func (s *Syncer) refreshCharacters(ctx context.Context) {
	chars, err := s.gw.Characters(ctx, s.token())
	if err != nil {
		s.logRefreshErr("characters", err)
		return
	}
	s.mu.Lock()
	s.view.Characters = chars
	s.mu.Unlock()
}

func (s *Syncer) refreshFriends(ctx context.Context) {
	friends, err := s.gw.Friends(ctx, s.token())
	if err != nil {
		s.logRefreshErr("friends", err)
		return
	}
	s.mu.Lock()
	s.view.Friends = friends
	s.mu.Unlock()
}

func (s *Syncer) refreshFriendRequests(ctx context.Context) {
	reqs, err := s.gw.FriendRequests(ctx, s.token())
	if err != nil {
		s.logRefreshErr("friend requests", err)
		return
	}
	s.mu.Lock()
	s.view.FriendRequests = reqs
	s.mu.Unlock()
}

// logRefreshErr records a background read failure. These are not
// surfaced as notifications; a partially degraded backend should not
// spam the user once per slice.
func (s *Syncer) logRefreshErr(query string, err error) {
	s.checkAuth(err)
	s.logger.Warn("refresh failed",
		slog.String("query", query),
		slog.String("error", err.Error()),
	)
}
