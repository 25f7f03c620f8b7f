// Package syncer keeps the client's view state consistent with the
// backend: a bulk refresh when a session is established, a targeted
// re-fetch of only the affected queries after each mutation, and a
// session state machine that drops to anonymous on any credential
// rejection.
package syncer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gameportal/portal-go/internal/credstore"
	"github.com/gameportal/portal-go/internal/model"
	"github.com/gameportal/portal-go/internal/portal"
	"github.com/gameportal/portal-go/internal/viewstate"
)

// State is the session state.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Gateway is the backend surface the syncer drives. *portal.Client
// implements it; tests substitute a recording mock.
type Gateway interface {
	Login(ctx context.Context, req portal.LoginRequest) (model.Session, error)
	Signup(ctx context.Context, req portal.SignupRequest) error

	Games(ctx context.Context, token string) ([]model.Game, error)
	PlayerGames(ctx context.Context, token string) ([]model.PlayerGame, error)
	PlayerStats(ctx context.Context, token string) (model.PlayerStats, error)
	GameWinRate(ctx context.Context, token string, gameID int64) (float64, error)
	RecordMatch(ctx context.Context, token string, match model.Match) error

	Characters(ctx context.Context, token string) ([]model.Character, error)
	CreateCharacter(ctx context.Context, token string, req portal.CreateCharacterRequest) error
	UpdateCharacter(ctx context.Context, token string, id int64, req portal.UpdateCharacterRequest) error
	DeleteCharacter(ctx context.Context, token string, id int64) error

	Friends(ctx context.Context, token string) ([]model.Friend, error)
	FriendRequests(ctx context.Context, token string) ([]model.FriendRequest, error)
	SearchPlayers(ctx context.Context, token, term string) ([]model.SearchPlayer, error)
	SendFriendRequest(ctx context.Context, token string, friendID int64) error
	AcceptFriendRequest(ctx context.Context, token string, friendID int64) error
	RemoveFriend(ctx context.Context, token string, friendID int64) error

	Profile(ctx context.Context, token string) (model.Profile, error)
	PlayerAchievements(ctx context.Context, token string) ([]model.PlayerAchievement, error)
	GameAchievements(ctx context.Context, token string, gameID int64) ([]model.GameAchievement, error)
}

// Config holds configuration for the syncer.
type Config struct {
	Logger   *slog.Logger
	Notifier Notifier
	Confirm  Confirm
}

// Syncer owns the session state machine and the view state, and
// orchestrates all reads and mutations against the gateway.
type Syncer struct {
	gw       Gateway
	creds    credstore.Store
	logger   *slog.Logger
	notifier Notifier
	confirm  Confirm

	mu      sync.Mutex
	state   State
	session model.Session
	view    viewstate.ViewState

	// Friend ids this session has sent requests to. The backend only
	// reports incoming requests, so without this a player could
	// re-send a request it already sent.
	sentRequests map[int64]struct{}
}

// New creates a Syncer in the anonymous state.
func New(gw Gateway, creds credstore.Store, cfg Config) *Syncer {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NopNotifier{}
	}
	return &Syncer{
		gw:           gw,
		creds:        creds,
		logger:       cfg.Logger,
		notifier:     cfg.Notifier,
		confirm:      cfg.Confirm,
		state:        StateAnonymous,
		sentRequests: make(map[int64]struct{}),
	}
}

// Restore adopts a previously persisted session, if one loads. It
// reports whether the syncer is now authenticated. It does not fetch
// anything; callers wanting a populated view follow with BulkRefresh.
func (s *Syncer) Restore() bool {
	session, ok := s.creds.Load()
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.state = StateAuthenticated
	return true
}

// State returns the current session state.
func (s *Syncer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session returns the current session. Zero when anonymous.
func (s *Syncer) Session() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// View returns a snapshot of the view state.
func (s *Syncer) View() viewstate.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetSection selects the active view section.
func (s *Syncer) SetSection(section viewstate.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Active = section
}

// token returns the current bearer token, empty when anonymous.
func (s *Syncer) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

// fail surfaces err as the action's one notification. A credential
// rejection additionally forces the state machine to anonymous and
// wipes the persisted session, regardless of which action hit it.
func (s *Syncer) fail(err error) error {
	if portal.IsUnauthorized(err) {
		s.forceLogout()
	}
	s.notifier.Error(err.Error())
	return err
}

// checkAuth handles credential rejections on background reads, which
// log instead of notifying.
func (s *Syncer) checkAuth(err error) {
	if portal.IsUnauthorized(err) {
		s.forceLogout()
	}
}

// forceLogout drops to anonymous: persisted session cleared, view
// state discarded. Idempotent.
func (s *Syncer) forceLogout() {
	if err := s.creds.Clear(); err != nil {
		s.logger.Warn("failed to clear persisted session", slog.String("error", err.Error()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateAnonymous
	s.session = model.Session{}
	s.view.Reset()
	s.sentRequests = make(map[int64]struct{})
}
