package syncer

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/gameportal/portal-go/internal/credstore"
	"github.com/gameportal/portal-go/internal/model"
	"github.com/gameportal/portal-go/internal/portal"
	"github.com/gameportal/portal-go/internal/testutil"
)

// mockGateway records every call and serves canned data. Errors can
// be injected per method name.
type mockGateway struct {
	mu    sync.Mutex
	calls []string
	errs  map[string]error

	session        model.Session
	games          []model.Game
	playerGames    []model.PlayerGame
	stats          model.PlayerStats
	characters     []model.Character
	friends        []model.Friend
	friendRequests []model.FriendRequest
	searchResults  []model.SearchPlayer
	searchTerms    []string
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		errs: make(map[string]error),
		session: model.Session{
			Token:  "t1",
			Player: model.Player{ID: 1, Username: "alice"},
		},
	}
}

func (m *mockGateway) record(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
	return m.errs[name]
}

func (m *mockGateway) callSet() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := append([]string(nil), m.calls...)
	sort.Strings(calls)
	return calls
}

func (m *mockGateway) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *mockGateway) lastSearchTerm() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.searchTerms) == 0 {
		return ""
	}
	return m.searchTerms[len(m.searchTerms)-1]
}

func (m *mockGateway) Login(ctx context.Context, req portal.LoginRequest) (model.Session, error) {
	if err := m.record("Login"); err != nil {
		return model.Session{}, err
	}
	return m.session, nil
}

func (m *mockGateway) Signup(ctx context.Context, req portal.SignupRequest) error {
	return m.record("Signup")
}

func (m *mockGateway) Games(ctx context.Context, token string) ([]model.Game, error) {
	if err := m.record("Games"); err != nil {
		return nil, err
	}
	return m.games, nil
}

func (m *mockGateway) PlayerGames(ctx context.Context, token string) ([]model.PlayerGame, error) {
	if err := m.record("PlayerGames"); err != nil {
		return nil, err
	}
	return m.playerGames, nil
}

func (m *mockGateway) PlayerStats(ctx context.Context, token string) (model.PlayerStats, error) {
	if err := m.record("PlayerStats"); err != nil {
		return model.PlayerStats{}, err
	}
	return m.stats, nil
}

func (m *mockGateway) GameWinRate(ctx context.Context, token string, gameID int64) (float64, error) {
	if err := m.record("GameWinRate"); err != nil {
		return 0, err
	}
	return 50, nil
}

func (m *mockGateway) RecordMatch(ctx context.Context, token string, match model.Match) error {
	return m.record("RecordMatch")
}

func (m *mockGateway) Characters(ctx context.Context, token string) ([]model.Character, error) {
	if err := m.record("Characters"); err != nil {
		return nil, err
	}
	return m.characters, nil
}

func (m *mockGateway) CreateCharacter(ctx context.Context, token string, req portal.CreateCharacterRequest) error {
	return m.record("CreateCharacter")
}

func (m *mockGateway) UpdateCharacter(ctx context.Context, token string, id int64, req portal.UpdateCharacterRequest) error {
	return m.record("UpdateCharacter")
}

func (m *mockGateway) DeleteCharacter(ctx context.Context, token string, id int64) error {
	return m.record("DeleteCharacter")
}

func (m *mockGateway) Friends(ctx context.Context, token string) ([]model.Friend, error) {
	if err := m.record("Friends"); err != nil {
		return nil, err
	}
	return m.friends, nil
}

func (m *mockGateway) FriendRequests(ctx context.Context, token string) ([]model.FriendRequest, error) {
	if err := m.record("FriendRequests"); err != nil {
		return nil, err
	}
	return m.friendRequests, nil
}

func (m *mockGateway) SearchPlayers(ctx context.Context, token, term string) ([]model.SearchPlayer, error) {
	if err := m.record("SearchPlayers"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.searchTerms = append(m.searchTerms, term)
	m.mu.Unlock()
	return append([]model.SearchPlayer(nil), m.searchResults...), nil
}

func (m *mockGateway) SendFriendRequest(ctx context.Context, token string, friendID int64) error {
	return m.record("SendFriendRequest")
}

func (m *mockGateway) AcceptFriendRequest(ctx context.Context, token string, friendID int64) error {
	return m.record("AcceptFriendRequest")
}

func (m *mockGateway) RemoveFriend(ctx context.Context, token string, friendID int64) error {
	return m.record("RemoveFriend")
}

func (m *mockGateway) Profile(ctx context.Context, token string) (model.Profile, error) {
	if err := m.record("Profile"); err != nil {
		return model.Profile{}, err
	}
	return model.Profile{Player: m.session.Player}, nil
}

func (m *mockGateway) PlayerAchievements(ctx context.Context, token string) ([]model.PlayerAchievement, error) {
	if err := m.record("PlayerAchievements"); err != nil {
		return nil, err
	}
	return nil, nil
}

func (m *mockGateway) GameAchievements(ctx context.Context, token string, gameID int64) ([]model.GameAchievement, error) {
	if err := m.record("GameAchievements"); err != nil {
		return nil, err
	}
	return nil, nil
}

// recordNotifier counts notifications per action.
type recordNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordNotifier) total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes) + len(n.errors)
}

func unauthorizedErr() error {
	return &portal.Error{Kind: portal.KindUnauthorized, Status: http.StatusUnauthorized, Message: "session expired or invalid"}
}

func serverErr() error {
	return &portal.Error{Kind: portal.KindServer, Status: http.StatusInternalServerError, Message: "server error, try again later"}
}

var bulkQueries = []string{"Characters", "FriendRequests", "Friends", "Games", "PlayerGames", "PlayerStats"}

type SyncerSuite struct {
	suite.Suite
	gw       *mockGateway
	creds    *credstore.MemStore
	notifier *recordNotifier
	confirm  bool
	syncer   *Syncer
	ctx      context.Context
}

func TestSyncerSuite(t *testing.T) {
	suite.Run(t, new(SyncerSuite))
}

func (s *SyncerSuite) SetupTest() {
	s.gw = newMockGateway()
	s.creds = credstore.NewMemStore()
	s.notifier = &recordNotifier{}
	s.confirm = true
	s.ctx = context.Background()
	s.syncer = New(s.gw, s.creds, Config{
		Logger:   testutil.NopLogger(),
		Notifier: s.notifier,
		Confirm:  func(string) bool { return s.confirm },
	})
}

// login authenticates and clears the recorded calls so each test can
// assert its own exact call set.
func (s *SyncerSuite) login() {
	s.Require().NoError(s.syncer.Login(s.ctx, "alice", "pw"))
	s.gw.reset()
}

// Login / state machine

func (s *SyncerSuite) TestLoginTransitionsToAuthenticated() {
	s.Require().NoError(s.syncer.Login(s.ctx, "alice", "pw"))
	s.Equal(StateAuthenticated, s.syncer.State())
}

func (s *SyncerSuite) TestLoginPersistsSession() {
	s.Require().NoError(s.syncer.Login(s.ctx, "alice", "pw"))

	saved, ok := s.creds.Load()
	s.Require().True(ok)
	s.Equal("t1", saved.Token)
	s.Equal("alice", saved.Player.Username)
}

func (s *SyncerSuite) TestLoginTriggersExactlyOneBulkRefresh() {
	s.Require().NoError(s.syncer.Login(s.ctx, "alice", "pw"))

	want := append([]string{"Login"}, bulkQueries...)
	sort.Strings(want)
	s.Equal(want, s.gw.callSet())
}

func (s *SyncerSuite) TestLoginFailureStaysAnonymous() {
	s.gw.errs["Login"] = unauthorizedErr()

	err := s.syncer.Login(s.ctx, "alice", "bad")
	s.Error(err)
	s.Equal(StateAnonymous, s.syncer.State())

	_, ok := s.creds.Load()
	s.False(ok)
}

func (s *SyncerSuite) TestRestoreAdoptsPersistedSession() {
	s.Require().NoError(s.creds.Save(s.gw.session))

	s.True(s.syncer.Restore())
	s.Equal(StateAuthenticated, s.syncer.State())
	s.Equal("t1", s.syncer.Session().Token)
	// Restore alone fetches nothing.
	s.Empty(s.gw.callSet())
}

func (s *SyncerSuite) TestRestoreWithoutPersistedSession() {
	s.False(s.syncer.Restore())
	s.Equal(StateAnonymous, s.syncer.State())
}

func (s *SyncerSuite) TestLogoutClearsEverything() {
	s.login()
	s.syncer.Logout()

	s.Equal(StateAnonymous, s.syncer.State())
	s.Empty(s.syncer.Session().Token)
	s.Nil(s.syncer.View().Games)

	_, ok := s.creds.Load()
	s.False(ok)
}

// Bulk refresh

func (s *SyncerSuite) TestBulkRefreshPopulatesView() {
	s.gw.games = []model.Game{{ID: 5, Title: "Starfall"}}
	s.gw.characters = []model.Character{{ID: 7, Name: "Zara", Level: 3}}
	s.gw.stats = model.PlayerStats{TotalWins: 2}
	s.login()

	s.syncer.BulkRefresh(s.ctx)

	view := s.syncer.View()
	s.Len(view.Games, 1)
	s.Len(view.Characters, 1)
	s.Require().NotNil(view.Stats)
	s.Equal(2, view.Stats.TotalWins)
}

func (s *SyncerSuite) TestBulkRefreshFailureIsIsolated() {
	s.gw.games = []model.Game{{ID: 5, Title: "Starfall"}}
	s.gw.characters = []model.Character{{ID: 7, Name: "Zara", Level: 3}}
	s.gw.errs["Games"] = serverErr()
	s.login()

	s.syncer.BulkRefresh(s.ctx)

	view := s.syncer.View()
	s.Nil(view.Games) // failed slice untouched
	s.Len(view.Characters, 1)
	s.NotNil(view.Stats)
}

func (s *SyncerSuite) TestBulkRefreshFailuresAreNotSurfaced() {
	s.gw.errs["Games"] = serverErr()
	s.gw.errs["Friends"] = serverErr()
	s.login()
	before := s.notifier.total()

	s.syncer.BulkRefresh(s.ctx)

	s.Equal(before, s.notifier.total())
}

// Targeted refresh policy

func (s *SyncerSuite) TestRecordMatchRefreshesGamesAndStatsOnly() {
	s.login()

	err := s.syncer.RecordMatch(s.ctx, model.Match{GameID: 5, Playtime: 2.5, IsWin: true, Score: 100})
	s.Require().NoError(err)

	s.Equal([]string{"PlayerGames", "PlayerStats", "RecordMatch"}, s.gw.callSet())
}

func (s *SyncerSuite) TestCreateCharacterRefreshesCharactersOnly() {
	s.login()

	s.Require().NoError(s.syncer.CreateCharacter(s.ctx, "Zara", 1))
	s.Equal([]string{"Characters", "CreateCharacter"}, s.gw.callSet())
}

func (s *SyncerSuite) TestUpdateCharacterRefreshesCharactersOnly() {
	s.login()

	s.Require().NoError(s.syncer.UpdateCharacter(s.ctx, 7, "Zara", 4))
	s.Equal([]string{"Characters", "UpdateCharacter"}, s.gw.callSet())
}

func (s *SyncerSuite) TestDeleteCharacterConfirmedRefreshesCharacters() {
	s.login()

	s.Require().NoError(s.syncer.DeleteCharacter(s.ctx, 7))
	s.Equal([]string{"Characters", "DeleteCharacter"}, s.gw.callSet())
}

func (s *SyncerSuite) TestDeleteCharacterUnconfirmedIssuesNoCall() {
	s.login()
	s.confirm = false

	err := s.syncer.DeleteCharacter(s.ctx, 7)
	s.ErrorIs(err, model.ErrNotConfirmed)
	s.Empty(s.gw.callSet())
}

func (s *SyncerSuite) TestAcceptRefreshesFriendsAndRequestsOnly() {
	s.login()

	s.Require().NoError(s.syncer.AcceptFriendRequest(s.ctx, 2))
	s.Equal([]string{"AcceptFriendRequest", "FriendRequests", "Friends"}, s.gw.callSet())
}

func (s *SyncerSuite) TestRemoveFriendRefreshesFriendsOnly() {
	s.login()

	s.Require().NoError(s.syncer.RemoveFriend(s.ctx, 2))
	s.Equal([]string{"Friends", "RemoveFriend"}, s.gw.callSet())
}

func (s *SyncerSuite) TestRemoveFriendUnconfirmedIssuesNoCall() {
	s.login()
	s.confirm = false

	err := s.syncer.RemoveFriend(s.ctx, 2)
	s.ErrorIs(err, model.ErrNotConfirmed)
	s.Empty(s.gw.callSet())
}

func (s *SyncerSuite) TestSendFriendRequestRerunsCurrentSearch() {
	s.gw.searchResults = []model.SearchPlayer{{PlayerID: 2, Username: "bob"}}
	s.login()
	s.Require().NoError(s.syncer.Search(s.ctx, "bob"))
	s.gw.reset()

	s.Require().NoError(s.syncer.SendFriendRequest(s.ctx, 2))
	s.Equal([]string{"SearchPlayers", "SendFriendRequest"}, s.gw.callSet())
	s.Equal("bob", s.gw.lastSearchTerm())
}

func (s *SyncerSuite) TestSendFriendRequestWithoutSearchTermSkipsSearch() {
	s.login()

	s.Require().NoError(s.syncer.SendFriendRequest(s.ctx, 2))
	s.Equal([]string{"SendFriendRequest"}, s.gw.callSet())
}

// Search

func (s *SyncerSuite) TestSearchBlankTermNeverCallsBackend() {
	s.login()

	s.Require().NoError(s.syncer.Search(s.ctx, "   "))
	s.Empty(s.gw.callSet())
	s.Empty(s.syncer.View().SearchResults)
	s.Empty(s.syncer.View().SearchTerm)
}

func (s *SyncerSuite) TestSearchReplacesResultsWholesale() {
	s.gw.searchResults = []model.SearchPlayer{{PlayerID: 2, Username: "bob"}}
	s.login()
	s.Require().NoError(s.syncer.Search(s.ctx, "bob"))

	s.gw.searchResults = []model.SearchPlayer{{PlayerID: 3, Username: "carol"}}
	s.Require().NoError(s.syncer.Search(s.ctx, "carol"))

	results := s.syncer.View().SearchResults
	s.Require().Len(results, 1)
	s.Equal("carol", results[0].Username)
	s.Equal("carol", s.syncer.View().SearchTerm)
}

func (s *SyncerSuite) TestSearchAnnotatesMembershipFlags() {
	s.gw.friends = []model.Friend{{PlayerID: 2, Username: "bob"}}
	s.gw.friendRequests = []model.FriendRequest{{PlayerID: 3, Username: "carol"}}
	s.gw.searchResults = []model.SearchPlayer{
		{PlayerID: 2, Username: "bob"},
		{PlayerID: 3, Username: "carol"},
		{PlayerID: 4, Username: "dave"},
	}
	s.login()
	s.syncer.BulkRefresh(s.ctx)

	s.Require().NoError(s.syncer.Search(s.ctx, "b"))

	results := s.syncer.View().SearchResults
	s.Require().Len(results, 3)
	s.True(results[0].IsFriend)
	s.True(results[1].HasPendingRequest)
	s.False(results[2].IsFriend)
	s.False(results[2].HasPendingRequest)
}

func (s *SyncerSuite) TestOutgoingRequestFlaggedAsPending() {
	// Requests the player sent are not in the incoming-requests list,
	// but must still flag the target as pending.
	s.gw.searchResults = []model.SearchPlayer{{PlayerID: 4, Username: "dave"}}
	s.login()
	s.Require().NoError(s.syncer.Search(s.ctx, "dave"))
	s.Require().NoError(s.syncer.SendFriendRequest(s.ctx, 4))

	results := s.syncer.View().SearchResults
	s.Require().Len(results, 1)
	s.True(results[0].HasPendingRequest)
}

// Unauthorized handling

func (s *SyncerSuite) TestUnauthorizedActionForcesAnonymous() {
	s.login()
	s.gw.errs["RecordMatch"] = unauthorizedErr()

	err := s.syncer.RecordMatch(s.ctx, model.Match{GameID: 5})
	s.Error(err)
	s.Equal(StateAnonymous, s.syncer.State())
	s.Nil(s.syncer.View().Games)

	_, ok := s.creds.Load()
	s.False(ok)
}

func (s *SyncerSuite) TestUnauthorizedBackgroundReadForcesAnonymous() {
	s.login()
	s.gw.errs["Games"] = unauthorizedErr()

	s.syncer.BulkRefresh(s.ctx)

	s.Equal(StateAnonymous, s.syncer.State())
	_, ok := s.creds.Load()
	s.False(ok)
}

func (s *SyncerSuite) TestClientErrorDoesNotForceLogout() {
	s.login()
	s.gw.errs["CreateCharacter"] = &portal.Error{
		Kind:    portal.KindClient,
		Status:  http.StatusConflict,
		Message: "Character name already exists for this player",
	}

	err := s.syncer.CreateCharacter(s.ctx, "Zara", 1)
	s.Error(err)
	s.Equal(StateAuthenticated, s.syncer.State())
}

// Notifications

func (s *SyncerSuite) TestEachActionSurfacesExactlyOneNotification() {
	s.login()
	base := s.notifier.total()

	s.Require().NoError(s.syncer.CreateCharacter(s.ctx, "Zara", 1))
	s.Equal(base+1, s.notifier.total())

	s.gw.errs["CreateCharacter"] = serverErr()
	_ = s.syncer.CreateCharacter(s.ctx, "Zara", 1)
	s.Equal(base+2, s.notifier.total())
}

func (s *SyncerSuite) TestActionErrorMessageIsSurfacedVerbatim() {
	s.login()
	s.gw.errs["SendFriendRequest"] = &portal.Error{
		Kind:    portal.KindClient,
		Status:  http.StatusConflict,
		Message: "Friend request already exists",
	}

	_ = s.syncer.SendFriendRequest(s.ctx, 2)

	s.Require().NotEmpty(s.notifier.errors)
	s.Equal("Friend request already exists", s.notifier.errors[len(s.notifier.errors)-1])
}
