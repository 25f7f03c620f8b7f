package portal_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameportal/portal-go/internal/model"
	"github.com/gameportal/portal-go/internal/portal"
	"github.com/gameportal/portal-go/internal/portaltest"
	"github.com/gameportal/portal-go/internal/testutil"
)

type testEnv struct {
	backend *portaltest.Server
	server  *httptest.Server
	client  *portal.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := portaltest.NewServer()
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)

	return &testEnv{
		backend: backend,
		server:  server,
		client:  portal.NewClient(server.URL, testutil.NopLogger()),
	}
}

// login registers alice and returns her session.
func (e *testEnv) login(t *testing.T) model.Session {
	t.Helper()

	e.backend.AddPlayer("alice", "alice@example.com", "pw")
	session, err := e.client.Login(context.Background(), portal.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	return session
}

func TestLoginSucceeds(t *testing.T) {
	env := newTestEnv(t)

	session := env.login(t)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "alice", session.Player.Username)
	assert.True(t, session.Valid())
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddPlayer("alice", "alice@example.com", "pw")

	_, err := env.client.Login(context.Background(), portal.LoginRequest{Username: "alice", Password: "nope"})
	require.Error(t, err)
	assert.True(t, portal.IsUnauthorized(err))
}

func TestSignupDuplicateIsClientError(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddPlayer("alice", "alice@example.com", "pw")

	err := env.client.Signup(context.Background(), portal.SignupRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "pw",
	})
	require.Error(t, err)
	assert.True(t, portal.IsClientError(err))
	// The backend message is surfaced verbatim.
	assert.Equal(t, "Username or email already exists", err.Error())
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.Games(context.Background(), "")
	require.Error(t, err)
	assert.True(t, portal.IsUnauthorized(err))
}

func TestServerFailureIsServerError(t *testing.T) {
	env := newTestEnv(t)
	session := env.login(t)

	env.backend.FailNextWith(http.StatusInternalServerError)
	_, err := env.client.Games(context.Background(), session.Token)
	require.Error(t, err)
	assert.True(t, portal.IsServerError(err))
}

func TestUnreachableBackendIsNetworkError(t *testing.T) {
	env := newTestEnv(t)
	env.server.Close()

	_, err := env.client.Games(context.Background(), "whatever")
	require.Error(t, err)
	assert.True(t, portal.IsNetworkError(err))
}

func TestMatchUpdatesAggregatesAndStats(t *testing.T) {
	env := newTestEnv(t)
	session := env.login(t)
	gameID := env.backend.AddGame("Starfall", "RPG")

	err := env.client.RecordMatch(context.Background(), session.Token, model.Match{
		GameID:   gameID,
		Playtime: 2.5,
		IsWin:    true,
		Score:    100,
	})
	require.NoError(t, err)

	games, err := env.client.PlayerGames(context.Background(), session.Token)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Starfall", games[0].Title)
	assert.Equal(t, 1, games[0].Wins)
	assert.Equal(t, int64(100), games[0].HighScore)

	stats, err := env.client.PlayerStats(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, 2.5, stats.TotalPlaytime)
	assert.Equal(t, 1, stats.TotalWins)
	assert.Equal(t, 100.0, stats.WinRate)

	rate, err := env.client.GameWinRate(context.Background(), session.Token, gameID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rate)
}

func TestCharacterLifecycle(t *testing.T) {
	env := newTestEnv(t)
	session := env.login(t)

	err := env.client.CreateCharacter(context.Background(), session.Token, portal.CreateCharacterRequest{
		Name:  "Zara",
		Level: 3,
	})
	require.NoError(t, err)

	chars, err := env.client.Characters(context.Background(), session.Token)
	require.NoError(t, err)
	require.Len(t, chars, 1)
	assert.Equal(t, "Zara", chars[0].Name)

	err = env.client.UpdateCharacter(context.Background(), session.Token, chars[0].ID, portal.UpdateCharacterRequest{Level: 4})
	require.NoError(t, err)

	err = env.client.DeleteCharacter(context.Background(), session.Token, chars[0].ID)
	require.NoError(t, err)

	chars, err = env.client.Characters(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Empty(t, chars)
}

func TestDuplicateCharacterNameIsClientError(t *testing.T) {
	env := newTestEnv(t)
	session := env.login(t)

	req := portal.CreateCharacterRequest{Name: "Zara", Level: 1}
	require.NoError(t, env.client.CreateCharacter(context.Background(), session.Token, req))

	err := env.client.CreateCharacter(context.Background(), session.Token, req)
	require.Error(t, err)
	assert.True(t, portal.IsClientError(err))
}

func TestFriendFlow(t *testing.T) {
	env := newTestEnv(t)
	session := env.login(t)
	bobID := env.backend.AddPlayer("bob", "bob@example.com", "pw")

	// alice -> bob request
	require.NoError(t, env.client.SendFriendRequest(context.Background(), session.Token, bobID))

	// bob sees it and accepts
	bobSession, err := env.client.Login(context.Background(), portal.LoginRequest{Username: "bob", Password: "pw"})
	require.NoError(t, err)

	reqs, err := env.client.FriendRequests(context.Background(), bobSession.Token)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "alice", reqs[0].Username)

	require.NoError(t, env.client.AcceptFriendRequest(context.Background(), bobSession.Token, session.Player.ID))

	friends, err := env.client.Friends(context.Background(), session.Token)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Username)

	// remove
	require.NoError(t, env.client.RemoveFriend(context.Background(), session.Token, bobID))
	friends, err = env.client.Friends(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestDuplicateFriendRequestIsClientError(t *testing.T) {
	env := newTestEnv(t)
	session := env.login(t)
	bobID := env.backend.AddPlayer("bob", "bob@example.com", "pw")

	require.NoError(t, env.client.SendFriendRequest(context.Background(), session.Token, bobID))

	err := env.client.SendFriendRequest(context.Background(), session.Token, bobID)
	require.Error(t, err)
	assert.True(t, portal.IsClientError(err))
}

func TestSearchExcludesSelf(t *testing.T) {
	env := newTestEnv(t)
	session := env.login(t)
	env.backend.AddPlayer("alicia", "alicia@example.com", "pw")

	players, err := env.client.SearchPlayers(context.Background(), session.Token, "ali")
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "alicia", players[0].Username)
}

func TestProfileCombinesCollections(t *testing.T) {
	env := newTestEnv(t)
	session := env.login(t)

	require.NoError(t, env.client.CreateCharacter(context.Background(), session.Token, portal.CreateCharacterRequest{Name: "Zara", Level: 1}))

	profile, err := env.client.Profile(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Player.Username)
	assert.Len(t, profile.Characters, 1)
}

func TestHealthNeedsNoAuth(t *testing.T) {
	env := newTestEnv(t)

	h, err := env.client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
}
