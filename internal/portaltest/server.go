// Package portaltest provides an in-memory portal backend for tests.
// It implements the HTTP contract the real backend serves: JSON
// bodies, bearer-token auth, and {"error": string} on every non-2xx.
package portaltest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/gameportal/portal-go/internal/model"
)

type player struct {
	id           int64
	username     string
	email        string
	passwordHash []byte
}

type playerGame struct {
	gameID   int64
	playtime float64
	wins     int
	losses   int
	high     int64
}

// Server is an in-memory portal backend.
type Server struct {
	mu sync.Mutex

	nextID   int64
	players  map[int64]*player
	tokens   map[string]int64 // token -> player id
	games    map[int64]model.Game
	pgames   map[int64]map[int64]*playerGame // player -> game -> aggregate
	chars    map[int64][]model.Character     // player -> characters
	friends  map[int64]map[int64]struct{}    // symmetric
	requests map[int64]map[int64]struct{}    // requester -> requestees
	earned   map[int64][]model.PlayerAchievement

	failStatus int // non-zero forces the next request to fail

	router *mux.Router
}

// NewServer creates an empty portal backend.
func NewServer() *Server {
	s := &Server{
		nextID:   1,
		players:  make(map[int64]*player),
		tokens:   make(map[string]int64),
		games:    make(map[int64]model.Game),
		pgames:   make(map[int64]map[int64]*playerGame),
		chars:    make(map[int64][]model.Character),
		friends:  make(map[int64]map[int64]struct{}),
		requests: make(map[int64]map[int64]struct{}),
		earned:   make(map[int64][]model.PlayerAchievement),
	}
	s.routes()
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := mux.NewRouter()

	r.HandleFunc("/auth/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	auth := r.NewRoute().Subrouter()
	auth.Use(s.authMiddleware)
	auth.HandleFunc("/games", s.handleGames).Methods(http.MethodGet)
	auth.HandleFunc("/games/player", s.handlePlayerGames).Methods(http.MethodGet)
	auth.HandleFunc("/games/{id:[0-9]+}/winrate", s.handleWinRate).Methods(http.MethodGet)
	auth.HandleFunc("/games/match", s.handleRecordMatch).Methods(http.MethodPost)
	auth.HandleFunc("/player/stats", s.handleStats).Methods(http.MethodGet)
	auth.HandleFunc("/player/profile", s.handleProfile).Methods(http.MethodGet)
	auth.HandleFunc("/characters", s.handleListCharacters).Methods(http.MethodGet)
	auth.HandleFunc("/characters", s.handleCreateCharacter).Methods(http.MethodPost)
	auth.HandleFunc("/characters/{id:[0-9]+}", s.handleUpdateCharacter).Methods(http.MethodPut)
	auth.HandleFunc("/characters/{id:[0-9]+}", s.handleDeleteCharacter).Methods(http.MethodDelete)
	auth.HandleFunc("/friends", s.handleFriends).Methods(http.MethodGet)
	auth.HandleFunc("/friends/requests", s.handleFriendRequests).Methods(http.MethodGet)
	auth.HandleFunc("/friends/search", s.handleSearch).Methods(http.MethodGet)
	auth.HandleFunc("/friends/request", s.handleSendRequest).Methods(http.MethodPost)
	auth.HandleFunc("/friends/accept/{id:[0-9]+}", s.handleAccept).Methods(http.MethodPut)
	auth.HandleFunc("/friends/{id:[0-9]+}", s.handleRemoveFriend).Methods(http.MethodDelete)
	auth.HandleFunc("/achievements/player", s.handlePlayerAchievements).Methods(http.MethodGet)
	auth.HandleFunc("/achievements/game/{id:[0-9]+}", s.handleGameAchievements).Methods(http.MethodGet)

	r.Use(s.failureMiddleware)

	s.router = r
}

// FailNextWith makes the next request fail with the given status.
func (s *Server) FailNextWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

func (s *Server) failureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.failStatus
		s.failStatus = 0
		s.mu.Unlock()

		if status != 0 {
			writeError(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type contextKey string

const playerKey contextKey = "player"

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Token is missing")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		s.mu.Lock()
		id, ok := s.tokens[token]
		s.mu.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withPlayer(r.Context(), id)))
	})
}

// Seeding helpers

// AddGame seeds a catalog game and returns its id.
func (s *Server) AddGame(title, genre string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.games[id] = model.Game{ID: id, Title: title, Genre: genre}
	return id
}

// AddPlayer seeds an account and returns its id.
func (s *Server) AddPlayer(username, email, password string) int64 {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("portaltest: bcrypt: %v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.players[id] = &player{id: id, username: username, email: email, passwordHash: hash}
	return id
}

// GrantAchievement seeds an earned achievement for a player.
func (s *Server) GrantAchievement(playerID int64, a model.PlayerAchievement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.earned[playerID] = append(s.earned[playerID], a)
}

// SendRequest seeds a pending friend request from one player to another.
func (s *Server) SendRequest(from, to int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.requests[from] == nil {
		s.requests[from] = make(map[int64]struct{})
	}
	s.requests[from][to] = struct{}{}
}

// Befriend seeds an accepted friendship.
func (s *Server) Befriend(a, b int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.link(a, b)
}

func (s *Server) link(a, b int64) {
	if s.friends[a] == nil {
		s.friends[a] = make(map[int64]struct{})
	}
	if s.friends[b] == nil {
		s.friends[b] = make(map[int64]struct{})
	}
	s.friends[a][b] = struct{}{}
	s.friends[b][a] = struct{}{}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func newToken() string {
	return uuid.NewString()
}
