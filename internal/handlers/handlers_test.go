package handlers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/bombtris-server/internal/config"
	"github.com/vancomm/bombtris-server/internal/middleware"
	"github.com/vancomm/bombtris-server/internal/repository"
	"github.com/vancomm/bombtris-server/internal/session"
	"github.com/vancomm/bombtris-server/internal/tetris"
)

type memoryStore struct {
	mu       sync.Mutex
	players  []*repository.Player
	records  []*repository.GameRecord
	recorded chan *repository.GameRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{recorded: make(chan *repository.GameRecord, 8)}
}

func (m *memoryStore) CreatePlayer(
	ctx context.Context, params repository.CreatePlayerParams,
) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.Username == params.Username {
			return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		}
	}
	player := &repository.Player{
		PlayerId:     int64(len(m.players) + 1),
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
		CreatedAt:    time.Now(),
	}
	m.players = append(m.players, player)
	return player, nil
}

func (m *memoryStore) GetPlayer(ctx context.Context, username string) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.Username == username {
			return p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryStore) CreateGameRecord(
	ctx context.Context, params repository.CreateGameRecordParams,
) (*repository.GameRecord, error) {
	m.mu.Lock()
	record := &repository.GameRecord{
		GameRecordId: int64(len(m.records) + 1),
		PlayerId:     params.PlayerId,
		Score:        params.Score,
		Level:        params.Level,
		Board:        params.Board,
		StartedAt:    params.StartedAt,
		EndedAt:      time.Now(),
	}
	m.records = append(m.records, record)
	m.mu.Unlock()

	m.recorded <- record
	return record, nil
}

func (m *memoryStore) GetGameRecord(ctx context.Context, id int64) (*repository.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 1 || int(id) > len(m.records) {
		return nil, pgx.ErrNoRows
	}
	return m.records[id-1], nil
}

func (m *memoryStore) username(playerId *int64) *string {
	if playerId == nil {
		return nil
	}
	for _, p := range m.players {
		if p.PlayerId == *playerId {
			return &p.Username
		}
	}
	return nil
}

func (m *memoryStore) GetHighscores(
	ctx context.Context, filter repository.HighscoreFilter,
) ([]repository.Highscore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, args := filter.WhereClause()
	var highscores []repository.Highscore
	for _, r := range m.records {
		username := m.username(r.PlayerId)
		if filter.Username != nil && (username == nil || *username != *filter.Username) {
			continue
		}
		highscores = append(highscores, repository.Highscore{
			GameRecordId: r.GameRecordId,
			Username:     username,
			Score:        r.Score,
			Level:        r.Level,
			EndedAt:      r.EndedAt,
		})
	}
	slices.SortStableFunc(highscores, func(a, b repository.Highscore) int {
		return b.Score - a.Score
	})
	if limit := args["limit"].(int); len(highscores) > limit {
		highscores = highscores[:limit]
	}
	return highscores, nil
}

// idleTicker never ticks, so games only move on commands.
type idleTicker struct{}

func (idleTicker) C() <-chan time.Time { return nil }

func (idleTicker) SetPeriod(time.Duration) {}

func (idleTicker) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func idleTickers() session.Option {
	return session.WithTicker(idleTicker{})
}

type testServer struct {
	handler  http.Handler
	store    *memoryStore
	sessions *session.Registry
}

func newTestServer(t *testing.T, sessionDefaults ...session.Option) *testServer {
	t.Helper()
	return newLimitedTestServer(t, 0, sessionDefaults...)
}

func newLimitedTestServer(t *testing.T, limit int, sessionDefaults ...session.Option) *testServer {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	jwt := config.NewJWTWithKeys(key, time.Hour)
	cookies := config.NewCookiesWith("", false, http.SameSiteLaxMode, jwt)

	store := newMemoryStore()
	sessions := session.NewRegistry(log, limit, append([]session.Option{idleTickers()}, sessionDefaults...)...)
	t.Cleanup(sessions.Close)

	auth := NewAuth(log, store, cookies, jwt)
	auth.cost = bcrypt.MinCost
	game := NewGameHandler(log, sessions, store, config.NewWebSocket())
	records := NewRecordsHandler(log, store)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", auth.Register)
	mux.HandleFunc("POST /login", auth.Login)
	mux.HandleFunc("POST /logout", auth.Logout)
	mux.HandleFunc("GET /status", auth.Status)
	mux.HandleFunc("POST /game", game.NewGame)
	mux.HandleFunc("GET /game/{id}", game.Fetch)
	mux.HandleFunc("DELETE /game/{id}", game.Delete)
	mux.HandleFunc("GET /game/{id}/connect", game.Connect)
	mux.HandleFunc("GET /highscores", records.Highscores)
	mux.HandleFunc("GET /records/{id}", records.Fetch)

	return &testServer{
		handler:  middleware.Wrap(mux, middleware.Auth(log, cookies)),
		store:    store,
		sessions: sessions,
	}
}

func (s *testServer) do(method, target string, body io.Reader, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, body)
	if body != nil {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, r)
	return rec
}

func form(username, password string) io.Reader {
	return strings.NewReader(url.Values{
		"username": {username},
		"password": {password},
	}.Encode())
}

func (s *testServer) register(t *testing.T, username string) []*http.Cookie {
	t.Helper()
	rec := s.do(http.MethodPost, "/register", form(username, "hunter22"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return rec.Result().Cookies()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func doomedState() tetris.State {
	state := tetris.InitialState()
	for y := range 2 {
		state.Grid = tetris.StampShape(
			state.Grid, 1, y, tetris.Shape{{1, 1, 1, 1, 1, 1, 1, 1, 1}}, tetris.Red,
		)
	}
	state.Score = 3
	return state
}
