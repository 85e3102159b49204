package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/bombtris-server/internal/repository"
	"github.com/vancomm/bombtris-server/internal/tetris"
)

func seedRecord(t *testing.T, store *memoryStore, playerId *int64, score int) {
	t.Helper()
	state := tetris.InitialState()
	state.Score = score
	params, err := repository.NewCreateGameRecordParams(state, playerId, time.Now())
	require.NoError(t, err)
	_, err = store.CreateGameRecord(context.Background(), params)
	require.NoError(t, err)
	<-store.recorded
}

func TestHighscores(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	srv.register(t, "judy")
	judy := int64(1)

	seedRecord(t, srv.store, nil, 4)
	seedRecord(t, srv.store, &judy, 9)
	seedRecord(t, srv.store, &judy, 2)

	tests := []struct {
		name   string
		target string
		scores []int
	}{
		{"all", "/highscores", []int{9, 4, 2}},
		{"limit", "/highscores?limit=2", []int{9, 4}},
		{"by username", "/highscores?username=judy", []int{9, 2}},
		{"unknown username", "/highscores?username=nobody", []int{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := srv.do(http.MethodGet, test.target, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			highscores := decode[[]repository.Highscore](t, rec)
			scores := []int{}
			for _, h := range highscores {
				scores = append(scores, h.Score)
			}
			assert.Equal(t, test.scores, scores)
		})
	}
}

func TestHighscoresBadQuery(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := srv.do(http.MethodGet, "/highscores?limit=many", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchRecord(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	seedRecord(t, srv.store, nil, 7)

	rec := srv.do(http.MethodGet, "/records/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[GameRecordDTO](t, rec)
	assert.Equal(t, "1", dto.GameRecordId)
	assert.Equal(t, 7, dto.Score)
	assert.Equal(t, 7, dto.State.Score)
	assert.Nil(t, dto.PlayerId)

	assert.Equal(t, http.StatusNotFound, srv.do(http.MethodGet, "/records/2", nil).Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(http.MethodGet, "/records/x", nil).Code)
}
