package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/bombtris-server/internal/config"
	"github.com/vancomm/bombtris-server/internal/middleware"
	"github.com/vancomm/bombtris-server/internal/repository"
	"github.com/vancomm/bombtris-server/internal/session"
	"github.com/vancomm/bombtris-server/internal/tetris"
)

var (
	ErrNotOwner = errors.New("game belongs to another player")
)

const recordTimeout = 5 * time.Second

type GameHandler struct {
	log      logrus.FieldLogger
	sessions *session.Registry
	records  RecordStore
	ws       *config.WebSocket
}

func NewGameHandler(
	log logrus.FieldLogger,
	sessions *session.Registry,
	records RecordStore,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		log:      log,
		sessions: sessions,
		records:  records,
		ws:       ws,
	}
}

// recordGame stores a finished game. It runs on the session goroutine.
func (g *GameHandler) recordGame(s *session.Session, state tetris.State) {
	log := g.log.WithField("session", s.ID)

	params, err := repository.NewCreateGameRecordParams(state, s.OwnerID, s.GameStartedAt())
	if err != nil {
		log.WithError(err).Error("unable to encode final state")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	record, err := g.records.CreateGameRecord(ctx, params)
	if err != nil {
		log.WithError(err).Error("unable to store game record")
		return
	}
	log.WithFields(logrus.Fields{
		"record": record.GameRecordId,
		"score":  record.Score,
	}).Info("game recorded")
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	opts := []session.Option{session.OnGameEnd(g.recordGame)}
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		opts = append(opts, session.WithOwner(claims.PlayerId))
	}

	// sessions outlive the request; they stop when idle, on delete or on
	// shutdown
	s, err := g.sessions.Create(context.WithoutCancel(r.Context()), opts...)
	if errors.Is(err, session.ErrTooManySessions) {
		sendErrorOrLog(w, g.log, http.StatusServiceUnavailable, err)
		return
	}
	if err != nil {
		internalError(w, g.log, "unable to create session", err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	sendJSONOrLog(w, g.log, NewGameSessionDTO(s))
}

// session resolves the {id} path value. It writes the error response itself
// and returns nil when the request cannot go on.
func (g *GameHandler) session(w http.ResponseWriter, r *http.Request, owned bool) *session.Session {
	id, err := pathID(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil
	}
	s, err := g.sessions.Get(id)
	if errors.Is(err, session.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}
	if err != nil {
		internalError(w, g.log, "unable to look up session", err)
		return nil
	}
	if owned && s.OwnerID != nil {
		claims, ok := middleware.PlayerClaims(r.Context())
		if !ok || claims.PlayerId != *s.OwnerID {
			sendErrorOrLog(w, g.log, http.StatusForbidden, ErrNotOwner)
			return nil
		}
	}
	return s
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s := g.session(w, r, false)
	if s == nil {
		return
	}
	sendJSONOrLog(w, g.log, NewGameSessionDTO(s))
}

func (g *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s := g.session(w, r, true)
	if s == nil {
		return
	}
	if err := g.sessions.Remove(s.ID); err != nil && !errors.Is(err, session.ErrNotFound) {
		internalError(w, g.log, "unable to remove session", err)
		return
	}
	g.log.WithField("session", s.ID).Info("session deleted")
	w.WriteHeader(http.StatusNoContent)
}
