package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/bombtris-server/internal/session"
	"github.com/vancomm/bombtris-server/internal/tetris"
)

// Connect upgrades to a websocket. Text frames carry command words, one per
// line; every state the session publishes is written back as JSON. A session
// feeds a single renderer at a time.
func (g *GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	s := g.session(w, r, true)
	if s == nil {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	log := g.log.WithField("session", s.ID)
	log.Debug("renderer connected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		return g.writeStates(ctx, conn, s)
	})
	eg.Go(func() error {
		defer cancel()
		return readCommands(ctx, conn, s, log)
	})
	eg.Go(func() error {
		<-ctx.Done()
		conn.Close()
		return nil
	})

	if err := eg.Wait(); err != nil {
		log.WithError(err).Warn("renderer dropped")
	}
	log.Debug("renderer disconnected")
}

func (g *GameHandler) writeStates(ctx context.Context, conn *websocket.Conn, s *session.Session) error {
	write := func(state tetris.State) error {
		conn.SetWriteDeadline(time.Now().Add(g.ws.WriteTimeout))
		return conn.WriteJSON(state)
	}

	if err := write(s.State()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(g.ws.WriteTimeout))
			return nil
		case state := <-s.States():
			if err := write(state); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func readCommands(ctx context.Context, conn *websocket.Conn, s *session.Session, log logrus.FieldLogger) error {
	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(
				err, websocket.CloseNormalClosure, websocket.CloseGoingAway,
			) {
				return nil
			}
			return err
		}
		if mt != websocket.TextMessage {
			continue
		}
		for _, line := range strings.Split(string(message), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			e, err := tetris.ParseEvent(line)
			if err != nil {
				log.WithError(err).Warn("ignoring command")
				continue
			}
			if err := s.Send(ctx, e); err != nil {
				if errors.Is(err, session.ErrClosed) || ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}
