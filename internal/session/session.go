package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/bombtris-server/internal/clock"
	"github.com/vancomm/bombtris-server/internal/tetris"
)

var (
	ErrClosed          = errors.New("session closed")
	ErrNotFound        = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// Ticker drives gravity. *clock.Clock is the production implementation.
type Ticker interface {
	C() <-chan time.Time
	SetPeriod(time.Duration)
	Run(ctx context.Context) error
}

const inputBuffer = 16

// Session runs one game. All reductions happen on the goroutine started by
// Run; everything else only reads snapshots.
type Session struct {
	ID        int64
	OwnerID   *int64
	CreatedAt time.Time

	log         logrus.FieldLogger
	ticker      Ticker
	onGameEnd   func(*Session, tetris.State)
	idleTimeout time.Duration

	mu            sync.RWMutex
	state         tetris.State
	gameStartedAt time.Time

	inputs    chan tetris.Event
	states    chan tetris.State
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type Option func(*Session)

func WithTicker(t Ticker) Option {
	return func(s *Session) { s.ticker = t }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Session) { s.log = log }
}

func WithOwner(playerID int64) Option {
	return func(s *Session) { s.OwnerID = &playerID }
}

func WithState(state tetris.State) Option {
	return func(s *Session) { s.state = state }
}

// WithIdleTimeout stops the session once d passes without input. Zero keeps
// it running until closed.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Session) { s.idleTimeout = d }
}

// OnGameEnd registers f to be called from the session goroutine each time a
// game finishes.
func OnGameEnd(f func(*Session, tetris.State)) Option {
	return func(s *Session) { s.onGameEnd = f }
}

func New(opts ...Option) *Session {
	now := time.Now().UTC()
	s := &Session{
		CreatedAt:     now,
		gameStartedAt: now,
		log:           logrus.StandardLogger(),
		state:         tetris.InitialState(),
		inputs:        make(chan tetris.Event, inputBuffer),
		states:        make(chan tetris.State, 1),
		quit:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ticker == nil {
		s.ticker = clock.New(s.state.TickInterval())
	}
	return s
}

// State returns the latest snapshot.
func (s *Session) State() tetris.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// GameStartedAt is when the current game began: session creation or the
// latest restart.
func (s *Session) GameStartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameStartedAt
}

// States delivers snapshots. It holds at most one, so a slow reader skips
// straight to the newest state.
func (s *Session) States() <-chan tetris.State {
	return s.states
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Send(ctx context.Context, e tetris.Event) error {
	select {
	case <-s.quit:
		return ErrClosed
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.inputs <- e:
		return nil
	case <-s.quit:
		return ErrClosed
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops Run. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
}

// Run publishes the current snapshot, then reduces inputs and ticks until ctx
// is done or Close is called.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.ticker.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return s.loop(ctx)
	})
	return g.Wait()
}

func (s *Session) loop(ctx context.Context) error {
	var (
		idleTimer *time.Timer
		idle      <-chan time.Time
	)
	if s.idleTimeout > 0 {
		idleTimer = time.NewTimer(s.idleTimeout)
		defer idleTimer.Stop()
		idle = idleTimer.C
	}

	s.publish(s.State())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.quit:
			return nil
		case <-idle:
			s.log.WithField("session", s.ID).Info("session idle, stopping")
			return nil
		case e := <-s.inputs:
			s.apply(e)
			if idleTimer != nil {
				idleTimer.Reset(s.idleTimeout)
			}
		case <-s.ticker.C():
			s.apply(tetris.TickEvent())
		}
	}
}

func (s *Session) apply(e tetris.Event) {
	prev := s.State()
	next := tetris.Reduce(prev, e)
	if prev.GameEnd && next.GameEnd && e.Kind == tetris.Tick {
		return
	}

	s.mu.Lock()
	s.state = next
	if prev.GameEnd && !next.GameEnd {
		s.gameStartedAt = time.Now().UTC()
	}
	s.mu.Unlock()

	if next.TickRate != prev.TickRate {
		s.ticker.SetPeriod(next.TickInterval())
		s.log.WithFields(logrus.Fields{
			"session": s.ID,
			"level":   next.Level,
			"tick":    next.TickRate,
		}).Debug("tick rate changed")
	}

	s.publish(next)

	if next.GameEnd && !prev.GameEnd {
		s.log.WithFields(logrus.Fields{
			"session": s.ID,
			"score":   next.Score,
			"level":   next.Level,
		}).Info("game over")
		if s.onGameEnd != nil {
			s.onGameEnd(s, next)
		}
	}
}

// publish replaces any unread snapshot with state. Only the loop goroutine
// sends on s.states, so the second send always succeeds.
func (s *Session) publish(state tetris.State) {
	select {
	case s.states <- state:
		return
	default:
	}
	select {
	case <-s.states:
	default:
	}
	s.states <- state
}
