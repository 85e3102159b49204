package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/bombtris-server/internal/config"
	"github.com/vancomm/bombtris-server/internal/database"
	"github.com/vancomm/bombtris-server/internal/middleware"
	"github.com/vancomm/bombtris-server/internal/repository"
	"github.com/vancomm/bombtris-server/internal/session"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	log        *logrus.Logger
	cfg        *config.App
	router     *http.ServeMux
	db         *pgxpool.Pool
	repo       *repository.Queries
	jwt        *config.JWT
	cookies    *config.Cookies
	ws         *config.WebSocket
	sessions   *session.Registry
	migrations fs.FS
}

func New(log *logrus.Logger, cfg *config.App, migrations fs.FS) *App {
	sessions := session.NewRegistry(
		log,
		cfg.MaxSessions,
		session.WithIdleTimeout(cfg.SessionIdleTimeout),
	)
	return &App{
		log:        log,
		cfg:        cfg,
		router:     http.NewServeMux(),
		ws:         config.NewWebSocket(),
		sessions:   sessions,
		migrations: migrations,
	}
}

func (a *App) setup(ctx context.Context) error {
	db, migrator, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	if srcErr, dbErr := migrator.Close(); srcErr != nil || dbErr != nil {
		a.log.WithError(errors.Join(srcErr, dbErr)).Warn("unable to close migrator")
	}
	a.db = db
	a.repo = repository.New(db)

	a.jwt, err = config.NewJWT()
	if err != nil {
		return err
	}

	a.cookies, err = config.NewCookies(a.jwt)
	if err != nil {
		return err
	}

	a.loadRoutes()
	return nil
}

func (a *App) handler() http.Handler {
	var h http.Handler = a.router
	if a.cfg.BasePath != "" {
		h = http.StripPrefix(a.cfg.BasePath, h)
	}
	return middleware.Wrap(
		h,
		middleware.Auth(a.log, a.cookies),
		middleware.Logging(a.log),
		middleware.Cors(a.cfg.CorsOrigins...),
	)
}

// Start serves until ctx is done, then drains requests and stops every
// running game.
func (a *App) Start(ctx context.Context) error {
	err := a.setup(ctx)
	if a.db != nil {
		defer a.db.Close()
	}
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    a.cfg.Addr,
		Handler: a.handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.WithFields(a.cfg.Fields()).Info("server listening")

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		a.log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		a.sessions.Close()
		return err
	})

	return g.Wait()
}
