package handlers

import (
	"errors"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/bombtris-server/internal/config"
	"github.com/vancomm/bombtris-server/internal/middleware"
	"github.com/vancomm/bombtris-server/internal/repository"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

var (
	ErrBadAuthBody        = errors.New("request body must contain url-encoded username and password")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type Auth struct {
	log     logrus.FieldLogger
	players PlayerStore
	cookies *config.Cookies
	jwt     *config.JWT
	cost    int
}

func NewAuth(
	log logrus.FieldLogger,
	players PlayerStore,
	cookies *config.Cookies,
	jwt *config.JWT,
) *Auth {
	return &Auth{
		log:     log,
		players: players,
		cookies: cookies,
		jwt:     jwt,
		cost:    bcrypt.DefaultCost,
	}
}

type PlayerInfo struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
}

type Status struct {
	LoggedIn bool        `json:"logged_in"`
	Player   *PlayerInfo `json:"player,omitempty"`
}

func credentials(r *http.Request) (username, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", ErrBadAuthBody
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" {
		return "", "", ErrBadAuthBody
	}
	if len(password) > maxPasswordBytes {
		return "", "", ErrPasswordTooLong
	}
	return username, password, nil
}

func (a *Auth) login(w http.ResponseWriter, player *repository.Player) {
	token, err := a.jwt.Sign(a.jwt.NewPlayerClaims(player.PlayerId, player.Username))
	if err != nil {
		internalError(w, a.log, "unable to create a jwt token", err)
		return
	}
	if err := a.cookies.Refresh(w, token); err != nil {
		internalError(w, a.log, "unable to set auth cookies", err)
		return
	}
	sendJSONOrLog(w, a.log, Status{
		LoggedIn: true,
		Player:   &PlayerInfo{player.PlayerId, player.Username},
	})
}

func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		sendErrorOrLog(w, a.log, http.StatusBadRequest, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		internalError(w, a.log, "unable to hash password", err)
		return
	}

	player, err := a.players.CreatePlayer(r.Context(), repository.CreatePlayerParams{
		Username:     username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		sendErrorOrLog(w, a.log, http.StatusConflict, ErrUsernameTaken)
		return
	}
	if err != nil {
		internalError(w, a.log, "unable to insert player", err)
		return
	}

	a.log.WithField("player", player.PlayerId).Info("player registered")
	a.login(w, player)
}

func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		sendErrorOrLog(w, a.log, http.StatusBadRequest, err)
		return
	}

	player, err := a.players.GetPlayer(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		sendErrorOrLog(w, a.log, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err != nil {
		internalError(w, a.log, "unable to fetch player", err)
		return
	}

	err = bcrypt.CompareHashAndPassword(player.PasswordHash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		sendErrorOrLog(w, a.log, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err != nil {
		internalError(w, a.log, "bcrypt compare error", err)
		return
	}

	a.login(w, player)
}

func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// Status reports who is logged in and extends their cookies.
func (a *Auth) Status(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		a.cookies.Clear(w)
		sendJSONOrLog(w, a.log, Status{LoggedIn: false})
		return
	}
	a.login(w, &repository.Player{PlayerId: claims.PlayerId, Username: claims.Username})
}
