package app

import (
	"github.com/vancomm/bombtris-server/internal/handlers"
)

func (a *App) loadRoutes() {
	auth := handlers.NewAuth(a.log, a.repo, a.cookies, a.jwt)
	game := handlers.NewGameHandler(a.log, a.sessions, a.repo, a.ws)
	records := handlers.NewRecordsHandler(a.log, a.repo)

	a.router.HandleFunc("POST /register", auth.Register)
	a.router.HandleFunc("POST /login", auth.Login)
	a.router.HandleFunc("POST /logout", auth.Logout)
	a.router.HandleFunc("GET /status", auth.Status)

	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("GET /game/{id}", game.Fetch)
	a.router.HandleFunc("DELETE /game/{id}", game.Delete)
	a.router.HandleFunc("GET /game/{id}/connect", game.Connect)

	a.router.HandleFunc("GET /highscores", records.Highscores)
	a.router.HandleFunc("GET /records/{id}", records.Fetch)
}
