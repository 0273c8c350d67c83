package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/edventure/tutorbot/internal/conversation"
	"github.com/edventure/tutorbot/internal/handler/bot"
	"github.com/edventure/tutorbot/internal/handler/ws"
	middlewarePkg "github.com/edventure/tutorbot/internal/middleware"
)

// NewRouter wires the HTTP event gateway to the conversation engine.
func NewRouter(engine *conversation.Engine) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	botHandler := bot.New(engine)
	wsHandler := ws.New(engine)

	r.Route("/api", func(api chi.Router) {
		botHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
