package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kargotek/destek/backend/internal/handler/supportchat"
	middlewarePkg "github.com/kargotek/destek/backend/internal/middleware"
)

// NewRouter wires HTTP routes to core services. staticDir holds the
// synthesized audio files referenced by chat responses.
func NewRouter(turns supportchat.TurnProcessor, synth supportchat.Synthesizer, staticDir string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := supportchat.New(turns, synth)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
	})

	if staticDir != "" {
		fileServer := http.FileServer(http.Dir(staticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	return r
}
