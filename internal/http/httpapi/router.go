// Package httpapi assembles the chi router for the service.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/scottrhay/AIAMusic/internal/http/handlers"
	"github.com/scottrhay/AIAMusic/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
	)
	if app.Logger != nil {
		r.Use(middleware.Logger(*app.Logger))
	}

	r.Get("/v1/healthz", app.Health)

	// Provider callbacks authenticate by correlation id, not by JWT: the
	// generation service cannot carry our tokens.
	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/suno-callback", app.ProviderCallback)
		r.Post("/speech-callback", app.ProviderCallback)
		r.Get("/test", app.WebhookTest)
		r.Post("/test", app.WebhookTest)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))

		r.Get("/api/v1/me", app.Me)

		r.Route("/api/v1/songs", func(r chi.Router) {
			r.Post("/", app.CreateSong)
			r.Get("/", app.ListSongs)
			r.Get("/stats", app.SongStats)
			r.Get("/{id}", app.GetSong)
			r.Put("/{id}", app.UpdateSong)
			r.Delete("/{id}", app.DeleteSong)
			r.Post("/{id}/recreate", app.RecreateSong)
		})

		r.Route("/api/v1/styles", func(r chi.Router) {
			r.Post("/", app.CreateStyle)
			r.Get("/", app.ListStyles)
			r.Get("/{id}", app.GetStyle)
			r.Put("/{id}", app.UpdateStyle)
			r.Delete("/{id}", app.DeleteStyle)
		})

		r.Route("/api/v1/speech", func(r chi.Router) {
			r.Post("/synthesize", app.Synthesize)
			r.Get("/voices", app.ListVoices)
		})
	})

	// Synthesized clips are written under StoragePath and served here.
	if app.Config.StoragePath != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(app.Config.StoragePath)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
