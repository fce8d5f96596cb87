package server

import (
	"log"
	"net/http"
	"time"

	"github.com/alfagnish/userdir/internal/config"
	"github.com/alfagnish/userdir/internal/directory"
	"github.com/alfagnish/userdir/internal/events"
	"github.com/alfagnish/userdir/internal/handlers"
	"github.com/alfagnish/userdir/internal/openapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New creates a fully-configured chi router with all route groups,
// middleware, and handlers wired together.
func New(cfg *config.Config, dir *directory.Directory, hub *events.Hub) (http.Handler, error) {
	r := chi.NewRouter()

	// ── Middleware ───────────────────────────────────────────
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.CORSOrigin},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(limitBody(cfg.MaxBodyBytes()))

	// ── Handlers ────────────────────────────────────────────
	doc, err := openapi.Build(cfg.PublicURL)
	if err != nil {
		return nil, err
	}
	docsH, err := handlers.NewDocsHandler(doc)
	if err != nil {
		return nil, err
	}
	systemH := handlers.NewSystemHandler(dir)
	usersH := handlers.NewUsersHandler(dir)
	eventsH := handlers.NewEventsHandler(hub)

	// ── Route groups ────────────────────────────────────────
	systemH.Routes(r)
	r.Route("/api-docs", docsH.Routes)
	r.Route("/events", eventsH.Routes)
	r.Route("/users", usersH.Routes)

	return r, nil
}

// limitBody caps request bodies at n bytes. Handlers see a
// *http.MaxBytesError from the reader once the cap is crossed.
func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger is a simple middleware that logs each HTTP request with
// method, path, status code, and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// Health checks would drown out real traffic.
		if r.URL.Path == "/healthz" {
			return
		}
		status := ww.Status()
		if status == 0 {
			status = 200
		}
		log.Printf("%s %s %d %s",
			r.Method,
			r.URL.Path,
			status,
			time.Since(start).Round(time.Millisecond),
		)
	})
}
