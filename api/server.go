/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the web frontend
  5. Identity:   Trusted proxy headers -> request context + gateway rebind

SECURITY NOTE:
  The identity middleware trusts X-User-Email/X-User-Name. The service
  must sit behind the institutional auth proxy that sets them; it never
  validates credentials itself.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/campuslabs/schedule-engine/schedule"
)

// RouterOptions tunes the router.
type RouterOptions struct {
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-Email", "X-User-Name"},
		AllowCredentials: true,
	}))
	r.Use(h.identity)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetSchedule)
			r.Post("/refresh", h.RefreshSchedule)
			r.Put("/slots", h.UpdateSlot)
			r.Delete("/slots", h.ClearSlot)
			r.Get("/groups", h.GetGroups)
		})

		r.Get("/environments", h.ListEnvironments)

		r.Route("/activities", func(r chi.Router) {
			r.Get("/", h.ListActivities)
			r.Post("/", h.AddActivity)
		})

		r.Get("/reports/occupancy", h.GetOccupancy)
		r.Get("/healthz", h.Healthz)
	})

	return r
}

// identity lifts the auth proxy's headers onto the request context and
// forwards the session bearer to the gateway so its auth context stays
// current without reconstructing the client.
func (h *Handler) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if email := r.Header.Get("X-User-Email"); email != "" {
			name := r.Header.Get("X-User-Name")
			if name == "" {
				name = email
			}
			ctx := schedule.WithUser(r.Context(), schedule.User{Email: email, Name: name})
			r = r.WithContext(ctx)
		}

		if h.Rebind != nil {
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				h.Rebind(strings.TrimPrefix(auth, "Bearer "))
			}
		}

		next.ServeHTTP(w, r)
	})
}
