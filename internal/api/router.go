package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter constructs the HTTP route tree with all middleware applied.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware, outermost first
	r.Use(s.recoveryMiddleware)
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/refresh-token", s.handleRefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Post("/logout", s.handleLogout)
				r.Get("/me", s.handleMe)
				r.Post("/update-password", s.handleUpdatePassword)
				r.Post("/change-password", s.handleChangePassword)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.handleCreateAdmin)

			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Post("/customers", s.handleCreateCustomer)
			})
		})

		r.Route("/cages", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)
				r.Post("/", s.handleCreateCage)
				r.Get("/monitor/{assigned_monitor}", s.handleListCagesByMonitor)
			})

			// Device endpoint: authenticated by the opaque device secret,
			// not by a JWT, so it sits outside authMiddleware.
			r.Post("/{cage_id}/readings", s.handleUpdateCageReadings)
		})
	})

	return r
}

// handleHealth reports service liveness and database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err != nil {
			s.logger.Warn("health check failed", "error", err)
			status = "degraded"
		}
	}

	writeSuccess(w, http.StatusOK, "Health check", map[string]string{
		"status":  status,
		"version": s.version,
	})
}
