package api

import (
	"net/http"
	"trip-planner-service/internal/api/auth"
	"trip-planner-service/internal/api/handlers"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type RouterConfig struct {
	Planner        handlers.PlanBuilder
	Auth           *auth.Authenticator
	AllowedOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         86400,
	})

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	planHandler := &handlers.PlanHandler{Planner: cfg.Planner}
	tokenHandler := &handlers.TokenHandler{Issuer: cfg.Auth}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/token", tokenHandler.Token).Methods(http.MethodPost)

	plans := api.PathPrefix("/plans").Subrouter()
	plans.Use(requireToken(cfg.Auth))
	plans.HandleFunc("", planHandler.Plan).Methods(http.MethodPost)

	return corsHandler.Handler(r)
}
