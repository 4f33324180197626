package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"askbot/internal/handlers"
	"askbot/internal/rag"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine   rag.Engine
	Verifier handlers.Verifier
	Store    handlers.StorePinger
}

// NewRouter creates the HTTP router.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)

	r.Method(http.MethodPost, "/ask", handlers.NewAskHandler(deps.Engine))
	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.Verifier, deps.Store))

	return r
}
