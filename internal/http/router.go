package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docgraph/internal/audit"
	"docgraph/internal/graphstore"
	"docgraph/internal/handlers"
	"docgraph/internal/indexer"
	"docgraph/internal/search"
	"docgraph/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine     *search.Engine
	Pipeline   *indexer.Pipeline
	Auditor    *audit.Auditor
	Graph      graphstore.GraphStore
	Vectors    vectorstore.VectorStore
	Collection string
}

// NewRouter creates the HTTP router with all API routes registered.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	searchHandler := handlers.NewSearchHandler(deps.Engine)
	documentsHandler := handlers.NewDocumentsHandler(deps.Pipeline, deps.Graph)
	auditHandler := handlers.NewAuditHandler(deps.Auditor)
	categoriesHandler := handlers.NewCategoriesHandler(deps.Graph)
	statsHandler := handlers.NewStatsHandler(deps.Graph, deps.Vectors, deps.Collection)
	healthHandler := handlers.NewHealthHandler(deps.Graph, deps.Vectors, deps.Collection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/search", searchHandler)
		r.Post("/documents", documentsHandler.Create)
		r.Get("/documents/{id}", documentsHandler.Get)
		r.Delete("/documents/{id}", documentsHandler.Delete)
		r.Method(http.MethodGet, "/audit", auditHandler)
		r.Method(http.MethodGet, "/categories", categoriesHandler)
		r.Method(http.MethodGet, "/stats", statsHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
