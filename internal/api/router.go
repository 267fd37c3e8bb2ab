package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/anrtools/anr-companion/internal/api/handlers"
	"github.com/anrtools/anr-companion/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Deck routes
		deckHandler := handlers.NewDeckHandler(s.snapshots, s.engine, s.db, s.metrics)
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", deckHandler.GetDecks)
			r.Post("/", deckHandler.CreateDeck)
			r.Post("/check", deckHandler.CheckDeck)
			r.Post("/parse", deckHandler.ParseDeckList)
			r.Get("/{deckID}", deckHandler.GetDeck)
			r.Put("/{deckID}", deckHandler.UpdateDeck)
			r.Delete("/{deckID}", deckHandler.DeleteDeck)
			r.Get("/{deckID}/status", deckHandler.GetDeckStatus)
		})

		// Card data routes
		cardHandler := handlers.NewCardHandler(s.snapshots)
		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.GetCards)
			r.Get("/{code}", cardHandler.GetCard)
			r.Get("/title/{title}", cardHandler.GetCardByTitle)
		})
		r.Get("/sets", cardHandler.GetSets)
		r.Get("/mwl", cardHandler.GetMWL)

		// System routes
		systemHandler := handlers.NewSystemHandler(s.snapshots, s.metrics, s.refresh)
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", systemHandler.GetStatus)
			r.Get("/version", systemHandler.GetVersion)
			r.Get("/metrics", systemHandler.GetMetrics)
			r.Post("/refresh", systemHandler.Refresh)
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "anr-companion-api",
	})
}
