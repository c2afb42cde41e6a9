package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Filings
	mux.HandleFunc("/api/filings", s.app.FilingsHandler.ListHandler) // GET - list with optional enrichment
	mux.HandleFunc("/api/filings/", s.handleFilingRoutes)            // GET /{id}

	// API routes - Monitor
	mux.HandleFunc("/api/monitor/trigger", s.app.MonitorHandler.TriggerHandler) // POST - run a cycle now
	mux.HandleFunc("/api/monitor/last", s.app.MonitorHandler.LastCycleHandler)  // GET - last cycle result

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Catch-all for unknown API paths
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleFilingRoutes dispatches /api/filings/{id}
func (s *Server) handleFilingRoutes(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/filings/")
	if id == "" || strings.Contains(id, "/") {
		s.app.APIHandler.NotFoundHandler(w, r)
		return
	}

	s.app.FilingsHandler.GetHandler(w, r, id)
}
