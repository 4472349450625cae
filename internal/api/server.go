package api

import (
	"encoding/json"
	"net/http"

	"crypto-calc/internal/config"
	"crypto-calc/internal/ledger"
	"crypto-calc/internal/prices"
	"crypto-calc/internal/state"
)

// Server is the HTTP API that connects the calculator engine, the
// comparison ledger, and the price feed for the browser UI.
type Server struct {
	cfg    *config.Config
	ledger *ledger.Ledger
	state  *state.Manager
	prices *prices.Service
}

// NewServer creates a Server over the given collaborators.
func NewServer(cfg *config.Config, led *ledger.Ledger, st *state.Manager, svc *prices.Service) *Server {
	return &Server{cfg: cfg, ledger: led, state: st, prices: svc}
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/tokens", s.handleGetTokens)
	mux.HandleFunc("POST /api/prices/refresh", s.handleRefreshPrices)
	mux.HandleFunc("POST /api/calculate", s.handleCalculate)
	mux.HandleFunc("GET /api/inputs/{tokenID}", s.handleGetInputs)
	mux.HandleFunc("PUT /api/inputs/{tokenID}", s.handlePutInputs)
	mux.HandleFunc("GET /api/session", s.handleGetSession)
	mux.HandleFunc("PUT /api/session", s.handlePutSession)
	mux.HandleFunc("GET /api/comparison", s.handleGetComparison)
	mux.HandleFunc("POST /api/comparison", s.handleAddComparison)
	mux.HandleFunc("DELETE /api/comparison/{id}", s.handleDeleteComparison)
	mux.HandleFunc("POST /api/comparison/clear", s.handleClearComparison)
	mux.HandleFunc("GET /api/comparison/sort", s.handleGetSortPreference)
	mux.HandleFunc("PUT /api/comparison/sort", s.handlePutSortPreference)
	return s.corsMiddleware(mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSAllowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
