package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"symbolstats/internal/registry"
)

// Server serves registry snapshots over HTTP and the hub over /ws.
type Server struct {
	addr   string
	reg    *registry.Registry
	hub    *Hub
	log    zerolog.Logger
	server *http.Server
}

// NewServer creates a feed server listening on addr.
func NewServer(addr string, reg *registry.Registry, hub *Hub, log zerolog.Logger) *Server {
	return &Server{
		addr: addr,
		reg:  reg,
		hub:  hub,
		log:  log.With().Str("component", "feed").Logger(),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /symbols", s.handleSymbols)
	mux.HandleFunc("GET /symbols/{name}", s.handleSymbol)
	mux.HandleFunc("GET /ws", s.hub.ServeWS)
	return mux
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", s.addr).Msg("feed server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "symbols": s.reg.Len(), "clients": s.hub.Clients()})
}

func (s *Server) handleSymbols(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, NewViews(s.reg.Snapshot()))
}

func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	sym, ok := s.reg.Get(r.PathValue("name"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown symbol"})
		return
	}
	writeJSON(w, http.StatusOK, NewView(sym))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
