package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"reelsync/internal/config"
	"reelsync/internal/logging"
	"reelsync/internal/store"
	"reelsync/internal/syncer"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logging.NewComponentLogger(logger, "api"),
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/sync", srv.handleSync)
	mux.HandleFunc("/api/catalog", srv.handleCatalog)
	mux.HandleFunc("/api/movie", srv.handleMovie)
	mux.HandleFunc("/api/movie/", srv.handleMovie)
	mux.HandleFunc("/api/missing", srv.handleMissing)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

type statusResponse struct {
	Provider string         `json:"provider"`
	Syncing  bool           `json:"syncing"`
	LastRun  *time.Time     `json:"last_run,omitempty"`
	LastSync *syncer.Stats  `json:"last_sync,omitempty"`
	LastErr  string         `json:"last_error,omitempty"`
	Status   *syncer.Status `json:"status"`
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status, err := s.daemon.syncer.Status(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	lastStats, lastRun, lastErr := s.daemon.lastOutcome()
	resp := statusResponse{
		Provider: s.daemon.cfg.Provider.Name,
		Syncing:  s.daemon.syncer.Running(),
		LastSync: lastStats,
		Status:   status,
	}
	if !lastRun.IsZero() {
		resp.LastRun = &lastRun
	}
	if lastErr != nil {
		resp.LastErr = lastErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := s.daemon.RunCycle(r.Context())
	switch {
	case errors.Is(err, syncer.ErrSyncInProgress), errors.Is(err, ErrLockHeld):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *apiServer) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	platform := strings.TrimSpace(r.URL.Query().Get("platform"))
	if platform == "" {
		platform = s.daemon.cfg.Provider.Name
	}

	movies, err := s.daemon.store.ListByPlatform(r.Context(), platform)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"platform": platform,
		"count":    len(movies),
		"movies":   movies,
	})
}

// handleMovie serves cached single-movie lookups: /api/movie/<imdb id> or
// /api/movie?title=<title>. Reads honor the configured cache max age, so a
// stale row answers 404 exactly like an absent one.
func (s *apiServer) handleMovie(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	maxAge := time.Duration(s.daemon.cfg.Cache.MaxAgeHours) * time.Hour

	var (
		movie *store.MatchedMovie
		err   error
	)
	imdbID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/movie"), "/")
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	switch {
	case imdbID != "":
		movie, err = s.daemon.store.GetByIMDbID(r.Context(), imdbID, maxAge)
	case title != "":
		movie, err = s.daemon.store.GetByTitle(r.Context(), title, maxAge)
	default:
		writeError(w, http.StatusBadRequest, "imdb id path segment or title query required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if movie == nil {
		writeError(w, http.StatusNotFound, "movie not cached")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (s *apiServer) handleMissing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status, err := s.daemon.syncer.Status(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	lines, err := s.daemon.missingLines()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": status.MissingCount,
		"lines": lines,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
