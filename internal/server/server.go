// Package server exposes a table session over a small JSON API. It is the
// transport shim between the selection engine and whatever renders the
// table; no presentation logic lives here.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/Yash3470/art-table/pkg/prefetch"
	"github.com/Yash3470/art-table/pkg/session"
	"github.com/Yash3470/art-table/pkg/source"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// noticeRecorder keeps the most recent notification so API responses can
// carry it back to the caller.
type noticeRecorder struct {
	session.NopEvents

	mu     sync.Mutex
	level  session.NoticeLevel
	notice string
}

func (n *noticeRecorder) Notify(level session.NoticeLevel, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.level = level
	n.notice = msg
}

func (n *noticeRecorder) last() (session.NoticeLevel, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.level, n.notice
}

// Server serves the session API.
type Server struct {
	sess    *session.Session
	notices *noticeRecorder
	logger  zerolog.Logger
}

// New creates a server over a fresh session backed by the given page source.
func New(src prefetch.PageSource) *Server {
	notices := &noticeRecorder{}
	return &Server{
		sess:    session.New(src, notices),
		notices: notices,
		logger:  log.With().Str("component", "server").Logger(),
	}
}

// Session returns the underlying session (for tests).
func (s *Server) Session() *session.Session {
	return s.sess
}

// Handler returns the HTTP handler for the session API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/page", s.handlePage)
	mux.HandleFunc("/api/selection", s.handleSelection)
	mux.HandleFunc("/api/bulk-select", s.handleBulkSelect)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// pageResponse is the view the UI renders: the page, its checked rows and
// the global selection size.
type pageResponse struct {
	SessionID string          `json:"session_id"`
	Page      *source.Page    `json:"page"`
	Checked   []source.Record `json:"checked"`
	Selected  int             `json:"selected_total"`
	Notice    string          `json:"notice,omitempty"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	n, err := strconv.Atoi(r.URL.Query().Get("n"))
	if err != nil || n < 1 {
		http.Error(w, "query parameter n must be a positive page number", http.StatusBadRequest)
		return
	}

	if err := s.sess.PageChanged(r.Context(), n); err != nil {
		http.Error(w, fmt.Sprintf("page load failed: %v", err), http.StatusBadGateway)
		return
	}

	s.writePageView(w)
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, map[string]any{
			"session_id":     s.sess.ID().String(),
			"selected":       s.sess.Store().Snapshot(),
			"selected_total": s.sess.Store().Size(),
		})

	case http.MethodPost:
		// The UI reports the complete checked set for the current page,
		// never a delta.
		var body struct {
			Checked []source.Record `json:"checked"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, fmt.Sprintf("decode body: %v", err), http.StatusBadRequest)
			return
		}

		s.sess.SelectionEdited(body.Checked)
		s.writePageView(w)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleBulkSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("decode body: %v", err), http.StatusBadRequest)
		return
	}

	err := s.sess.BulkSelectRequested(r.Context(), body.Count)
	switch {
	case errors.Is(err, session.ErrInvalidCount):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, session.ErrBulkInFlight):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writePageView(w)
}

func (s *Server) writePageView(w http.ResponseWriter) {
	_, notice := s.notices.last()
	s.writeJSON(w, http.StatusOK, pageResponse{
		SessionID: s.sess.ID().String(),
		Page:      s.sess.CurrentPage(),
		Checked:   s.sess.Checked(),
		Selected:  s.sess.Store().Size(),
		Notice:    notice,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write response")
	}
}
