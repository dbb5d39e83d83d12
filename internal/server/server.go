// internal/server/server.go
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/pprof"

	"leadbot/internal/common/errors"
	"leadbot/internal/common/logger"
	"leadbot/internal/common/metrics"
	"leadbot/internal/common/validation"
	"leadbot/internal/models"
	qualifyworkflow "leadbot/internal/pipeline/qualify-workflow"
	"leadbot/internal/store"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxRequestBody = 64 << 10

// Server exposes the chat and admin endpoints over HTTP.
type Server struct {
	workflow   *qualifyworkflow.Workflow
	sessions   store.SessionStore
	replyCache store.ReplyCache
	leadIndex  store.LeadIndex
	logger     logger.Logger
}

func New(
	workflow *qualifyworkflow.Workflow,
	sessions store.SessionStore,
	replyCache store.ReplyCache,
	leadIndex store.LeadIndex,
	log logger.Logger,
) *Server {
	return &Server{
		workflow:   workflow,
		sessions:   sessions,
		replyCache: replyCache,
		leadIndex:  leadIndex,
		logger:     log.WithFields(map[string]interface{}{"component": "http-server"}),
	}
}

// Routes builds the public handler chain.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /admin/sessions", s.handleListSessions)
	mux.HandleFunc("GET /admin/leads/search", s.handleSearchLeads)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return requestID(mux)
}

// requestID tags every response with an id, minting one when the caller did
// not supply it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// DebugRoutes builds the debug mux with metrics and pprof.
func DebugRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.NewRequestInvalidError("unreadable body"))
		return
	}

	if err := validation.ValidateChatRequest(body); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.NewRequestInvalidError(err.Error()))
		return
	}

	var req models.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.NewRequestInvalidError(err.Error()))
		return
	}

	ctx := r.Context()

	state, err := s.sessions.GetOrCreate(ctx, req.UserID, req.SessionID)
	if err != nil {
		s.logger.WithError(err).Error("session load failed", map[string]interface{}{
			"session_id": req.SessionID,
		})
		s.writeError(w, http.StatusInternalServerError, &errors.StandardError{
			Code:    errors.ErrCodeSessionLoadFailed,
			Message: "could not load session",
		})
		return
	}

	language := req.Language
	if language == "" {
		language = state.Language
	}

	// Repeating the same message in the same conversation position serves
	// the cached reply without another model call or state change.
	contextHash := state.SessionID + ":" + state.LastAssistantMessage() + ":" + language
	if cached, ok := s.replyCache.Get(ctx, contextHash, req.UserMessage); ok {
		metrics.ReplyCacheHits.Inc()
		s.writeJSON(w, http.StatusOK, models.ChatResponse{
			Reply:               cached,
			LeadProfile:         state.LeadProfile,
			QualificationStatus: state.Status,
			LeadScore:           state.LeadProfile.LeadScore,
			ModelTier:           state.LastModelTier,
		})
		return
	}

	result, err := s.workflow.RunTurn(ctx, state, req.UserMessage, language)
	if err != nil {
		s.logger.WithError(err).Error("turn failed", map[string]interface{}{
			"session_id": req.SessionID,
		})
		s.writeError(w, http.StatusInternalServerError, &errors.StandardError{
			Code:    errors.ErrCodeResponderFailed,
			Message: "could not process turn",
		})
		return
	}

	if err := s.sessions.Save(ctx, state); err != nil {
		// The turn already happened; answer the user and log the loss.
		s.logger.WithError(err).Error("session save failed", map[string]interface{}{
			"session_id": req.SessionID,
			"code":       errors.ErrCodeSessionSaveFailed,
		})
	}

	if err := s.replyCache.Set(ctx, contextHash, req.UserMessage, result.Reply); err != nil {
		s.logger.Warn("reply cache write failed", map[string]interface{}{
			"session_id": req.SessionID,
			"error":      err.Error(),
		})
	}

	s.writeJSON(w, http.StatusOK, models.ChatResponse{
		Reply:               result.Reply,
		LeadProfile:         result.Profile,
		QualificationStatus: result.Status,
		LeadScore:           result.Score,
		ModelTier:           result.ModelTier,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	states, err := s.sessions.List(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("session list failed", nil)
		s.writeError(w, http.StatusInternalServerError, &errors.StandardError{
			Code:    errors.ErrCodeSessionLoadFailed,
			Message: "could not list sessions",
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(states),
		"sessions": states,
	})
}

func (s *Server) handleSearchLeads(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, errors.NewRequestInvalidError("missing q parameter"))
		return
	}

	profiles, err := s.leadIndex.Search(r.Context(), query)
	if err != nil {
		s.logger.WithError(err).Error("lead search failed", map[string]interface{}{"query": query})
		s.writeError(w, http.StatusInternalServerError, &errors.StandardError{
			Code:    errors.ErrCodeLeadIndexFailed,
			Message: "lead search failed",
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(profiles),
		"leads": profiles,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("response encode failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, stdErr *errors.StandardError) {
	s.writeJSON(w, status, map[string]interface{}{"error": stdErr})
}
