// Package httpapi exposes the chat endpoint that turns a user message into a
// reply script with synthesized audio and lip-sync timelines.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/normanking/virtualfriend/internal/llm"
	"github.com/normanking/virtualfriend/internal/observability"
	"github.com/normanking/virtualfriend/internal/script"
)

// Enricher attaches audio and lip-sync timelines to a scripted reply.
type Enricher interface {
	EnrichReply(ctx context.Context, segments []script.Segment, gender string) ([]script.Segment, error)
}

// Server wires the chat pipeline behind the HTTP surface.
type Server struct {
	completer llm.Completer
	assembler *script.Assembler
	enricher  Enricher
	intro     script.Segment
	metrics   *observability.Metrics
	log       zerolog.Logger

	// busy implements the reject-while-busy policy: one reply is built at a
	// time, concurrent chat requests are turned away instead of queued.
	busy atomic.Bool
}

// New builds a Server. The intro segment is loaded once at startup and served
// unchanged for every empty-message request.
func New(completer llm.Completer, assembler *script.Assembler, enricher Enricher, intro script.Segment, metrics *observability.Metrics, log zerolog.Logger) *Server {
	return &Server{
		completer: completer,
		assembler: assembler,
		enricher:  enricher,
		intro:     intro,
		metrics:   metrics,
		log:       log.With().Str("component", "httpapi").Logger(),
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.Handler().ServeHTTP(w, r)
	})
	r.Post("/chat", s.handleChat)
	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Virtual Teacher Backend with Azure Lip Sync")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type chatRequest struct {
	Message string `json:"message"`
	Gender  string `json:"gender"`
}

type chatResponse struct {
	Messages []script.Segment `json:"messages"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.log.Warn().Err(err).Msg("unreadable chat request body")
	}

	if req.Message == "" {
		s.metrics.ChatRequests.WithLabelValues("intro").Inc()
		respondJSON(w, http.StatusOK, chatResponse{Messages: []script.Segment{s.intro}})
		return
	}

	if !s.busy.CompareAndSwap(false, true) {
		s.metrics.ChatRequests.WithLabelValues("busy").Inc()
		respondJSON(w, http.StatusTooManyRequests, chatResponse{
			Messages: []script.Segment{script.ApologySegment()},
		})
		return
	}
	defer s.busy.Store(false)

	completion, err := s.completer.Complete(r.Context(), llm.BuildTeacherPrompt(req.Message))
	if err != nil {
		s.log.Error().Err(err).Msg("completion failed")
		s.metrics.ProviderErrors.WithLabelValues("llm").Inc()
		s.respondApology(w)
		return
	}

	segments := s.assembler.Parse(completion)

	enriched, err := s.enricher.EnrichReply(r.Context(), segments, req.Gender)
	if err != nil {
		s.log.Error().Err(err).Msg("reply enrichment failed")
		s.respondApology(w)
		return
	}
	s.metrics.SegmentsPerReply.Observe(float64(len(enriched)))
	s.metrics.ChatRequests.WithLabelValues("ok").Inc()

	respondJSON(w, http.StatusOK, chatResponse{Messages: enriched})
}

// respondApology collapses every unrecovered failure class into the same
// fixed apology reply, so the client always reaches a terminal playback
// state.
func (s *Server) respondApology(w http.ResponseWriter) {
	s.metrics.ChatRequests.WithLabelValues("error").Inc()
	respondJSON(w, http.StatusInternalServerError, chatResponse{
		Messages: []script.Segment{script.ApologySegment()},
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
