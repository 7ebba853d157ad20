package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/scholarsearch/scholarserve/internal/utils"
	"github.com/scholarsearch/scholarserve/pkg/config"
)

// reloadTimeout bounds a corpus rebuild triggered over IPC.
const reloadTimeout = 30 * time.Second

// Server handles the msgpack IPC for term suggestions
type Server struct {
	engine  *Engine
	cfg     *config.ServerConfig
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewServer creates a suggestion server using stdin/stdout for IPC
func NewServer(engine *Engine, cfg *config.ServerConfig) *Server {
	return NewServerIO(engine, cfg, os.Stdin, os.Stdout)
}

// NewServerIO creates a suggestion server over the given stream pair
func NewServerIO(engine *Engine, cfg *config.ServerConfig, r io.Reader, w io.Writer) *Server {
	return &Server{
		engine:  engine,
		cfg:     cfg,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		encoder: msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests
func (s *Server) Start() error {
	log.Debug("Starting Server.")

	// Signal that the server is ready
	s.sendResponse(map[string]string{"status": "ready"})

	// incoming requests stdin
	for {
		var request SuggestRequest
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			// Binary framing cannot resync after a bad message,
			// so the session ends here.
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches an incoming request by op
func (s *Server) handleRequest(request SuggestRequest) {
	switch request.Op {
	case "", OpSuggest:
		s.handleSuggest(request)
	case OpReload:
		s.handleReload(request)
	case OpHealth:
		s.handleHealth(request)
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown op: %s", request.Op), 400)
	}
}

//	sendResponse function marshals the given response into msgpack and sends it to the client.
//
// Responses are written to the server's stream in request order.
func (s *Server) sendResponse(response interface{}) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	errResponse := SuggestError{
		ID:    id,
		Error: message,
		Code:  code,
	}
	s.sendResponse(errResponse)
}

// handleSuggest processes a suggestion request. It validates the query
// against the configured prefix bounds, applies the input filter when
// enabled, clamps the limit, then asks the engine for ranked terms.
func (s *Server) handleSuggest(request SuggestRequest) {
	query := strings.TrimSpace(request.Query)

	if query == "" {
		s.sendError(request.ID, "Missing 'q' parameter", 400)
		log.Debug("Query is empty in request")
		return
	}

	if len(query) < s.cfg.MinPrefix {
		s.sendError(request.ID, fmt.Sprintf("Query must be at least %d characters", s.cfg.MinPrefix), 400)
		log.Debug("Query is too short in request")
		return
	}

	if len(query) > s.cfg.MaxPrefix {
		s.sendError(request.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.cfg.MaxPrefix), 400)
		log.Debug("Query is too long in request")
		return
	}

	// Junk input (digits only, special chars, repeats) yields an empty
	// result rather than an error, so typing clients never surface it.
	if s.cfg.EnableFilter && !utils.IsValidInput(query) {
		s.sendResponse(SuggestResponse{ID: request.ID, Suggestions: []SuggestEntry{}})
		return
	}

	limit := request.Limit
	if limit < 1 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	start := time.Now()
	results := s.engine.Suggest(query, limit)
	elapsed := time.Since(start)

	entries := make([]SuggestEntry, len(results))
	for i, r := range results {
		entries[i] = SuggestEntry{
			Term:      r.Term,
			Citations: r.Weight,
			Rank:      uint16(i + 1),
		}
	}

	s.sendResponse(SuggestResponse{
		ID:          request.ID,
		Suggestions: entries,
		Count:       len(entries),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// handleReload rebuilds the corpus and reports the fresh counts
func (s *Server) handleReload(request SuggestRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	snap, err := s.engine.Reload(ctx)
	if err != nil {
		s.sendResponse(ReloadResponse{ID: request.ID, Status: "error", Error: err.Error()})
		return
	}
	s.sendResponse(ReloadResponse{
		ID:     request.ID,
		Status: "ok",
		Docs:   snap.Len(),
		Terms:  snap.Lexicon().TermCount(),
		Source: snap.Source(),
	})
}

// handleHealth reports the published snapshot's counts
func (s *Server) handleHealth(request SuggestRequest) {
	snap := s.engine.Snapshot()
	s.sendResponse(HealthResponse{
		ID:     request.ID,
		Status: "ok",
		Docs:   snap.Len(),
		Terms:  snap.Lexicon().TermCount(),
		Source: snap.Source(),
	})
}
