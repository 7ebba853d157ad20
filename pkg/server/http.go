package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/scholarsearch/scholarserve/internal/utils"
	"github.com/scholarsearch/scholarserve/pkg/analytics"
	"github.com/scholarsearch/scholarserve/pkg/config"
	"github.com/scholarsearch/scholarserve/pkg/corpus"
	"github.com/scholarsearch/scholarserve/pkg/suggest"
)

// topCitedDefault is how many papers /api/analytics/top-cited serves
// when no limit parameter is given.
const topCitedDefault = 10

// Handler serves the JSON API over the engine.
type Handler struct {
	engine *Engine
	cfg    *config.ServerConfig
	search corpus.Searcher
}

// NewHandler creates the HTTP handler set. search is the upstream search
// backend /api/search passes queries through to; nil falls back to the
// local snapshot filter.
func NewHandler(engine *Engine, cfg *config.ServerConfig, search corpus.Searcher) *Handler {
	return &Handler{engine: engine, cfg: cfg, search: search}
}

// Routes registers the API endpoints on the given mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/suggest", h.handleSuggest)
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/reload", h.handleReload)
	mux.HandleFunc("/api/all", h.handleAllPapers)
	mux.HandleFunc("/api/papers/", h.handlePaperDetail)
	mux.HandleFunc("/api/search", h.handleSearch)
	mux.HandleFunc("/api/analytics/overview", h.handleOverview)
	mux.HandleFunc("/api/analytics/top-cited", h.handleTopCited)
	mux.HandleFunc("/api/analytics/keywords", h.handleKeywords)
	mux.HandleFunc("/api/analytics/years", h.handleYears)
}

// NewHTTPServer builds the http.Server serving the API on addr.
func NewHTTPServer(addr string, h *Handler) *http.Server {
	mux := http.NewServeMux()
	h.Routes(mux)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeCORSHeaders(w http.ResponseWriter) {
	w.Header().Add("Access-Control-Allow-Origin", "*")
	w.Header().Add("Access-Control-Allow-Methods", "OPTIONS,POST,GET")
}

func reportError(w http.ResponseWriter, status int, message string) {
	writeCORSHeaders(w)
	w.WriteHeader(status)
	if _, err := w.Write([]byte(message)); err != nil {
		log.Errorf("cannot write a message: %v", err)
	}
}

func reportSuccessData(w http.ResponseWriter, data interface{}) {
	j, err := json.Marshal(data)
	if err != nil {
		reportError(w, http.StatusInternalServerError, fmt.Sprintf("%v", err))
		return
	}
	var b bytes.Buffer
	if err := json.Indent(&b, j, "", "  "); err != nil {
		reportError(w, http.StatusInternalServerError, fmt.Sprintf("%v", err))
		return
	}
	writeCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(b.Bytes()); err != nil {
		log.Errorf("cannot write a message: %v", err)
	}
}

// handleSuggest serves GET /api/suggest?q=&limit=. A blank query yields
// an empty array, mirroring the empty-query contract of the engine.
func (h *Handler) handleSuggest(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		reportSuccessData(w, []suggest.Suggestion{})
		return
	}
	if len(query) < h.cfg.MinPrefix || len(query) > h.cfg.MaxPrefix {
		reportError(w, http.StatusBadRequest,
			fmt.Sprintf("query length must be between %d and %d characters", h.cfg.MinPrefix, h.cfg.MaxPrefix))
		return
	}
	if h.cfg.EnableFilter && !utils.IsValidInput(query) {
		reportSuccessData(w, []suggest.Suggestion{})
		return
	}

	limit := h.cfg.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			reportError(w, http.StatusBadRequest, "parameter 'limit' must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > h.cfg.MaxLimit {
		limit = h.cfg.MaxLimit
	}

	results := h.engine.Suggest(query, limit)
	if results == nil {
		results = []suggest.Suggestion{}
	}
	reportSuccessData(w, results)
}

type healthPayload struct {
	Status string `json:"status"`
	Docs   int    `json:"docs"`
	Terms  int    `json:"terms"`
	Source string `json:"source"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := h.engine.Snapshot()
	reportSuccessData(w, healthPayload{
		Status: "ok",
		Docs:   snap.Len(),
		Terms:  snap.Lexicon().TermCount(),
		Source: snap.Source(),
	})
}

type reloadPayload struct {
	Status string `json:"status"`
	Docs   int    `json:"docs"`
	Terms  int    `json:"terms"`
	Source string `json:"source"`
}

// handleReload serves POST /api/reload: rebuild the corpus and report
// the fresh counts. A failed rebuild keeps the previous snapshot live.
func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		reportError(w, http.StatusMethodNotAllowed, "reload requires POST")
		return
	}
	snap, err := h.engine.Reload(r.Context())
	if err != nil {
		reportError(w, http.StatusBadGateway, fmt.Sprintf("reload failed: %v", err))
		return
	}
	reportSuccessData(w, reloadPayload{
		Status: "ok",
		Docs:   snap.Len(),
		Terms:  snap.Lexicon().TermCount(),
		Source: snap.Source(),
	})
}

// handleAllPapers serves GET /api/all: every document with its effective
// citation count, the collection one instance serves as another's source.
func (h *Handler) handleAllPapers(w http.ResponseWriter, _ *http.Request) {
	docs := h.engine.Snapshot().Documents()
	if docs == nil {
		docs = []corpus.Document{}
	}
	reportSuccessData(w, docs)
}

type paperPayload struct {
	corpus.Document
	Influence float64 `json:"influence"`
}

// handlePaperDetail serves GET /api/papers/<id>: the document plus its
// influence score, the normalized PageRank scaled to 100 and rounded to
// four decimals as the original detail page displayed it.
func (h *Handler) handlePaperDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/papers/")
	if id == "" || strings.Contains(id, "/") {
		reportError(w, http.StatusNotFound, "paper not found")
		return
	}
	snap := h.engine.Snapshot()
	doc, ok := snap.Document(id)
	if !ok {
		reportError(w, http.StatusNotFound, fmt.Sprintf("no paper with id %q", id))
		return
	}
	influence := math.Round(snap.Graph().Score(id)*100*1e4) / 1e4
	reportSuccessData(w, paperPayload{Document: doc, Influence: influence})
}

// handleSearch serves GET /api/search?q=. Queries pass through to the
// upstream search backend when one is configured; otherwise the local
// title/keyword filter over the snapshot answers.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		reportSuccessData(w, []corpus.Document{})
		return
	}
	if h.search != nil {
		docs, err := h.search.Search(r.Context(), query)
		if err == nil {
			if docs == nil {
				docs = []corpus.Document{}
			}
			reportSuccessData(w, docs)
			return
		}
		log.Warnf("upstream search failed, serving local filter: %v", err)
	}
	docs := h.engine.Snapshot().Search(query)
	if docs == nil {
		docs = []corpus.Document{}
	}
	reportSuccessData(w, docs)
}

func (h *Handler) handleOverview(w http.ResponseWriter, _ *http.Request) {
	reportSuccessData(w, analytics.Overview(h.engine.Snapshot().Documents()))
}

func (h *Handler) handleTopCited(w http.ResponseWriter, r *http.Request) {
	limit := topCitedDefault
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	top := analytics.TopCited(h.engine.Snapshot().Documents(), limit)
	if top == nil {
		top = []analytics.CitedPaper{}
	}
	reportSuccessData(w, top)
}

func (h *Handler) handleKeywords(w http.ResponseWriter, _ *http.Request) {
	stats := analytics.KeywordStats(h.engine.Snapshot().Documents())
	if stats == nil {
		stats = []analytics.KeywordStat{}
	}
	reportSuccessData(w, stats)
}

func (h *Handler) handleYears(w http.ResponseWriter, _ *http.Request) {
	years := analytics.YearDistribution(h.engine.Snapshot().Documents())
	if years == nil {
		years = []analytics.YearCount{}
	}
	reportSuccessData(w, years)
}
