package server_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/scholarsearch/scholarserve/pkg/config"
	"github.com/scholarsearch/scholarserve/pkg/corpus"
	"github.com/scholarsearch/scholarserve/pkg/server"
	"github.com/scholarsearch/scholarserve/pkg/suggest"
)

func init() {
	log.SetLevel(log.FatalLevel)
}

type stubSource struct {
	name    string
	docs    []corpus.Document
	err     error
	fetches atomic.Int32
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchAll(_ context.Context) ([]corpus.Document, error) {
	s.fetches.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.docs, nil
}

// paperFixture is three papers: gpt3 cites both others, so resnet picks
// up an effective citation count of 1 from the graph while attention
// keeps its larger source-provided 50.
func paperFixture() []corpus.Document {
	return []corpus.Document{
		{
			ID:        "attention-2017",
			Title:     "Attention Is All You Need",
			Year:      2017,
			Keywords:  []string{"Transformer", "Attention"},
			Citations: 50,
		},
		{
			ID:       "resnet-2015",
			Title:    "Deep Residual Learning",
			Year:     2015,
			Keywords: []string{"Residual Learning", "Vision"},
		},
		{
			ID:         "gpt3-2020",
			Title:      "Language Models are Few-Shot Learners",
			Year:       2020,
			Keywords:   []string{"Transformers", "Attention Heads", "Language Models"},
			References: []string{"attention-2017", "resnet-2015"},
		},
	}
}

func newTestEngine(t *testing.T) (*server.Engine, *stubSource) {
	t.Helper()
	src := &stubSource{name: "stub", docs: paperFixture()}
	loader := corpus.NewLoader(corpus.Options{}, src)
	engine := server.NewEngine(suggest.NewRanker(2), loader, corpus.NewStore())
	if _, err := engine.Reload(context.Background()); err != nil {
		t.Fatalf("initial load: %v", err)
	}
	return engine, src
}

// runScript feeds the requests to a server over in-memory pipes, waits
// for EOF, consumes the ready signal and returns a decoder positioned at
// the first response.
func runScript(t *testing.T, engine *server.Engine, cfg *config.ServerConfig, requests ...interface{}) *msgpack.Decoder {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		if err := enc.Encode(req); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}

	var out bytes.Buffer
	srv := server.NewServerIO(engine, cfg, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(bytes.NewReader(out.Bytes()))
	var ready map[string]string
	if err := dec.Decode(&ready); err != nil {
		t.Fatalf("decoding ready signal: %v", err)
	}
	if ready["status"] != "ready" {
		t.Fatalf("ready signal = %v, want status ready", ready)
	}
	return dec
}

func TestServerSuggestRoundTrip(t *testing.T) {
	engine, _ := newTestEngine(t)
	cfg := &config.DefaultConfig().Server

	// No op set: suggest is the default.
	dec := runScript(t, engine, cfg, server.SuggestRequest{ID: "req_001", Query: "trans", Limit: 5})

	var resp server.SuggestResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID != "req_001" {
		t.Errorf("ID = %q, want req_001", resp.ID)
	}
	if resp.Count != 2 || len(resp.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2: %+v", len(resp.Suggestions), resp.Suggestions)
	}
	first := resp.Suggestions[0]
	if first.Term != "Transformer" || first.Citations != 50 || first.Rank != 1 {
		t.Errorf("first = %+v, want Transformer/50/rank 1", first)
	}
	second := resp.Suggestions[1]
	if second.Term != "Transformers" || second.Rank != 2 {
		t.Errorf("second = %+v, want Transformers at rank 2", second)
	}
	if resp.TimeTaken < 0 {
		t.Errorf("TimeTaken = %d, want non-negative", resp.TimeTaken)
	}
}

func TestServerRejectsBadRequests(t *testing.T) {
	engine, _ := newTestEngine(t)
	cfg := &config.DefaultConfig().Server

	dec := runScript(t, engine, cfg,
		server.SuggestRequest{ID: "e1"},
		server.SuggestRequest{ID: "e2", Query: strings.Repeat("a", 61)},
		server.SuggestRequest{ID: "e3", Op: "frobnicate", Query: "x"},
	)

	wantIDs := []string{"e1", "e2", "e3"}
	for _, id := range wantIDs {
		var fail server.SuggestError
		if err := dec.Decode(&fail); err != nil {
			t.Fatalf("decoding error for %s: %v", id, err)
		}
		if fail.ID != id || fail.Code != 400 || fail.Error == "" {
			t.Errorf("error = %+v, want id %s with code 400", fail, id)
		}
	}
}

func TestServerPrefixBounds(t *testing.T) {
	engine, _ := newTestEngine(t)
	cfg := &config.DefaultConfig().Server
	cfg.MinPrefix = 3
	cfg.MaxPrefix = 10

	dec := runScript(t, engine, cfg,
		server.SuggestRequest{ID: "short", Query: "ab"},
		server.SuggestRequest{ID: "long", Query: "abcdefghijk"},
	)

	var tooShort server.SuggestError
	if err := dec.Decode(&tooShort); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tooShort.Error, "at least 3") {
		t.Errorf("short error = %q, want the minimum mentioned", tooShort.Error)
	}
	var tooLong server.SuggestError
	if err := dec.Decode(&tooLong); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tooLong.Error, "maximum") {
		t.Errorf("long error = %q, want the maximum mentioned", tooLong.Error)
	}
}

func TestServerClampsLimits(t *testing.T) {
	engine, _ := newTestEngine(t)
	cfg := &config.DefaultConfig().Server
	cfg.MaxLimit = 1
	cfg.DefaultLimit = 5

	dec := runScript(t, engine, cfg,
		server.SuggestRequest{ID: "capped", Query: "trans", Limit: 50},
		server.SuggestRequest{ID: "defaulted", Query: "attention"},
	)

	var capped server.SuggestResponse
	if err := dec.Decode(&capped); err != nil {
		t.Fatal(err)
	}
	if capped.Count != 1 || capped.Suggestions[0].Term != "Transformer" {
		t.Errorf("capped = %+v, want only the heaviest term", capped.Suggestions)
	}

	// Absent limit falls back to the default, which the max still caps.
	var defaulted server.SuggestResponse
	if err := dec.Decode(&defaulted); err != nil {
		t.Fatal(err)
	}
	if defaulted.Count != 1 || defaulted.Suggestions[0].Term != "Attention" {
		t.Errorf("defaulted = %+v, want only Attention", defaulted.Suggestions)
	}
}

func TestServerFiltersJunkQueries(t *testing.T) {
	engine, _ := newTestEngine(t)
	cfg := &config.DefaultConfig().Server

	dec := runScript(t, engine, cfg,
		server.SuggestRequest{ID: "digits", Query: "12345"},
		server.SuggestRequest{ID: "repeat", Query: "aaaa"},
	)

	for _, id := range []string{"digits", "repeat"} {
		var resp server.SuggestResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("decoding %s: %v", id, err)
		}
		if resp.ID != id || resp.Count != 0 || len(resp.Suggestions) != 0 {
			t.Errorf("%s = %+v, want an empty result, not an error", id, resp)
		}
	}
}

func TestServerHealthAndReload(t *testing.T) {
	engine, src := newTestEngine(t)
	cfg := &config.DefaultConfig().Server

	dec := runScript(t, engine, cfg,
		server.SuggestRequest{ID: "h1", Op: server.OpHealth},
		server.SuggestRequest{ID: "r1", Op: server.OpReload},
	)

	var health server.HealthResponse
	if err := dec.Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "ok" || health.Docs != 3 || health.Terms != 7 || health.Source != "stub" {
		t.Errorf("health = %+v, want ok/3 docs/7 terms from stub", health)
	}

	var reload server.ReloadResponse
	if err := dec.Decode(&reload); err != nil {
		t.Fatal(err)
	}
	if reload.Status != "ok" || reload.Docs != 3 || reload.Terms != 7 {
		t.Errorf("reload = %+v, want ok with fresh counts", reload)
	}
	if got := src.fetches.Load(); got != 2 {
		t.Errorf("source fetched %d times, want 2 (boot + reload)", got)
	}
}

func TestServerReloadFailureKeepsSnapshot(t *testing.T) {
	engine, src := newTestEngine(t)
	cfg := &config.DefaultConfig().Server
	src.err = errors.New("upstream down")

	dec := runScript(t, engine, cfg,
		server.SuggestRequest{ID: "r1", Op: server.OpReload},
		server.SuggestRequest{ID: "h1", Op: server.OpHealth},
	)

	var reload server.ReloadResponse
	if err := dec.Decode(&reload); err != nil {
		t.Fatal(err)
	}
	if reload.Status != "error" || reload.Error == "" {
		t.Errorf("reload = %+v, want an error status", reload)
	}

	// The previous snapshot must still be serving.
	var health server.HealthResponse
	if err := dec.Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Docs != 3 {
		t.Errorf("docs after failed reload = %d, want 3", health.Docs)
	}
}
