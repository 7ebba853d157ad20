// Copyright 2025 The ScholarServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the paper term suggestion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

ScholarServe provides fast prefix-based term suggestions over an academic
paper corpus, ranked by citation counts. It can operate as a MessagePack
IPC server for integration with editors and search frontends, as a JSON
HTTP service, as an interactive terminal UI, or as a CLI application for
testing and debugging.

The corpus is loaded from an HTTP paper API or a local JSON snapshot and
indexed wholesale into an in-memory trie. Terms are ranked by the citing
weight of the papers that carry them and filtered based on configurable
thresholds to provide relevant suggestions. Reloads swap the index
atomically; a failed reload keeps the previous corpus serving.

# Usage

Start the IPC server with default settings:

	scholarserve

Serve the JSON HTTP API on the configured address:

	scholarserve -http

Run the interactive terminal UI against a local snapshot:

	scholarserve -tui -data data/papers.json

Run in CLI mode for interactive testing:

	scholarserve -c -limit 10 -prmin 2

Rank a single prefix and exit:

	scholarserve -q tran

The data path should point to a papers JSON file as produced by the
corpusclean tool. When a source URL is configured it is tried first and
the local snapshot acts as a fallback.

# Configuration

Runtime configuration is managed through a TOML file that supports
serving parameters, corpus sources, and CLI defaults:

	[server]
	http_addr = ":8080"
	max_limit = 64
	min_prefix = 1
	max_prefix = 60
	enable_filter = true

	[corpus]
	source_url = ""
	data_path = "data/papers.json"
	timeout_ms = 5000
	title_terms = false
	overfetch = 2

	[typeahead]
	debounce_ms = 150
	panel_limit = 10

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Suggestion
requests are processed synchronously with microsecond timing information
included in responses.

Send a suggestion request:

	{"id": "req1", "q": "tran", "l": 20}

Receive terms with citation ranking:

	{"id": "req1", "s": [{"w": "Transformer", "c": 50, "r": 1}, {"w": "transformers", "c": 10, "r": 2}], "c": 2, "t": 145}

Corpus management requests allow runtime rebuilds and health probes:

	{"id": "load1", "op": "reload"}
	{"id": "probe1", "op": "health"}

# HTTP API

HTTP mode serves the same suggestion surface as JSON plus the document
and analytics endpoints the dashboard consumes:

	GET  /api/suggest?q=tran&limit=10
	GET  /api/health
	POST /api/reload
	GET  /api/all
	GET  /api/papers/<id>
	GET  /api/search?q=attention
	GET  /api/analytics/overview
	GET  /api/analytics/top-cited
	GET  /api/analytics/keywords
	GET  /api/analytics/years

Responses carry permissive CORS headers so browser frontends can consume
them directly.

# Server Mode

The default mode starts a MessagePack IPC server that processes
suggestion requests from stdin and writes responses to stdout. This
design enables integration with editors and other applications through
process communication.

	srv := server.NewServer(engine, &cfg.Server)
	err := srv.Start()

The server automatically handles request parsing, validation, and
response formatting. A reload op rebuilds the corpus without a restart.

# TUI Mode

TUI mode runs the reference terminal interface: a search box with a
live suggestion panel, keyboard navigation, and result and detail
screens for committed searches.

	model := tui.NewModel(engine, &cfg.Typeahead)
	program := tea.NewProgram(model, tea.WithAltScreen())

# CLI Mode

CLI mode provides an interactive interface for testing and debugging
the ranker. It reads prefixes from stdin and displays ranked terms with
citation information.

	inputHandler := cli.NewInputHandler(engine.Ranker(), minLen, maxLen, limit, noFilter)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new features
before deploying to server mode. It supports the same filtering and
threshold logic as the servers but with human-readable output.

# Suggestion Engine

The core functionality is provided by the suggest package, which
implements trie-based prefix matching with citation-weighted ranking,
fed by the corpus loader.

	ranker := suggest.NewRanker(overfetch)
	engine := server.NewEngine(ranker, loader, corpus.NewStore())
	suggestions := engine.Suggest("trans", 10)

Every load rebuilds the index from scratch; nothing persists between
sessions. Input filtering removes junk prefixes by default to improve
suggestion relevance, though this can be disabled for debugging.

# Command Line Flags

The following flags control application behavior:

	-config string
	    Path to a TOML config file (default: standard config dir)
	-d  Enable debug mode with detailed logging
	-quiet
	    Only log errors
	-http
	    Serve the JSON HTTP API instead of stdio IPC
	-addr string
	    HTTP listen address (overrides config)
	-tui
	    Run the interactive terminal UI
	-c  Run in CLI mode instead of server mode
	-q string
	    Rank a single prefix and exit
	-limit int
	    Number of suggestions to return (default from config)
	-prmin int
	    Minimum prefix length for suggestions
	-prmax int
	    Maximum prefix length for suggestions
	-no-filter
	    Disable input filtering for debugging
	-data string
	    Path to a papers JSON snapshot
	-url string
	    Base URL of a paper corpus API, tried before the snapshot
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/scholarsearch/scholarserve/internal/cli"
	"github.com/scholarsearch/scholarserve/internal/logger"
	"github.com/scholarsearch/scholarserve/internal/tui"
	"github.com/scholarsearch/scholarserve/internal/utils"
	"github.com/scholarsearch/scholarserve/pkg/config"
	"github.com/scholarsearch/scholarserve/pkg/corpus"
	"github.com/scholarsearch/scholarserve/pkg/server"
	"github.com/scholarsearch/scholarserve/pkg/suggest"
)

const (
	Version = "0.9.0-beta"
	AppName = "scholarserve"
	gh      = "https://github.com/scholarsearch/scholarserve"
)

const initialLoadTimeout = 30 * time.Second

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the servers or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a TOML config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	quietMode := flag.Bool("quiet", false, "Only log errors")
	httpMode := flag.Bool("http", false, "Serve the JSON HTTP API instead of stdio IPC")
	httpAddr := flag.String("addr", defaultConfig.Server.HTTPAddr, "HTTP listen address")
	tuiMode := flag.Bool("tui", false, "Run the interactive terminal UI")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	oneShot := flag.String("q", "", "Rank a single prefix and exit")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to return")
	minPrefix := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum prefix length for suggestions (1 < n <= prmax)")
	maxPrefix := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - ranks all raw corpus terms (numbers, symbols, etc)")
	dataPath := flag.String("data", defaultConfig.Corpus.DataPath, "Path to a papers JSON snapshot")
	sourceURL := flag.String("url", defaultConfig.Corpus.SourceURL, "Base URL of a paper corpus API, tried before the snapshot")

	flag.Parse()

	if *showVersion {
		showVersionInfo()
		os.Exit(0)
	}

	logger.SetVerbosity(*debugMode, *quietMode)
	if *debugMode {
		log.SetReportTimestamp(true)
	}

	appConfig, activePath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activePath))

	// Explicit flags win over the config file; unset ones keep it.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			appConfig.Corpus.DataPath = *dataPath
		case "url":
			appConfig.Corpus.SourceURL = *sourceURL
		case "addr":
			appConfig.Server.HTTPAddr = *httpAddr
		}
	})

	timeout := time.Duration(appConfig.Corpus.TimeoutMs) * time.Millisecond
	var sources []corpus.Source
	var search corpus.Searcher
	if appConfig.Corpus.SourceURL != "" {
		remote := corpus.NewHTTPSource(appConfig.Corpus.SourceURL, timeout)
		sources = append(sources, remote)
		search = remote
	}
	if appConfig.Corpus.DataPath != "" {
		sources = append(sources, corpus.NewFileSource(appConfig.Corpus.DataPath))
	}

	log.Debugf("Init loader: sources=[%d], titleTerms=[%v], overfetch=[%d]",
		len(sources), appConfig.Corpus.TitleTerms, appConfig.Corpus.Overfetch)

	loader := corpus.NewLoader(corpus.Options{TitleTerms: appConfig.Corpus.TitleTerms}, sources...)
	ranker := suggest.NewRanker(appConfig.Corpus.Overfetch)
	engine := server.NewEngine(ranker, loader, corpus.NewStore())

	ctx, cancel := context.WithTimeout(context.Background(), initialLoadTimeout)
	snap, err := engine.Reload(ctx)
	cancel()
	if err != nil {
		log.Warnf("Initial corpus load failed: %v", err)
		log.Warn("Serving an empty corpus until a reload succeeds...")
	} else {
		log.Debugf("Corpus ready: %d papers from (%s)", snap.Len(), snap.Source())
	}

	if *oneShot != "" {
		runOneShot(engine.Ranker(), *oneShot, *limit)
		return
	}

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"limit", *limit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(engine.Ranker(), *minPrefix, *maxPrefix, *limit, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	if *tuiMode {
		model := tui.NewModel(engine, &appConfig.Typeahead)
		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			log.Fatalf("TUI error: %v", err)
		}
		return
	}

	if *httpMode {
		handler := server.NewHandler(engine, &appConfig.Server, search)
		srv := server.NewHTTPServer(appConfig.Server.HTTPAddr, handler)
		showStartupInfo(engine, fmt.Sprintf("http ( %s )", appConfig.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, &appConfig.Server)
	showStartupInfo(engine, "ipc ( stdio )")
	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// runOneShot ranks a single prefix and prints the listing to stdout,
// for shell pipelines and quick checks without the interactive loop.
func runOneShot(ranker suggest.IRanker, prefix string, limit int) {
	start := time.Now()
	suggestions := ranker.Rank(prefix, limit)
	log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(suggestions) == 0 {
		fmt.Printf("no terms for %q\n", prefix)
		return
	}
	for i, s := range suggestions {
		fmt.Printf("%2d. %-40s %s\n", i+1, s.Term, utils.FormatWithCommas(s.Weight))
	}
}

func showVersionInfo() {
	vlog := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()

	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

	vlog.SetStyles(styles)

	vlog.Print("")
	vlog.Print("[ ScholarServe ] Serves really Fast paper term suggestions!")
	vlog.Print("", "version", Version)
	vlog.Print("")
	vlog.Print("use -h or --help to see available options")
	vlog.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(engine *server.Engine, mode string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	snap := engine.Snapshot()
	stats := engine.Stats()

	println("==============")
	println(" ScholarServe ")
	println("==============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("mode: %s", mode)
	log.Infof("corpus: %s papers from ( %s )", utils.FormatWithCommas(snap.Len()), snap.Source())
	log.Infof("index: %s terms", utils.FormatWithCommas(stats["terms"]))
	log.Info("status: ready")
	println("==============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
