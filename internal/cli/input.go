// Package cli handles cmd line input and ranked terms for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/scholarsearch/scholarserve/internal/utils"
	"github.com/scholarsearch/scholarserve/pkg/suggest"
)

// InputHandler processes user input from stdin, printing ranked term
// suggestions. It accepts many flags to control behavior such as
// minimum and maximum prefix length, suggestion limits, and filtering options.
type InputHandler struct {
	ranker          suggest.IRanker
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(ranker suggest.IRanker, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	return &InputHandler{
		ranker:          ranker,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to the handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	log.Print("ScholarServe CLI [BETA]")
	stats := h.ranker.Stats()
	log.Printf("%s terms indexed", utils.FormatWithCommas(stats["terms"]))
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a prefix and press Enter to see the ranked terms (Ctrl+C to exit):")

	for {
		log.Print("> ")
		prefix, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		h.handleInput(prefix)
	}
}

// handleInput processes a single prefix to generate ranked terms.
// It validates the prefix's length and content, then asks the ranker
// for suggestions. Results are formatted and printed to the log.
func (h *InputHandler) handleInput(prefix string) {
	if len(prefix) < h.minPrefixLength {
		log.Errorf("Prefix too short: %s", prefix)
		return
	}

	if len(prefix) > h.maxPrefixLength {
		log.Errorf("Prefix too long: %s", prefix)
		return
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter {
		if !utils.IsValidInput(prefix) {
			log.Infof("No results found for prefix: '%s'", prefix)
			return
		}
	} else {
		log.Debug("Input filtering disabled - ranking all entries")
	}

	start := time.Now()

	log.Debug("Processing request for", "prefix", prefix)

	suggestions := h.ranker.Rank(prefix, h.suggestLimit)

	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)

	if len(suggestions) == 0 {
		log.Warnf("No terms found for prefix: '%s'", prefix)
		return
	}

	log.Printf("Found %d terms for prefix '%s':", len(suggestions), prefix)
	for i, s := range suggestions {
		fmtWeight := utils.FormatWithCommas(s.Weight)
		clTerm := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Term)
		log.Printf("%2d. %-40s (citations: %8s)", i+1, clTerm, fmtWeight)
	}
}
