// Command corpusclean enforces the minimal papers JSON schema: it backs
// up the file, strips runtime-only fields, and fills required keys with
// safe defaults. Safe to run multiple times.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var (
	requiredStringFields = []string{"abstract", "title", "id"}
	requiredListFields   = []string{"authors", "keywords", "references"}
)

func main() {
	file := flag.String("file", filepath.Join("data", "papers.json"), "Path to the papers JSON file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	flag.Parse()

	if *debugMode {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if err := run(*file); err != nil {
		log.Fatalf("corpusclean: %v", err)
	}
	log.Info("Done.")
}

func run(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read papers file: %w", err)
	}

	backup := fmt.Sprintf("%s.bak.%s", path, time.Now().Format("20060102T150405"))
	if err := os.WriteFile(backup, raw, 0o644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	log.Infof("Backup created: %s", backup)

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("papers file must be a JSON array: %w", err)
	}

	papers := make([]map[string]any, len(entries))
	for i, entry := range entries {
		var p map[string]any
		if err := json.Unmarshal(entry, &p); err != nil {
			return fmt.Errorf("paper at index %d is not an object: %w", i, err)
		}
		papers[i] = p
	}

	changed := false
	for _, p := range papers {
		if cleanPaper(p) {
			changed = true
		}
	}

	if !changed {
		log.Info("No changes needed. Dataset already clean.")
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(papers); err != nil {
		return fmt.Errorf("encode papers: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write papers file: %w", err)
	}
	log.Info("Papers file cleaned and updated successfully.")
	return nil
}

// cleanPaper normalizes one entry in place and reports whether it
// changed anything. citations_count is runtime-only: counts come from
// the citation graph when the corpus is served, never from the file.
func cleanPaper(p map[string]any) bool {
	changed := false

	if _, ok := p["citations_count"]; ok {
		delete(p, "citations_count")
		changed = true
	}

	for _, field := range requiredStringFields {
		if v, ok := p[field]; !ok || v == nil {
			p[field] = ""
			changed = true
		}
	}

	for _, field := range requiredListFields {
		if v, ok := p[field]; !ok || v == nil {
			p[field] = []any{}
			changed = true
			continue
		}
		if _, ok := p[field].([]any); !ok {
			p[field] = []any{}
			changed = true
		}
	}

	for key, value := range p {
		if s, ok := value.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != s {
				p[key] = trimmed
				changed = true
			}
		}
	}

	return changed
}
