// Package corpus loads the paper collection, normalizes its documents,
// and builds everything the suggestion engine and analytics read: the
// term lexicon and the citation graph, bundled as an immutable Snapshot.
package corpus

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Document is one paper record. The JSON shape matches the backend
// dataset; absent optional fields decode to zero values and are treated
// as empty.
type Document struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Year       int      `json:"year,omitempty"`
	Keywords   []string `json:"keywords"`
	Abstract   string   `json:"abstract"`
	References []string `json:"references"`
	Link       string   `json:"link,omitempty"`
	Citations  int      `json:"citations_count"`

	// Alternate link carriers seen in raw datasets. Normalize folds them
	// into Link and clears them, so they are never re-emitted.
	URL       string `json:"url,omitempty"`
	PDF       string `json:"pdf,omitempty"`
	PaperURL  string `json:"paper_url,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
	Website   string `json:"website,omitempty"`
	DOI       string `json:"doi,omitempty"`
	Arxiv     string `json:"arxiv,omitempty"`
	ArxivID   string `json:"arxiv_id,omitempty"`
}

// Normalize cleans a freshly decoded document in place: strips markup
// from scraped text fields, guarantees non-nil list fields, clamps the
// citation count, and resolves the external link from whichever carrier
// field the dataset used.
func (d *Document) Normalize(sanitize *bluemonday.Policy) {
	d.ID = strings.TrimSpace(d.ID)
	d.Title = strings.TrimSpace(sanitizeText(sanitize, d.Title))
	d.Abstract = strings.TrimSpace(sanitizeText(sanitize, d.Abstract))
	if d.Authors == nil {
		d.Authors = []string{}
	}
	if d.Keywords == nil {
		d.Keywords = []string{}
	}
	if d.References == nil {
		d.References = []string{}
	}
	if d.Citations < 0 {
		d.Citations = 0
	}
	d.resolveLink()
}

// sanitizeText strips any markup and returns plain text. Sanitizing
// entity-escapes the survivors, so the escape is undone afterwards.
func sanitizeText(p *bluemonday.Policy, s string) string {
	return html.UnescapeString(p.Sanitize(s))
}

// resolveLink picks the external link: the first populated carrier
// field wins, then a DOI, then an arXiv id. The winner still has to
// survive NormalizeURL.
func (d *Document) resolveLink() {
	candidate := firstNonBlank(d.Link, d.URL, d.PDF, d.PaperURL, d.SourceURL, d.Website)
	if candidate == "" {
		if doi := strings.TrimSpace(d.DOI); doi != "" {
			candidate = "https://doi.org/" + doi
		}
	}
	if candidate == "" {
		if arx := firstNonBlank(d.Arxiv, d.ArxivID); arx != "" {
			candidate = "https://arxiv.org/abs/" + strings.TrimSpace(arx)
		}
	}
	d.Link = NormalizeURL(candidate)

	d.URL, d.PDF, d.PaperURL, d.SourceURL, d.Website = "", "", "", "", ""
	d.DOI, d.Arxiv, d.ArxivID = "", "", ""
}

// NormalizeURL validates and normalizes an external URL. Anything with
// an explicit scheme and host passes through; a bare domain gets an
// https prefix; everything else is dropped and returns "".
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if parsed, err := url.Parse(u); err == nil && parsed.Scheme != "" && parsed.Host != "" {
		return u
	}
	if strings.Contains(u, ".") && !strings.Contains(u, " ") {
		return "https://" + u
	}
	return ""
}

func firstNonBlank(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}
