package corpus_test

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/microcosm-cc/bluemonday"

	"github.com/scholarsearch/scholarserve/pkg/corpus"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"http kept", "http://example.org/a", "http://example.org/a"},
		{"https kept", "https://example.org/a", "https://example.org/a"},
		{"surrounding space trimmed", "  https://example.org/a  ", "https://example.org/a"},
		{"other scheme with host kept", "ftp://files.example.org/p.pdf", "ftp://files.example.org/p.pdf"},
		{"bare domain prefixed", "doi.org/10.1000/xyz", "https://doi.org/10.1000/xyz"},
		{"free text dropped", "read the paper here", ""},
		{"no dot dropped", "nodots", ""},
		{"empty", "", ""},
		{"blank", "   ", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := corpus.NormalizeURL(tc.raw); got != tc.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeResolvesLink(t *testing.T) {
	tests := []struct {
		name string
		doc  corpus.Document
		want string
	}{
		{
			name: "explicit link wins over url",
			doc:  corpus.Document{ID: "p", Link: "https://a.org/x", URL: "https://b.org/y"},
			want: "https://a.org/x",
		},
		{
			name: "url before pdf",
			doc:  corpus.Document{ID: "p", URL: "example.org/p", PDF: "https://b.org/p.pdf"},
			want: "https://example.org/p",
		},
		{
			name: "doi fallback",
			doc:  corpus.Document{ID: "p", DOI: " 10.1234/abc "},
			want: "https://doi.org/10.1234/abc",
		},
		{
			name: "arxiv fallback",
			doc:  corpus.Document{ID: "p", ArxivID: "1706.03762"},
			want: "https://arxiv.org/abs/1706.03762",
		},
		{
			name: "arxiv field before arxiv_id",
			doc:  corpus.Document{ID: "p", Arxiv: "2301.00001", ArxivID: "1706.03762"},
			want: "https://arxiv.org/abs/2301.00001",
		},
		{
			name: "unusable candidate drops to empty",
			doc:  corpus.Document{ID: "p", Website: "just some words"},
			want: "",
		},
		{
			name: "nothing to resolve",
			doc:  corpus.Document{ID: "p"},
			want: "",
		},
	}

	sanitize := bluemonday.StrictPolicy()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := tc.doc
			doc.Normalize(sanitize)
			if doc.Link != tc.want {
				t.Errorf("link = %q, want %q", doc.Link, tc.want)
			}
			if doc.URL != "" || doc.PDF != "" || doc.DOI != "" || doc.Arxiv != "" || doc.ArxivID != "" || doc.Website != "" {
				t.Error("alternate link carriers should be cleared after Normalize")
			}
		})
	}
}

func TestNormalizeSanitizesText(t *testing.T) {
	sanitize := bluemonday.StrictPolicy()

	doc := corpus.Document{
		ID:       " p1 ",
		Title:    "Deep <b>Residual</b> Learning",
		Abstract: "<script>alert(1)</script><p>We present AT&T-scale results.</p>",
	}
	doc.Normalize(sanitize)

	if doc.ID != "p1" {
		t.Errorf("id = %q, want %q", doc.ID, "p1")
	}
	if doc.Title != "Deep Residual Learning" {
		t.Errorf("title = %q, want markup stripped", doc.Title)
	}
	if doc.Abstract != "We present AT&T-scale results." {
		t.Errorf("abstract = %q, want script removed and entities restored", doc.Abstract)
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	sanitize := bluemonday.StrictPolicy()

	doc := corpus.Document{ID: "p1", Citations: -5}
	doc.Normalize(sanitize)

	if doc.Authors == nil || doc.Keywords == nil || doc.References == nil {
		t.Error("list fields should be non-nil after Normalize")
	}
	if doc.Citations != 0 {
		t.Errorf("citations = %d, want negative clamped to 0", doc.Citations)
	}
}
