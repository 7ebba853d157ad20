// Package analytics computes dataset-level statistics over a loaded
// corpus: overview counts, top-cited papers, keyword impact, and the
// publication-year distribution. All functions are pure over the
// document slice they are given.
package analytics

import (
	"sort"
	"strings"

	"github.com/scholarsearch/scholarserve/pkg/corpus"
)

// OverviewStats holds high-level dataset counts.
type OverviewStats struct {
	TotalPapers     int `json:"total_papers"`
	TotalReferences int `json:"total_references"`
	UniqueKeywords  int `json:"unique_keywords"`
}

// CitedPaper is one entry of the top-cited listing.
type CitedPaper struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Citations int    `json:"citations"`
}

// KeywordStat pairs a normalized keyword with the highest citation
// count among the papers carrying it.
type KeywordStat struct {
	Term      string `json:"term"`
	Citations int    `json:"citations"`
}

// YearCount is one bucket of the publication-year distribution.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Overview computes high-level dataset statistics. Reference totals
// count every listed reference whether or not it resolves inside the
// corpus; keywords are counted uniquely after trimming and lowercasing.
func Overview(docs []corpus.Document) OverviewStats {
	stats := OverviewStats{TotalPapers: len(docs)}
	keywords := make(map[string]struct{})
	for _, doc := range docs {
		stats.TotalReferences += len(doc.References)
		for _, kw := range doc.Keywords {
			key := strings.ToLower(strings.TrimSpace(kw))
			if key == "" {
				continue
			}
			keywords[key] = struct{}{}
		}
	}
	stats.UniqueKeywords = len(keywords)
	return stats
}

// TopCited returns up to limit papers ordered by citation count
// descending. Ties keep the corpus order.
func TopCited(docs []corpus.Document, limit int) []CitedPaper {
	if limit <= 0 {
		return nil
	}
	ranked := make([]CitedPaper, len(docs))
	for i, doc := range docs {
		ranked[i] = CitedPaper{ID: doc.ID, Title: doc.Title, Citations: doc.Citations}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Citations > ranked[j].Citations
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// KeywordStats aggregates keyword impact: each normalized keyword maps
// to the maximum citation count among its papers, ordered by citations
// descending then term.
func KeywordStats(docs []corpus.Document) []KeywordStat {
	impact := make(map[string]int)
	for _, doc := range docs {
		for _, kw := range doc.Keywords {
			key := strings.ToLower(strings.TrimSpace(kw))
			if key == "" {
				continue
			}
			if current, seen := impact[key]; !seen || doc.Citations > current {
				impact[key] = doc.Citations
			}
		}
	}
	stats := make([]KeywordStat, 0, len(impact))
	for term, citations := range impact {
		stats = append(stats, KeywordStat{Term: term, Citations: citations})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Citations != stats[j].Citations {
			return stats[i].Citations > stats[j].Citations
		}
		return stats[i].Term < stats[j].Term
	})
	return stats
}

// YearDistribution counts papers per publication year, ascending.
// Papers without a year are skipped.
func YearDistribution(docs []corpus.Document) []YearCount {
	counts := make(map[int]int)
	for _, doc := range docs {
		if doc.Year == 0 {
			continue
		}
		counts[doc.Year]++
	}
	years := make([]YearCount, 0, len(counts))
	for year, count := range counts {
		years = append(years, YearCount{Year: year, Count: count})
	}
	sort.Slice(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})
	return years
}
