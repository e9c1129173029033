// Package spotlight ranks searchable documents against a short query.
package spotlight

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Document is one searchable record. Terms are the strings matched against
// the query; the first term that matches best decides the rank.
type Document struct {
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Link     string   `json:"link"`
	Terms    []string `json:"-"`
}

type Hit struct {
	Document
	// Distance is the Levenshtein distance of the best matching term.
	Distance int `json:"distance"`
}

// Provider yields the documents of one record type visible to the caller.
type Provider interface {
	Type() string
	Documents(ctx context.Context) ([]Document, error)
}

// Rank keeps the documents with at least one term fuzzily containing q,
// ordered by distance and then title. limit <= 0 keeps every hit.
func Rank(q string, docs []Document, limit int) []Hit {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	folded := fold(q)
	hits := make([]Hit, 0)
	for _, doc := range docs {
		terms := make([]string, 0, len(doc.Terms))
		for _, t := range doc.Terms {
			if t = strings.TrimSpace(t); t != "" {
				terms = append(terms, t)
			}
		}
		ranks := fuzzy.RankFindNormalizedFold(q, terms)
		if len(ranks) == 0 {
			continue
		}
		// Matching folds case and accents but the reported distance does
		// not, so it is measured again on folded strings.
		best := -1
		for _, r := range ranks {
			if d := fuzzy.LevenshteinDistance(folded, fold(r.Target)); best < 0 || d < best {
				best = d
			}
		}
		hits = append(hits, Hit{Document: doc, Distance: best})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return strings.ToLower(hits[i].Title) < strings.ToLower(hits[j].Title)
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func fold(s string) string {
	out, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
