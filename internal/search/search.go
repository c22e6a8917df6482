// Package search resolves a free-text query against a corpus snapshot using
// weighted fuzzy matching over four record fields.
package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"flowdex/backend/internal/catalog"
	"flowdex/backend/pkg/models"
)

// Field weights and the match tolerance mirror the catalog's long-standing
// search tuning: name dominates, categories contribute least, and a field
// matches when its distance score is at or below 0.3 on a 0-1 scale where
// 0 is an exact (or substring) match.
const (
	weightName         = 0.4
	weightDescription  = 0.3
	weightIntegrations = 0.2
	weightCategories   = 0.1

	// Tolerance is the maximum per-field distance that still counts as a
	// match. Match position within a field is deliberately ignored.
	Tolerance = 0.3
)

// document is one record prepared for matching: each field lowercased and
// pre-tokenized once per snapshot.
type document struct {
	name         []string
	description  []string
	integrations []string
	categories   []string
}

// Engine matches queries against snapshots. Prepared documents are cached
// per snapshot identity; snapshots are immutable so the cache never needs
// invalidation beyond dropping superseded entries. Safe for concurrent use.
type Engine struct {
	mu         sync.Mutex
	snapshotID string
	docs       []document
}

// NewEngine creates an empty Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Search returns the records of snap matching query, best match first, with
// ties keeping original corpus order. An empty or whitespace-only query is a
// no-op: the corpus is returned unchanged in snapshot order.
func (e *Engine) Search(snap *catalog.Snapshot, query string) []models.Workflow {
	records := snap.All()

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return records
	}

	docs := e.prepared(snap)

	type hit struct {
		record models.Workflow
		score  float64
	}
	var hits []hit
	for i, doc := range docs {
		score, ok := doc.score(query)
		if !ok {
			continue
		}
		hits = append(hits, hit{record: records[i], score: score})
	}

	// Ascending by distance; stable sort preserves corpus order on ties.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score < hits[j].score })

	out := make([]models.Workflow, len(hits))
	for i, h := range hits {
		out[i] = h.record
	}
	return out
}

// prepared returns the cached documents for snap, building them on first use.
func (e *Engine) prepared(snap *catalog.Snapshot) []document {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snapshotID == snap.ID() {
		return e.docs
	}

	records := snap.All()
	docs := make([]document, len(records))
	for i, w := range records {
		docs[i] = document{
			name:         tokenize(w.Name),
			description:  tokenize(w.Description),
			integrations: tokenizeList(w.Integrations),
			categories:   tokenizeList(w.Categories),
		}
	}
	e.snapshotID = snap.ID()
	e.docs = docs
	return docs
}

// score computes the weighted distance of the document to the query. The
// second return value reports whether any field passed the tolerance; the
// combined score averages the passing fields by weight.
func (d *document) score(query string) (float64, bool) {
	type fieldScore struct {
		weight float64
		score  float64
	}
	fields := []struct {
		tokens []string
		weight float64
	}{
		{d.name, weightName},
		{d.description, weightDescription},
		{d.integrations, weightIntegrations},
		{d.categories, weightCategories},
	}

	var matched []fieldScore
	for _, f := range fields {
		s := fieldDistance(query, f.tokens)
		if s <= Tolerance {
			matched = append(matched, fieldScore{weight: f.weight, score: s})
		}
	}
	if len(matched) == 0 {
		return 0, false
	}

	var weighted, total float64
	for _, m := range matched {
		weighted += m.weight * m.score
		total += m.weight
	}
	return weighted / total, true
}

// fieldDistance is the minimal distance of the query to any token of the
// field. A substring hit anywhere scores 0; otherwise the normalized edit
// distance to the closest token is used. Returns a value above 1 for fields
// with no tokens.
func fieldDistance(query string, tokens []string) float64 {
	best := 2.0
	for _, tok := range tokens {
		var s float64
		switch {
		case strings.Contains(tok, query):
			s = 0
		default:
			d := levenshtein.ComputeDistance(query, tok)
			max := len([]rune(tok))
			if qlen := len([]rune(query)); qlen > max {
				max = qlen
			}
			if max == 0 {
				continue
			}
			s = float64(d) / float64(max)
		}
		if s < best {
			best = s
		}
		if best == 0 {
			break
		}
	}
	return best
}

// tokenize lowercases text and splits it on non-alphanumeric runs. The full
// lowercased text is included as a token so multi-word queries can substring
// match across word boundaries.
func tokenize(text string) []string {
	lower := strings.ToLower(text)
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	})
	if strings.TrimSpace(lower) != "" {
		tokens = append(tokens, lower)
	}
	return tokens
}

func tokenizeList(items []string) []string {
	var tokens []string
	for _, item := range items {
		tokens = append(tokens, tokenize(item)...)
	}
	return tokens
}
