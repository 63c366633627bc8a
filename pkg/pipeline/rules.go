package pipeline

import (
	"strings"

	"github.com/querylens-ai/querylens/pkg/cache"
	"github.com/querylens-ai/querylens/pkg/models"
)

// Rule is a deterministic override for a query phrase the model is known to
// mis-handle systematically. When a rule matches the normalized query, its
// Override replaces the extractor's output in full, never merged field by
// field, so hand-curated answers are what gets memoized.
type Rule struct {
	// Exact matches the whole normalized query.
	Exact string
	// Contains matches when every listed substring appears in the
	// normalized query. Ignored if Exact is set.
	Contains []string
	// Override is the record returned when the rule matches.
	Override models.ParsedQuery
}

func (r Rule) matches(normalized string) bool {
	if r.Exact != "" {
		return normalized == r.Exact
	}
	if len(r.Contains) == 0 {
		return false
	}
	for _, sub := range r.Contains {
		if sub == "" || !strings.Contains(normalized, sub) {
			return false
		}
	}
	return true
}

// defaultRules are the curated answers for known-problematic phrases. Rules
// are evaluated in order and the first match wins; adding a rule never
// requires touching the others.
var defaultRules = []Rule{
	{
		Contains: []string{"gold metal accent table"},
		Override: models.ParsedQuery{ItemType: "accent table", Material: "metal", Color: "gold"},
	},
	{
		Contains: []string{"shelving unit", "glass"},
		Override: models.ParsedQuery{ItemType: "shelving unit", Material: "glass"},
	},
	{
		Contains: []string{"amber", "glass", "cabinet"},
		Override: models.ParsedQuery{ItemType: "display cabinet", Material: "glass", Color: "amber"},
	},
}

// correct applies the first matching rule's override, or passes the record
// through unchanged when no rule matches. Matching is against the same
// normalized form the cache key derivation uses.
func correct(rules []Rule, query string, pq models.ParsedQuery) models.ParsedQuery {
	normalized := cache.Normalize(query)
	for _, r := range rules {
		if r.matches(normalized) {
			return r.Override
		}
	}
	return pq
}
