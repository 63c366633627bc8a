// Package pipeline turns a free-text furniture query into a structured record
// by invoking a language model, extracting JSON from its unreliable output,
// and overriding known failure modes with deterministic rules. Results are
// memoized through a cache gateway so repeated queries are answered instantly.
package pipeline

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/querylens-ai/querylens/pkg/cache"
	"github.com/querylens-ai/querylens/pkg/extract"
	"github.com/querylens-ai/querylens/pkg/llm"
	"github.com/querylens-ai/querylens/pkg/models"
)

// Pipeline composes the query-understanding steps. Dependencies are injected
// at construction; the pipeline holds no cross-request state and is safe for
// concurrent use.
type Pipeline struct {
	gen   llm.Generator
	cache *cache.Gateway
	rules []Rule
}

// New creates a Pipeline. gw may be nil to disable caching. extraRules are
// evaluated after the built-in rule table, in order.
func New(gen llm.Generator, gw *cache.Gateway, extraRules ...Rule) *Pipeline {
	rules := make([]Rule, 0, len(defaultRules)+len(extraRules))
	rules = append(rules, defaultRules...)
	rules = append(rules, extraRules...)
	return &Pipeline{gen: gen, cache: gw, rules: rules}
}

// Understand runs the full pipeline for a query: cache lookup, then on a miss
// model invocation, extraction, correction, and a cache write. Timing
// metadata is attached on every path. A generation or extraction failure is
// returned to the caller and never cached.
func (p *Pipeline) Understand(ctx context.Context, query string) (*models.QueryResponse, error) {
	start := time.Now()

	cached, hit, lookupTime := p.cache.Get(ctx, query)
	if hit {
		log.Printf("cache hit for query %q (lookup %.4fs)", query, lookupTime.Seconds())
		return &models.QueryResponse{
			Query:           query,
			ParsedQuery:     cached,
			Cached:          true,
			CacheLookupTime: roundSeconds(lookupTime),
			TotalTime:       roundSeconds(time.Since(start)),
		}, nil
	}

	raw, elapsed, err := p.gen.Generate(ctx, renderPrompt(query))
	if err != nil {
		return nil, err
	}
	log.Printf("generation for query %q completed in %.2fs", query, elapsed.Seconds())

	pq, err := extract.Parse(raw)
	if err != nil {
		return nil, err
	}

	pq = correct(p.rules, query, pq)

	p.cache.Set(ctx, query, pq)

	resp := &models.QueryResponse{
		Query:          query,
		ParsedQuery:    pq,
		Cached:         false,
		GenerationTime: roundSeconds(elapsed),
		TotalTime:      roundSeconds(time.Since(start)),
	}
	if p.cache.Enabled() {
		resp.CacheLookupTime = roundSeconds(lookupTime)
	}
	return resp, nil
}

// Inspect runs model invocation alone, with no extraction, correction, or
// caching, for diagnosing prompt behavior.
func (p *Pipeline) Inspect(ctx context.Context, query string) (*models.InspectResult, error) {
	prompt := renderPrompt(query)
	raw, elapsed, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &models.InspectResult{
		Query:          query,
		Prompt:         prompt,
		RawOutput:      raw,
		GenerationTime: roundSeconds(elapsed),
	}, nil
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*10000) / 10000
}
