// Package scan implements the discovery-dedup cycle across all
// configured sources.
package scan

import (
	"context"
	"log/slog"

	"lead_bot/internal/match"
	"lead_bot/internal/model"
	"lead_bot/internal/source"
	"lead_bot/internal/storage"
)

// Engine runs one scan cycle: fetch and extract candidates per keyword,
// merge them, and persist the ones never seen before.
type Engine struct {
	sources []source.Source
	store   storage.Storage
	cities  *match.CityFilter
	log     *slog.Logger
}

// New creates an Engine.
func New(sources []source.Source, store storage.Storage, cities *match.CityFilter, log *slog.Logger) *Engine {
	return &Engine{
		sources: sources,
		store:   store,
		cities:  cities,
		log:     log,
	}
}

// RunScan scans every source for every keyword and returns only the
// listings this cycle saw for the first time. Fetch failures are logged
// and skipped per keyword; the cycle itself never fails. Cancellation
// is honored between keywords, not mid-fetch.
func (e *Engine) RunScan(ctx context.Context, keywords []string) []model.Listing {
	merged := e.collect(ctx, keywords)

	var fresh []model.Listing
	for i := range merged {
		inserted, err := e.store.InsertListing(ctx, &merged[i])
		if err != nil {
			// Not persisted, so not surfaced as new; the next cycle
			// retries it.
			e.log.Error("persist listing",
				"fingerprint", merged[i].Fingerprint, "url", merged[i].URL, "error", err)
			continue
		}
		if inserted {
			fresh = append(fresh, merged[i])
		}
	}
	return fresh
}

// collect gathers candidates across keywords and sources, deduplicated
// by fingerprint within the cycle. The first sighting keeps its keyword
// tag.
func (e *Engine) collect(ctx context.Context, keywords []string) []model.Listing {
	seen := make(map[string]bool)
	var merged []model.Listing

	for _, keyword := range keywords {
		if ctx.Err() != nil {
			break
		}
		for _, src := range e.sources {
			pages, err := src.Fetcher.Search(ctx, keyword)
			if err != nil {
				e.log.Warn("search failed", "source", src.Name, "keyword", keyword, "error", err)
				continue
			}
			for _, page := range pages {
				for _, cand := range src.Extractor.Extract(page, keyword) {
					if cand.URL == "" || seen[cand.Fingerprint] {
						continue
					}
					if !e.cities.Allow(cand.Location) {
						continue
					}
					seen[cand.Fingerprint] = true
					merged = append(merged, cand)
				}
			}
		}
	}
	return merged
}
