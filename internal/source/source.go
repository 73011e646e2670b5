// Package source implements listing discovery against external sites.
//
// A Source pairs a Fetcher, which turns a keyword query into raw page
// content, with an Extractor, which turns raw content into candidate
// listings. Extraction is best-effort: only the listing URL is
// guaranteed, everything else may be a placeholder.
package source

import (
	"context"

	"lead_bot/internal/model"
)

// Fetcher retrieves the raw result pages for one keyword query.
type Fetcher interface {
	Search(ctx context.Context, keyword string) ([]string, error)
}

// Extractor maps raw page content to candidate listings.
type Extractor interface {
	Extract(content, keyword string) []model.Listing
}

// Source is one site the scan engine discovers listings from.
type Source struct {
	Name      string
	Fetcher   Fetcher
	Extractor Extractor
}
