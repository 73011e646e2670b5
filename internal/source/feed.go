package source

import (
	"context"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"lead_bot/internal/model"
)

const queryPlaceholder = "{query}"

// NewFeed builds a source over an RSS/Atom search feed. template is a
// URL containing a {query} placeholder for the escaped keyword.
func NewFeed(client *Client, template string) Source {
	name := "feed"
	if u, err := url.Parse(strings.ReplaceAll(template, queryPlaceholder, "q")); err == nil && u.Host != "" {
		name = u.Host
	}
	return Source{
		Name:      name,
		Fetcher:   &feedFetcher{client: client, template: template},
		Extractor: feedExtractor{source: name},
	}
}

type feedFetcher struct {
	client   *Client
	template string
}

func (f *feedFetcher) Search(ctx context.Context, keyword string) ([]string, error) {
	u := strings.ReplaceAll(f.template, queryPlaceholder, url.QueryEscape(keyword))
	page, err := f.client.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	return []string{page}, nil
}

type feedExtractor struct {
	source string
}

// Extract parses feed items into candidate listings. Malformed content
// yields no candidates rather than an error; the feed is simply empty
// this cycle.
func (e feedExtractor) Extract(content, keyword string) []model.Listing {
	feed, err := gofeed.NewParser().ParseString(content)
	if err != nil {
		return nil
	}

	var listings []model.Listing
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		listings = append(listings, model.Listing{
			Fingerprint: model.Fingerprint(item.Link),
			URL:         item.Link,
			Title:       item.Title,
			PublishedAt: item.Published,
			Source:      e.source,
			Keyword:     keyword,
		})
	}
	return listings
}
