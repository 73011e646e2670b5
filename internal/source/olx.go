package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lead_bot/internal/model"
)

const olxBaseURL = "https://www.olx.ua"

// Newest-first search pages; the uk and ru site sections list ads
// independently, so both are queried per keyword.
var olxSearchPaths = []string{
	"/uk/list/q-%s/?search%%5Border%%5D=created_at:desc",
	"/d/list/q-%s/?search%%5Border%%5D=created_at:desc",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func cleanSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// NewOLX builds the OLX search source on top of the given client.
func NewOLX(client *Client) Source {
	return Source{
		Name:      "olx",
		Fetcher:   &olxFetcher{client: client},
		Extractor: olxExtractor{},
	}
}

type olxFetcher struct {
	client *Client
}

// Search fetches the uk and ru result pages for a keyword. A single
// page failure is tolerated; only when every page fails is an error
// returned.
func (f *olxFetcher) Search(ctx context.Context, keyword string) ([]string, error) {
	q := url.QueryEscape(keyword)

	var pages []string
	var errs []error
	for _, path := range olxSearchPaths {
		page, err := f.client.Get(ctx, olxBaseURL+fmt.Sprintf(path, q))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pages = append(pages, page)
	}
	if len(pages) == 0 {
		return nil, errors.Join(errs...)
	}
	return pages, nil
}

type olxExtractor struct{}

// Extract pulls ad anchors out of an OLX result page. Ad detail links
// live under /d/ with an /obyavlenie/ or /ogoloshennya/ segment; the
// surrounding card yields best-effort title, price, and location.
func (olxExtractor) Extract(content, keyword string) []model.Listing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var listings []model.Listing

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" || !strings.Contains(href, "/d/") {
			return
		}
		if !strings.Contains(href, "/obyavlenie/") && !strings.Contains(href, "/ogoloshennya/") {
			return
		}

		adURL := href
		if !strings.HasPrefix(adURL, "http") {
			adURL = olxBaseURL + adURL
		}
		fp := model.Fingerprint(adURL)
		if seen[fp] {
			return
		}
		seen[fp] = true

		card := a.Closest("div")
		title := cleanSpace(card.Find("h4, h6").First().Text())
		if title == "" {
			title = keyword
		}
		price := cleanSpace(card.Find(`[data-testid="ad-price"]`).First().Text())
		if price == "" {
			price = "—"
		}
		location, published := splitLocationDate(cleanSpace(card.Find(`[data-testid="location-date"]`).First().Text()))

		listings = append(listings, model.Listing{
			Fingerprint: fp,
			URL:         adURL,
			Title:       title,
			Price:       price,
			Location:    location,
			PublishedAt: published,
			Source:      "olx",
			Keyword:     keyword,
		})
	})

	return listings
}

// splitLocationDate splits the "Київ - Сьогодні о 12:01" card line.
func splitLocationDate(s string) (location, published string) {
	if s == "" {
		return "", ""
	}
	parts := strings.SplitN(s, " - ", 2)
	location = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		published = strings.TrimSpace(parts[1])
	}
	return location, published
}
