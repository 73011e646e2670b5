// Package model defines the domain types used across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Listing is a classified-ad candidate discovered during a scan.
// Only URL and Keyword are guaranteed to be populated; the remaining
// fields are best-effort and may hold placeholders.
type Listing struct {
	Fingerprint  string
	URL          string
	Title        string
	Price        string
	Location     string
	PublishedAt  string
	Source       string
	Keyword      string
	DiscoveredAt time.Time
}

// Subscriber is a notification recipient identified by an opaque chat ID.
type Subscriber struct {
	ID           string
	SubscribedAt time.Time
}

// Fingerprint derives the content-addressed identifier of a listing
// from its canonical URL. Same URL, same fingerprint.
func Fingerprint(url string) string {
	h := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x", h)
}
