// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"time"

	"lead_bot/internal/model"
)

// Storage is the interface for all persistence operations.
type Storage interface {
	// InsertListing persists a listing keyed by its fingerprint.
	// It reports whether this call created the row: true means first
	// sighting, false means the fingerprint was already known.
	InsertListing(ctx context.Context, l *model.Listing) (bool, error)

	// AddSubscriber registers a recipient. Re-subscribing is a no-op.
	AddSubscriber(ctx context.Context, id string) error
	ListSubscribers(ctx context.Context) ([]string, error)

	CountListings(ctx context.Context) (int, error)
	CountSubscribers(ctx context.Context) (int, error)
	CountListingsOnDay(ctx context.Context, day time.Time) (int, error)
	CountListingsInMonth(ctx context.Context, month time.Time) (int, error)

	Close() error
}
