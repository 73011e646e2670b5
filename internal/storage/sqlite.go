package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"lead_bot/internal/model"
	"lead_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single connection serializes writes and keeps :memory:
	// databases from being split across pool connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// InsertListing performs an atomic insert-or-ignore keyed by fingerprint
// and sets DiscoveredAt when the row is created.
func (s *SQLite) InsertListing(ctx context.Context, l *model.Listing) (bool, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO leads
		 (fingerprint, url, title, price, location, published_at, source, keyword, discovered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Fingerprint, l.URL, l.Title, l.Price, l.Location, l.PublishedAt,
		l.Source, l.Keyword, now.Format(timeLayout),
	)
	if err != nil {
		return false, fmt.Errorf("insert listing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	l.DiscoveredAt = now
	return true, nil
}

// AddSubscriber registers a chat ID. Duplicate registrations are ignored.
func (s *SQLite) AddSubscriber(ctx context.Context, id string) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO subscribers (chat_id, subscribed_at) VALUES (?, ?)`,
		id, now,
	)
	if err != nil {
		return fmt.Errorf("add subscriber: %w", err)
	}
	return nil
}

// ListSubscribers returns a snapshot of all registered chat IDs.
func (s *SQLite) ListSubscribers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT chat_id FROM subscribers ORDER BY chat_id`)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountListings returns the total number of persisted listings.
func (s *SQLite) CountListings(ctx context.Context) (int, error) {
	return s.countOne(ctx, `SELECT COUNT(*) FROM leads`)
}

// CountSubscribers returns the number of registered subscribers.
func (s *SQLite) CountSubscribers(ctx context.Context) (int, error) {
	return s.countOne(ctx, `SELECT COUNT(*) FROM subscribers`)
}

// CountListingsOnDay returns the number of listings discovered on the
// given UTC calendar day.
func (s *SQLite) CountListingsOnDay(ctx context.Context, day time.Time) (int, error) {
	return s.countOne(ctx,
		`SELECT COUNT(*) FROM leads WHERE date(discovered_at) = ?`,
		day.UTC().Format("2006-01-02"),
	)
}

// CountListingsInMonth returns the number of listings discovered in the
// given UTC calendar month.
func (s *SQLite) CountListingsInMonth(ctx context.Context, month time.Time) (int, error) {
	return s.countOne(ctx,
		`SELECT COUNT(*) FROM leads WHERE strftime('%Y-%m', discovered_at) = ?`,
		month.UTC().Format("2006-01"),
	)
}

func (s *SQLite) countOne(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
