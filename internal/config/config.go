// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultKeywords is the search term set used when KEYWORDS is not set.
var DefaultKeywords = []string{
	"куплю чай", "куплю чай оптом", "травяний чай", "чорний чай", "ароматизований чай",
	"зелений чай", "чай оптом", "купить чай оптом", "чаї оптом Україна", "травяні чаї",
	"чай до кав'ярні", "куплю матча чай", "чай для подарунка", "чайний набір купити",
	"пакетовані чаї оптом", "чай оптом Київ", "органічний чай купити", "чай онлайн",
	"чай доставка Київ", "чай гуртом", "чай магазин Київ", "чай преміум купити",
	"чайний бутик Київ",
}

// Config holds the application configuration.
type Config struct {
	// BotToken may be empty; the command surface and notifications are
	// then disabled while background scanning still runs.
	BotToken     string
	DatabasePath string
	LogLevel     string

	ScanInterval   time.Duration
	Keywords       []string
	WalletURL      string
	RequestSpacing time.Duration

	// CityNames restricts listings to matching locations when non-empty.
	CityNames []string
	// ListingFeeds are optional RSS/Atom search URL templates with a
	// {query} placeholder, checked in addition to the OLX source.
	ListingFeeds []string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/leads.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	intervalMin := 360
	if raw := os.Getenv("SCAN_INTERVAL_MIN"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("invalid SCAN_INTERVAL_MIN %q", raw)
		}
		intervalMin = v
	}

	spacingMs := 1000
	if raw := os.Getenv("REQUEST_SPACING_MS"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid REQUEST_SPACING_MS %q", raw)
		}
		spacingMs = v
	}

	keywords := DefaultKeywords
	if raw := os.Getenv("KEYWORDS"); raw != "" {
		keywords = splitList(raw)
		if len(keywords) == 0 {
			return nil, fmt.Errorf("KEYWORDS is set but contains no keywords")
		}
	}

	wallet := os.Getenv("WALLET_URL")
	if wallet == "" {
		wallet = "https://your.wallet/link"
	}

	return &Config{
		BotToken:       os.Getenv("BOT_TOKEN"),
		DatabasePath:   dbPath,
		LogLevel:       logLevel,
		ScanInterval:   time.Duration(intervalMin) * time.Minute,
		Keywords:       keywords,
		WalletURL:      wallet,
		RequestSpacing: time.Duration(spacingMs) * time.Millisecond,
		CityNames:      splitList(os.Getenv("CITY_NAMES")),
		ListingFeeds:   splitList(os.Getenv("LISTING_FEEDS")),
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
