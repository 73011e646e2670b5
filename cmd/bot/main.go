package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"lead_bot/internal/bot"
	"lead_bot/internal/config"
	"lead_bot/internal/match"
	"lead_bot/internal/notify"
	"lead_bot/internal/scan"
	"lead_bot/internal/scheduler"
	"lead_bot/internal/source"
	"lead_bot/internal/storage"
)

func main() {
	oneshot := flag.Bool("oneshot", false, "run a single scan cycle and exit")
	flag.Parse()

	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	client := source.NewClient(http.DefaultClient, cfg.RequestSpacing)
	sources := []source.Source{source.NewOLX(client)}
	for _, tmpl := range cfg.ListingFeeds {
		sources = append(sources, source.NewFeed(client, tmpl))
	}

	engine := scan.New(sources, store, match.NewCityFilter(cfg.CityNames), log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *oneshot {
		runOneshot(ctx, engine, cfg)
		return
	}

	var notifier scheduler.Notifier
	var b *bot.Bot
	if cfg.BotToken != "" {
		b, err = bot.New(cfg.BotToken, store, engine, cfg, log)
		if err != nil {
			log.Error("create bot", "error", err)
			os.Exit(1)
		}
		n := notify.New(store, b, cfg.WalletURL, log)
		b.SetNotifier(n)
		notifier = n
	} else {
		log.Warn("BOT_TOKEN is not set, commands and notifications disabled")
	}

	sched := scheduler.New(engine, notifier, cfg.Keywords, cfg.ScanInterval, log)

	log.Info("starting lead bot",
		"interval", cfg.ScanInterval,
		"keywords", len(cfg.Keywords),
		"sources", len(sources))

	go sched.Run(ctx)

	if b != nil {
		b.Run(ctx)
	} else {
		<-ctx.Done()
	}

	log.Info("lead bot stopped")
}

func runOneshot(ctx context.Context, engine *scan.Engine, cfg *config.Config) {
	fresh := engine.RunScan(ctx, cfg.Keywords)
	if len(fresh) == 0 {
		fmt.Println("Нових оголошень немає.")
		return
	}
	for _, l := range fresh {
		fmt.Println(notify.FormatListing(l, cfg.WalletURL))
		fmt.Println()
	}
	fmt.Printf("Знайдено нових оголошень: %d\n", len(fresh))
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
