// Package bot implements the Telegram command surface.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lead_bot/internal/config"
	"lead_bot/internal/model"
	"lead_bot/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// Scanner runs one on-demand discovery cycle.
type Scanner interface {
	RunScan(ctx context.Context, keywords []string) []model.Listing
}

// Notifier fans new listings out to subscribers.
type Notifier interface {
	Notify(ctx context.Context, listings []model.Listing)
}

// Bot handles user commands and sends notifications. It polls with
// GetUpdates directly rather than through the library's update channel
// so that a 409 conflict (another instance consuming the same stream)
// stays distinguishable from ordinary transport errors.
type Bot struct {
	api      telegramAPI
	store    storage.Storage
	scanner  Scanner
	notifier Notifier
	cfg      *config.Config
	log      *slog.Logger

	offset           int
	conflictCooldown time.Duration
	errorCooldown    time.Duration
}

// New creates a Bot with the given Telegram token.
func New(token string, store storage.Storage, scanner Scanner, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:              api,
		store:            store,
		scanner:          scanner,
		cfg:              cfg,
		log:              log,
		conflictCooldown: 60 * time.Second,
		errorCooldown:    15 * time.Second,
	}, nil
}

// SetNotifier wires the fan-out used by /scan. The notifier is built
// after the bot because the bot itself is its sender.
func (b *Bot) SetNotifier(n Notifier) {
	b.notifier = n
}

// Run starts the long-polling loop, blocking until ctx is cancelled.
// Transport errors never terminate the loop: a conflict backs off for
// the long cooldown, anything else for the short one.
func (b *Bot) Run(ctx context.Context) {
	for ctx.Err() == nil {
		u := tgbotapi.NewUpdate(b.offset)
		u.Timeout = 30

		updates, err := b.api.GetUpdates(u)
		if err != nil {
			if isConflict(err) {
				b.log.Error("another instance is consuming updates, backing off",
					"cooldown", b.conflictCooldown, "error", err)
				if !sleepCtx(ctx, b.conflictCooldown) {
					return
				}
			} else {
				b.log.Error("get updates", "error", err)
				if !sleepCtx(ctx, b.errorCooldown) {
					return
				}
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= b.offset {
				b.offset = update.UpdateID + 1
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

// SendMessage sends a text message to the given chat.
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Send delivers a notification to a subscriber, satisfying the
// notifier's sender contract.
func (b *Bot) Send(subscriberID, text string) error {
	chatID, err := strconv.ParseInt(subscriberID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid subscriber id %q: %w", subscriberID, err)
	}
	return b.SendMessage(chatID, text)
}

func (b *Bot) reply(chatID int64, text string) {
	if err := b.SendMessage(chatID, text); err != nil {
		b.log.Error("reply", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start", "help":
		b.handleStart(ctx, chatID)
	case "scan":
		b.handleScan(ctx, chatID, args)
	case "status":
		b.handleStatus(ctx, chatID)
	case "stats":
		b.handleStats(ctx, chatID)
	default:
		b.reply(chatID, "Невідома команда. Доступні: /scan /status /stats /help")
	}
}

// isConflict reports whether the Telegram API rejected polling because
// another consumer holds the update stream.
func isConflict(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 409
	}
	return strings.Contains(err.Error(), "409")
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
