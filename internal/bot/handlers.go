package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"lead_bot/internal/notify"
)

// replyLimit caps how many listings an on-demand scan echoes back to
// the requester; the full set still goes through the normal fan-out.
const replyLimit = 20

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	if err := b.store.AddSubscriber(ctx, strconv.FormatInt(chatID, 10)); err != nil {
		b.log.Error("add subscriber", "chat_id", chatID, "error", err)
		b.reply(chatID, "Не вдалося оформити підписку, спробуйте пізніше.")
		return
	}
	b.reply(chatID, fmt.Sprintf(`Вітаю! Я бот для пошуку лідів по чаю.
Ви підписані на нові оголошення.

Команди:
/scan [ключ1, ключ2] — позачергове сканування
/status — стан бази
/stats — статистика за день і місяць
/help — це повідомлення

💳 Оплата: %s`, b.cfg.WalletURL))
}

func (b *Bot) handleScan(ctx context.Context, chatID int64, args string) {
	keywords := ParseKeywords(args, b.cfg.Keywords)

	fresh := b.scanner.RunScan(ctx, keywords)
	if b.notifier != nil {
		b.notifier.Notify(ctx, fresh)
	}

	if len(fresh) == 0 {
		b.reply(chatID, "Нових оголошень немає.")
		return
	}

	shown := fresh
	if len(shown) > replyLimit {
		shown = shown[:replyLimit]
	}
	for _, l := range shown {
		b.reply(chatID, notify.FormatListing(l, b.cfg.WalletURL))
	}
	if len(fresh) > replyLimit {
		b.reply(chatID, fmt.Sprintf("Показано %d з %d нових оголошень.", replyLimit, len(fresh)))
	}
}

func (b *Bot) handleStatus(ctx context.Context, chatID int64) {
	leads, err := b.store.CountListings(ctx)
	if err != nil {
		b.log.Error("count listings", "error", err)
		b.reply(chatID, "Не вдалося отримати статус.")
		return
	}
	subs, err := b.store.CountSubscribers(ctx)
	if err != nil {
		b.log.Error("count subscribers", "error", err)
		b.reply(chatID, "Не вдалося отримати статус.")
		return
	}
	b.reply(chatID, fmt.Sprintf("В базі %d лід(ів). Підписників: %d. 💳 %s", leads, subs, b.cfg.WalletURL))
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	s, err := b.collectStats(ctx, time.Now().UTC())
	if err != nil {
		b.log.Error("collect stats", "error", err)
		b.reply(chatID, "Не вдалося отримати статистику.")
		return
	}
	b.reply(chatID, FormatStats(s, b.cfg.WalletURL))
}

func (b *Bot) collectStats(ctx context.Context, now time.Time) (Stats, error) {
	var s Stats
	var err error

	if s.Today, err = b.store.CountListingsOnDay(ctx, now); err != nil {
		return s, fmt.Errorf("count today: %w", err)
	}
	if s.Yesterday, err = b.store.CountListingsOnDay(ctx, now.AddDate(0, 0, -1)); err != nil {
		return s, fmt.Errorf("count yesterday: %w", err)
	}
	if s.ThisMonth, err = b.store.CountListingsInMonth(ctx, now); err != nil {
		return s, fmt.Errorf("count this month: %w", err)
	}
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if s.PrevMonth, err = b.store.CountListingsInMonth(ctx, firstOfMonth.AddDate(0, 0, -1)); err != nil {
		return s, fmt.Errorf("count previous month: %w", err)
	}
	return s, nil
}
