// Package notify fans newly discovered listings out to subscribers.
package notify

import (
	"context"
	"log/slog"
	"time"

	"lead_bot/internal/model"
	"lead_bot/internal/storage"
)

// Sender delivers one message to one subscriber.
type Sender interface {
	Send(subscriberID, text string) error
}

// Notifier formats listings and delivers them to every subscriber.
// Delivery is best-effort: a failed send is logged and dropped.
type Notifier struct {
	store  storage.Storage
	sender Sender
	wallet string
	log    *slog.Logger

	// pacing between sends; Telegram caps bots around 30 msg/s.
	sendDelay time.Duration
}

// New creates a Notifier. wallet is appended verbatim to every message.
func New(store storage.Storage, sender Sender, wallet string, log *slog.Logger) *Notifier {
	return &Notifier{
		store:     store,
		sender:    sender,
		wallet:    wallet,
		log:       log,
		sendDelay: 50 * time.Millisecond,
	}
}

// Notify delivers each listing to every current subscriber. The
// subscriber list is read once per call; failures are independent per
// subscriber and per listing, and nothing is retried.
func (n *Notifier) Notify(ctx context.Context, listings []model.Listing) {
	if len(listings) == 0 {
		return
	}

	subs, err := n.store.ListSubscribers(ctx)
	if err != nil {
		n.log.Error("list subscribers", "error", err)
		return
	}
	if len(subs) == 0 {
		n.log.Info("no subscribers, skipping fan-out", "listings", len(listings))
		return
	}

	sent, failed := 0, 0
	for _, l := range listings {
		msg := FormatListing(l, n.wallet)
		for _, sub := range subs {
			if err := n.sender.Send(sub, msg); err != nil {
				failed++
				n.log.Error("send notification",
					"subscriber", sub, "fingerprint", l.Fingerprint, "error", err)
				continue
			}
			sent++
			time.Sleep(n.sendDelay)
		}
	}

	n.log.Info("fan-out complete",
		"listings", len(listings), "subscribers", len(subs), "sent", sent, "failed", failed)
}
