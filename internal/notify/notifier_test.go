package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lead_bot/internal/model"
	"lead_bot/internal/storage"
)

type delivery struct {
	Subscriber string
	Text       string
}

type mockSender struct {
	mu        sync.Mutex
	delivered []delivery
	failFor   map[string]bool
}

func (m *mockSender) Send(subscriberID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[subscriberID] {
		return fmt.Errorf("chat blocked")
	}
	m.delivered = append(m.delivered, delivery{Subscriber: subscriberID, Text: text})
	return nil
}

func (m *mockSender) deliveries() []delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]delivery, len(m.delivered))
	copy(cp, m.delivered)
	return cp
}

func newTestNotifier(t *testing.T, sender Sender) (*Notifier, *storage.SQLite) {
	t.Helper()
	store, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	n := New(store, sender, "https://pay.example/tea", log)
	n.sendDelay = 0
	return n, store
}

func subscribe(t *testing.T, store *storage.SQLite, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if err := store.AddSubscriber(context.Background(), id); err != nil {
			t.Fatalf("add subscriber %s: %v", id, err)
		}
	}
}

func sampleListing() model.Listing {
	return model.Listing{
		Fingerprint: model.Fingerprint("https://www.olx.ua/d/obyavlenie/tea-1"),
		URL:         "https://www.olx.ua/d/obyavlenie/tea-1",
		Title:       "Куплю чай оптом",
		Price:       "500 грн",
		Location:    "Київ",
		Source:      "olx",
		Keyword:     "куплю чай",
	}
}

func TestNotifyFansOutToAllSubscribers(t *testing.T) {
	sender := &mockSender{}
	n, store := newTestNotifier(t, sender)
	subscribe(t, store, "111", "222", "333")

	n.Notify(context.Background(), []model.Listing{sampleListing()})

	got := sender.deliveries()
	if diff := cmp.Diff(3, len(got)); diff != "" {
		t.Fatalf("delivery count mismatch (-want +got):\n%s", diff)
	}

	var subs []string
	for _, d := range got {
		subs = append(subs, d.Subscriber)
	}
	if diff := cmp.Diff([]string{"111", "222", "333"}, subs); diff != "" {
		t.Errorf("recipients mismatch (-want +got):\n%s", diff)
	}
}

func TestNotifyFailureIsIndependent(t *testing.T) {
	sender := &mockSender{failFor: map[string]bool{"222": true}}
	n, store := newTestNotifier(t, sender)
	subscribe(t, store, "111", "222", "333")

	n.Notify(context.Background(), []model.Listing{sampleListing()})

	var subs []string
	for _, d := range sender.deliveries() {
		subs = append(subs, d.Subscriber)
	}
	if diff := cmp.Diff([]string{"111", "333"}, subs); diff != "" {
		t.Errorf("recipients mismatch (-want +got):\n%s", diff)
	}
}

func TestNotifyEmptyBatch(t *testing.T) {
	sender := &mockSender{}
	n, store := newTestNotifier(t, sender)
	subscribe(t, store, "111")

	n.Notify(context.Background(), nil)

	if got := sender.deliveries(); len(got) != 0 {
		t.Errorf("expected no deliveries for empty batch, got %d", len(got))
	}
}

func TestNotifyNoSubscribers(t *testing.T) {
	sender := &mockSender{}
	n, _ := newTestNotifier(t, sender)

	n.Notify(context.Background(), []model.Listing{sampleListing()})

	if got := sender.deliveries(); len(got) != 0 {
		t.Errorf("expected no deliveries without subscribers, got %d", len(got))
	}
}

func TestFormatListing(t *testing.T) {
	got := FormatListing(sampleListing(), "https://pay.example/tea")

	for _, want := range []string{
		"📍 Новий потенційний клієнт (olx)",
		"🔑 Ключ: куплю чай",
		"🏷️ Назва: Куплю чай оптом",
		"💵 Ціна: 500 грн",
		"📍 Локація: Київ",
		"🔗 Посилання: https://www.olx.ua/d/obyavlenie/tea-1",
		"💳 Оплата: https://pay.example/tea",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("message missing %q, got:\n%s", want, got)
		}
	}
}

func TestFormatListingPlaceholders(t *testing.T) {
	l := model.Listing{
		Fingerprint: model.Fingerprint("https://site/ad/1"),
		URL:         "https://site/ad/1",
		Keyword:     "чай",
	}
	got := FormatListing(l, "https://pay.example/tea")

	if !strings.Contains(got, "🏷️ Назва: —") {
		t.Errorf("expected title placeholder, got:\n%s", got)
	}
	if !strings.Contains(got, "💵 Ціна: —") {
		t.Errorf("expected price placeholder, got:\n%s", got)
	}
}
