package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func commandMessage(chatID int64, updateID int, text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmdLen = i
	}
	return tgbotapi.Update{
		UpdateID: updateID,
		Message: &tgbotapi.Message{
			MessageID: updateID,
			Chat:      &tgbotapi.Chat{ID: chatID},
			Text:      text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: cmdLen},
			},
		},
	}
}

func TestRunDispatchesAndAdvancesOffset(t *testing.T) {
	b, api, _, _ := newTestBot(t)
	api.script = []updatesResult{
		{updates: []tgbotapi.Update{commandMessage(100, 7, "/status")}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	b.Run(ctx)

	requireContains(t, api.lastText(), "В базі")

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.offsets) < 2 {
		t.Fatalf("expected at least 2 polls, got %d", len(api.offsets))
	}
	if api.offsets[1] != 8 {
		t.Errorf("second poll offset = %d, want 8", api.offsets[1])
	}
}

func TestRunIgnoresNonCommandUpdates(t *testing.T) {
	b, api, _, _ := newTestBot(t)
	api.script = []updatesResult{
		{updates: []tgbotapi.Update{
			{UpdateID: 1},
			{UpdateID: 2, Message: &tgbotapi.Message{
				MessageID: 2,
				Chat:      &tgbotapi.Chat{ID: 100},
				Text:      "просто текст",
			}},
		}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	b.Run(ctx)

	if got := api.lastText(); got != "" {
		t.Errorf("expected no replies, got %q", got)
	}
}

func TestRunConflictBackoff(t *testing.T) {
	b, api, _, _ := newTestBot(t)
	api.defaultErr = &tgbotapi.Error{Code: 409, Message: "Conflict: terminated by other getUpdates request"}

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()
	b.Run(ctx)

	// 20ms cooldown per conflict keeps the loop from spinning: at most
	// a handful of polls fit in the window.
	if calls := api.callCount(); calls < 2 || calls > 6 {
		t.Errorf("got %d polls, want a slow cadence between 2 and 6", calls)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	b, _, _, _ := newTestBot(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestSendRejectsMalformedSubscriberID(t *testing.T) {
	b, api, _, _ := newTestBot(t)
	if err := b.Send("not-a-chat-id", "hi"); err == nil {
		t.Fatal("expected error for malformed subscriber id")
	}
	if got := api.lastText(); got != "" {
		t.Errorf("expected nothing sent, got %q", got)
	}
}

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "api 409", err: &tgbotapi.Error{Code: 409, Message: "Conflict"}, want: true},
		{name: "api 429", err: &tgbotapi.Error{Code: 429, Message: "Too Many Requests"}, want: false},
		{name: "wrapped text", err: errors.New("telegram: 409 Conflict"), want: true},
		{name: "network", err: errors.New("dial tcp: connection refused"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConflict(tt.err); got != tt.want {
				t.Errorf("isConflict(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
