package notify

import (
	"fmt"
	"strings"

	"lead_bot/internal/model"
)

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// FormatListing renders a listing as a notification message.
func FormatListing(l model.Listing, wallet string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📍 Новий потенційний клієнт (%s)\n", orDash(l.Source))
	fmt.Fprintf(&b, "🔑 Ключ: %s\n", l.Keyword)
	fmt.Fprintf(&b, "🏷️ Назва: %s\n", orDash(l.Title))
	fmt.Fprintf(&b, "💵 Ціна: %s\n", orDash(l.Price))
	fmt.Fprintf(&b, "📍 Локація: %s\n", orDash(l.Location))
	fmt.Fprintf(&b, "🕒 Оновлено: %s\n", l.PublishedAt)
	fmt.Fprintf(&b, "🔗 Посилання: %s\n", l.URL)
	fmt.Fprintf(&b, "💳 Оплата: %s", wallet)
	return b.String()
}
