package bot

import (
	"fmt"
	"strings"
)

// Stats holds the discovery counters reported by /stats.
type Stats struct {
	Today     int
	Yesterday int
	ThisMonth int
	PrevMonth int
}

// DeltaMark renders a directional delta indicator: green for growth,
// red for decline, the neutral mark for no change.
func DeltaMark(delta int) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("🟢 +%d", delta)
	case delta < 0:
		return fmt.Sprintf("🔴 %d", delta)
	default:
		return "⚪︎ 0"
	}
}

// FormatStats renders the /stats report.
func FormatStats(s Stats, wallet string) string {
	var b strings.Builder
	b.WriteString("📊 Статистика\n")
	fmt.Fprintf(&b, "Сьогодні: %d %s\n", s.Today, DeltaMark(s.Today-s.Yesterday))
	fmt.Fprintf(&b, "Вчора: %d\n", s.Yesterday)
	fmt.Fprintf(&b, "Цей місяць: %d %s\n", s.ThisMonth, DeltaMark(s.ThisMonth-s.PrevMonth))
	fmt.Fprintf(&b, "Минул. місяць: %d\n", s.PrevMonth)
	fmt.Fprintf(&b, "💳 %s", wallet)
	return b.String()
}
