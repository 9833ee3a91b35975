package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// formatDuration renders a dip duration. Seconds only show when present, and
// an unrecorded duration still renders as "0 min" rather than blank.
func formatDuration(minutes, seconds int) string {
	if seconds > 0 {
		return fmt.Sprintf("%d min %d s", minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%d min", minutes)
	}
	return "0 min"
}

// formatDurationPtr is formatDuration over the record's nullable fields.
func formatDurationPtr(minutes, seconds *int) string {
	var m, s int
	if minutes != nil {
		m = *minutes
	}
	if seconds != nil {
		s = *seconds
	}
	return formatDuration(m, s)
}

// temperatureColor maps a water temperature to a display color in four
// bands. Boundary values belong to the colder band: 2.0 is still blue,
// 5.0 still cyan, 8.0 still green.
func temperatureColor(temp *float64) lipgloss.Color {
	if temp == nil {
		return lipgloss.Color("#94a3b8") // gray for unknown
	}
	switch {
	case *temp <= 2:
		return lipgloss.Color("#3b82f6") // blue for very cold
	case *temp <= 5:
		return lipgloss.Color("#06b6d4") // cyan for cold
	case *temp <= 8:
		return lipgloss.Color("#10b981") // green for cool
	default:
		return lipgloss.Color("#f59e0b") // orange for warmer
	}
}

// formatTemperature renders a nullable temperature with its unit.
func formatTemperature(temp *float64) string {
	if temp == nil {
		return "–"
	}
	return fmt.Sprintf("%.1f °C", *temp)
}

// formatDate renders a backend date as dd.mm.yyyy. Unparseable input is
// shown as-is; the backend owns the format.
func formatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, date); err != nil {
			return date
		}
	}
	return t.Format("02.01.2006")
}

// formatTotalDuration renders an aggregate number of seconds as hours and
// minutes for the stats view.
func formatTotalDuration(totalSeconds int) string {
	if totalSeconds <= 0 {
		return "0 min"
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%d h %d min", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%d s", totalSeconds)
}
