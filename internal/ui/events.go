package ui

import (
	"fmt"
	"strings"

	"github.com/five82/photowall/internal/wall"
)

// formatEvent renders one coordinator event for the event pane.
func formatEvent(styles Styles, e wall.Event) string {
	ts := styles.FaintText.Render(e.Time.Format("15:04:05"))
	switch e.Kind {
	case wall.EventPoll:
		if e.Err != nil {
			return ts + " " + styles.DangerText.Render("poll failed") + " " + e.Err.Error()
		}
		if e.New == 0 {
			return ts + " " + styles.MutedText.Render(fmt.Sprintf("poll: no new entries (%d listed)", e.Total))
		}
		return ts + " " + styles.AccentText.Render(fmt.Sprintf("poll: %d new of %d", e.New, e.Total))
	case wall.EventResize:
		return ts + " " + styles.WarningText.Render(fmt.Sprintf("grid resized to %d rows", e.Rows)) +
			" " + styles.MutedText.Render(fmt.Sprintf("(%.0fx%.0f)", e.CellWidth, e.CellHeight))
	default:
		badge := styles.PhaseStyle(e.Phase).Render(fmt.Sprintf("%-11s", e.Phase))
		line := ts + " " + badge + " " + eventLabel(e.Item)
		if e.Err != nil {
			line += " " + styles.DangerText.Render(e.Err.Error())
		}
		return line
	}
}

func eventLabel(item wall.Item) string {
	if item.Caption != "" && item.Caption != item.URL {
		return item.Caption + " " + item.URL
	}
	return item.URL
}

// renderEvents joins the formatted events, oldest first.
func renderEvents(styles Styles, events []wall.Event) string {
	if len(events) == 0 {
		return styles.MutedText.Render("Waiting for the first poll...")
	}
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = formatEvent(styles, e)
	}
	return strings.Join(lines, "\n")
}
