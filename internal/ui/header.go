package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/photowall/internal/state"
)

const logo = "PHOTOWALL"

// renderHeader renders the status line: logo, counters, grid shape and the
// phase of the item in flight.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	parts := []string{styles.Logo.Render(logo)}
	parts = append(parts, counters(styles, snap)...)
	parts = append(parts, styles.MutedText.Render(fmt.Sprintf("grid %dx%d", snap.Rows, snap.Columns)))

	if snap.InFlight {
		badge := styles.PhaseStyle(snap.CurrentPhase).Render(string(snap.CurrentPhase))
		parts = append(parts, m.spinner.View()+" "+badge+" "+styles.Text.Render(truncate(snap.Current.Caption, 32)))
	}
	if snap.IsOffline() {
		parts = append(parts, styles.DangerText.Render("OFFLINE"))
	} else if snap.LastError != nil {
		parts = append(parts, styles.WarningText.Render("poll failed"))
	}

	line := strings.Join(parts, styles.FaintText.Render(" │ "))
	return styles.Header.Width(m.width).Render(line)
}

func counters(styles Styles, snap state.Snapshot) []string {
	return []string{
		styles.Text.Render(fmt.Sprintf("known %d", snap.Known)),
		styles.AccentText.Render(fmt.Sprintf("queued %d", snap.Pending)),
		styles.SuccessText.Render(fmt.Sprintf("shown %d", snap.Committed)),
		failedCounter(styles, snap.Failed),
	}
}

func failedCounter(styles Styles, n int) string {
	text := fmt.Sprintf("failed %d", n)
	if n == 0 {
		return styles.MutedText.Render(text)
	}
	return styles.DangerText.Render(text)
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, styles.WarningText.Render(h.Key)+" "+h.Desc)
	}
	follow := "follow"
	if !m.follow {
		follow = "paused"
	}
	parts = append(parts, styles.FaintText.Render(follow), styles.FaintText.Render(m.theme.Name))
	return styles.Footer.Width(m.width).Render(strings.Join(parts, "  "))
}

func truncate(s string, limit int) string {
	if limit <= 0 || lipgloss.Width(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}
