package ui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/photowall/internal/scene"
	"github.com/five82/photowall/internal/state"
)

// ThemeKey is the store key the selected theme is persisted under.
const ThemeKey = "ui.theme"

const (
	defaultRefresh = 100 * time.Millisecond
	eventPaneLines = 7
	chromeLines    = 2 // header + footer
)

// SceneSource supplies the frame to draw.
type SceneSource interface {
	Snapshot() scene.Snapshot
}

// ThemeStore persists the theme preference.
type ThemeStore interface {
	Set(key, value string) error
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Scene     SceneSource
	Prefs     ThemeStore
	ThemeName string
	Refresh   time.Duration
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx     context.Context
	store   *state.Store
	scene   SceneSource
	prefs   ThemeStore
	logger  *slog.Logger
	refresh time.Duration
	keys    keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	follow   bool

	// Data state
	snapshot state.Snapshot
	frame    scene.Snapshot

	events  viewport.Model
	spinner spinner.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = defaultRefresh
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return Model{
		ctx:     ctx,
		store:   opts.Store,
		scene:   opts.Scene,
		prefs:   opts.Prefs,
		logger:  logger.With("component", "ui"),
		refresh: refresh,
		keys:    DefaultKeyMap(),
		theme:   GetTheme(opts.ThemeName),
		follow:  true,
		spinner: sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.refresh),
		m.spinner.Tick,
		m.fetchCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.events = viewport.New(msg.Width, eventPaneLines)
		}
		m.ready = true
		m.events.Width = msg.Width
		m.events.Height = eventPaneLines
		m.updateEvents()
		return m, nil

	case tickMsg:
		if m.ctx.Err() != nil {
			return m, tea.Quit
		}
		return m, tea.Batch(m.fetchCmd(), tickCmd(m.refresh))

	case frameMsg:
		m.snapshot = msg.state
		m.frame = msg.scene
		m.updateEvents()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefs != nil {
			if err := m.prefs.Set(ThemeKey, m.theme.Name); err != nil {
				m.logger.Warn("theme not saved", "theme", m.theme.Name, "error", err)
			}
		}
		m.updateEvents()

	case key.Matches(msg, m.keys.Up):
		m.follow = false
		m.events.LineUp(1)

	case key.Matches(msg, m.keys.Down):
		m.events.LineDown(1)
		m.follow = m.events.AtBottom()

	case key.Matches(msg, m.keys.Top):
		m.follow = false
		m.events.GotoTop()

	case key.Matches(msg, m.keys.Bottom):
		m.follow = true
		m.events.GotoBottom()

	case key.Matches(msg, m.keys.Follow):
		m.follow = !m.follow
		if m.follow {
			m.events.GotoBottom()
		}
	}
	return m, nil
}

func (m *Model) updateEvents() {
	if !m.ready {
		return
	}
	m.events.SetContent(renderEvents(m.theme.Styles(), m.snapshot.Events))
	if m.follow {
		m.events.GotoBottom()
	}
}

// sceneHeight is the number of rows left for the wall.
func (m Model) sceneHeight() int {
	h := m.height - chromeLines - eventPaneLines - 1
	if h < 0 {
		return 0
	}
	return h
}

func (m Model) renderMain() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(rasterize(m.frame, m.width, m.sceneHeight()).render(styles))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", max(m.width, 0))))
	b.WriteString("\n")
	b.WriteString(m.events.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// Messages

type tickMsg time.Time

type frameMsg struct {
	state state.Snapshot
	scene scene.Snapshot
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) fetchCmd() tea.Cmd {
	store, source := m.store, m.scene
	return func() tea.Msg {
		var msg frameMsg
		if store != nil {
			msg.state = store.Snapshot()
		}
		if source != nil {
			msg.scene = source.Snapshot()
		}
		return msg
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx is
// cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-m.ctx.Done():
			p.Quit()
		case <-stop:
		}
	}()

	_, err := p.Run()
	return err
}
