package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sortviz/cmd/sortviz/ui"
	"sortviz/internal/config"
	"sortviz/internal/coordinator"
	"sortviz/internal/logging"
	"sortviz/internal/sorting"
)

const countStep = 5

type (
	tickMsg     time.Time
	sortDoneMsg struct {
		kind sorting.Kind
		err  error
	}
	configMsg struct{ cfg *config.Config }
)

// model is the interactive bar view. It never touches bars directly; it
// reads snapshots from the coordinator on every repaint.
type model struct {
	ctx    context.Context
	cancel context.CancelFunc
	coord  *coordinator.Coordinator

	styles  ui.Styles
	theme   string
	layout  ui.LayoutConfig
	frames  *ui.FrameCache
	about   *ui.AboutRenderer
	spinner spinner.Model

	reloads <-chan *config.Config
	refresh time.Duration

	width, height int
	count         int
	showMetadata  bool
	showAbout     bool
	kind          sorting.Kind // running or last run
	sorting       bool
	status        string
	succeeded     bool // last run finished cleanly; cleared by the next action
	err           error
}

func newModel(ctx context.Context, cancel context.CancelFunc, coord *coordinator.Coordinator, cfg *config.Config, reloads <-chan *config.Config) model {
	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	m := model{
		ctx:          ctx,
		cancel:       cancel,
		coord:        coord,
		styles:       styles,
		theme:        cfg.UI.Theme,
		frames:       ui.NewFrameCache(),
		spinner:      sp,
		reloads:      reloads,
		refresh:      cfg.UI.GetRefreshInterval(),
		width:        ui.CompactModeWidth,
		height:       ui.MinimumTerminalHeight + ui.MetadataHeight,
		count:        cfg.Sequence.Count,
		showMetadata: cfg.UI.ShowMetadata,
		kind:         sorting.KindShell,
		status:       "press 1-4 to sort, r to randomize",
	}
	m.layout = ui.NewLayoutConfig(m.width, m.height, m.showMetadata)
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick(), m.waitForConfig())
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) waitForConfig() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configMsg{cfg: cfg}
	}
}

func (m model) startSort(kind sorting.Kind) tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		return sortDoneMsg{kind: kind, err: coord.StartSort(ctx, kind)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout = ui.NewLayoutConfig(m.width, m.height, m.showMetadata)
		m.frames.Invalidate()
		if m.about != nil && m.about.Width() != m.layout.ContentWidth() {
			m.about = nil
		}
		if m.showAbout && m.about == nil {
			m = m.withAbout()
		}
		return m, nil

	case tickMsg:
		m.sorting = m.coord.Sorting()
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sortDoneMsg:
		if errors.Is(msg.err, coordinator.ErrAlreadyRunning) {
			m.err = msg.err
			return m, nil
		}
		m.sorting = m.coord.Sorting()
		switch {
		case msg.err == nil:
			m.err = nil
			m.succeeded = true
			stats, _ := m.coord.LastRun()
			m.status = fmt.Sprintf("%s done in %v", msg.kind.Title(), stats.Duration.Round(time.Millisecond))
		case errors.Is(msg.err, context.Canceled):
			m.status = "stopped"
		default:
			m.err = msg.err
			logging.UIError("%s failed: %v", msg.kind, msg.err)
		}
		return m, nil

	case configMsg:
		m.applyConfig(msg.cfg)
		return m, m.waitForConfig()
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.succeeded = false
	switch msg.String() {
	case "ctrl+c", "q":
		m.cancel()
		return m, tea.Quit

	case "esc":
		m.showAbout = false
		return m, nil

	case "1", "2", "3", "4":
		kind := sorting.Kinds()[int(msg.String()[0]-'1')]
		m.err = nil
		if m.coord.Sorting() {
			m.err = coordinator.ErrAlreadyRunning
			return m, nil
		}
		m.kind = kind
		m.sorting = true
		m.showAbout = false
		m.status = kind.Title() + " running"
		logging.UIDebug("start %s", kind)
		return m, m.startSort(kind)

	case "r":
		m.err = nil
		if err := m.coord.Randomize(m.count); err != nil {
			m.err = err
			return m, nil
		}
		m.status = fmt.Sprintf("randomized %d bars", m.count)
		return m, nil

	case "+", "=":
		return m.resize(m.count + countStep), nil

	case "-", "_":
		return m.resize(m.count - countStep), nil

	case "m":
		m.showMetadata = !m.showMetadata
		m.layout = ui.NewLayoutConfig(m.width, m.height, m.showMetadata)
		return m, nil

	case "?":
		m.showAbout = !m.showAbout
		if m.showAbout && m.about == nil {
			m = m.withAbout()
		}
		return m, nil
	}
	return m, nil
}

// resize changes the bar count and randomizes right away.
func (m model) resize(count int) model {
	m.err = nil
	if count < 1 {
		count = 1
	}
	if count > coordinator.MaxBars {
		count = coordinator.MaxBars
	}
	if err := m.coord.Randomize(count); err != nil {
		m.err = err
		return m
	}
	m.count = count
	m.status = fmt.Sprintf("randomized %d bars", m.count)
	return m
}

func (m *model) applyConfig(cfg *config.Config) {
	logging.SetLevel(cfg.Logging.Level)
	m.coord.SetTiming(timingFrom(cfg))
	m.err = nil
	m.succeeded = false
	if err := m.coord.SetRange(cfg.Sequence.MinValue, cfg.Sequence.MaxValue); err != nil {
		m.err = err
	}
	if cfg.UI.Theme != m.theme {
		m.theme = cfg.UI.Theme
		m.styles = ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
		m.spinner.Style = m.styles.Spinner
		m.about = nil
		m.frames.Invalidate()
	}
	m.refresh = cfg.UI.GetRefreshInterval()
	m.count = cfg.Sequence.Count
	m.showMetadata = cfg.UI.ShowMetadata
	m.layout = ui.NewLayoutConfig(m.width, m.height, m.showMetadata)
	m.status = "config reloaded"
	logging.UI("config reloaded")
}

func (m model) View() string {
	var sections []string

	header := m.styles.Header.Render("sortviz")
	badge := m.styles.Badge.Render(m.kind.Title())
	state := m.styles.Muted.Render(" idle")
	if m.sorting {
		state = " " + m.spinner.View() + m.styles.Muted.Render("sorting")
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Center, header, " ", badge, state), "")

	states := m.coord.Bars()
	if m.showAbout {
		sections = append(sections, m.renderAbout())
	} else {
		key := ui.FrameKey(states, m.layout, m.styles.Theme.IsDark)
		sections = append(sections, m.frames.Render(key, func() string {
			return ui.RenderBars(states, m.layout, m.styles)
		}))
		if labels := ui.RenderLabels(states, m.styles); labels != "" {
			sections = append(sections, labels)
		}
	}

	if m.showMetadata && !m.showAbout {
		snap, ok := m.coord.Metadata()
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Bottom,
			ui.RenderMetadata(snap, ok, m.styles), "  ", ui.RenderLegend(m.styles)))
	}

	sections = append(sections, m.statusLine())

	sections = append(sections, m.styles.RenderDivider(m.layout.ContentWidth()), m.styles.Footer.Render(helpLine(m.layout.IsCompact)))
	return strings.Join(sections, "\n")
}

func (m model) statusLine() string {
	switch {
	case errors.Is(m.err, coordinator.ErrBusy), errors.Is(m.err, coordinator.ErrAlreadyRunning):
		return m.styles.Warning.Render(m.err.Error())
	case m.err != nil:
		return m.styles.Error.Render("error: " + m.err.Error())
	case m.succeeded:
		return m.styles.Success.Render(m.status)
	}
	return m.styles.Info.Render(m.status)
}

// withAbout builds the notes renderer for the current width and theme.
func (m model) withAbout() model {
	r, err := ui.NewAboutRenderer(m.layout.ContentWidth(), ui.StyleFor(m.styles.Theme))
	if err != nil {
		logging.UIError("about renderer: %v", err)
		m.about = nil
		return m
	}
	m.about = r
	return m
}

func (m model) renderAbout() string {
	if m.about == nil {
		return m.styles.Muted.Render(ui.Notes(m.kind))
	}
	out, err := m.about.Render(m.kind)
	if err != nil {
		return m.styles.Error.Render(err.Error())
	}
	return out
}

func helpLine(compact bool) string {
	if compact {
		return "1-4 sort · r rand · +/- bars · m meta · ? about · q quit"
	}
	return "1 shell · 2 insertion · 3 bubble · 4 quick · r randomize · +/- bar count · m metadata · ? about · q quit"
}
