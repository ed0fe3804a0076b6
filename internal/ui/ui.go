package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playlist-creator/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FormatView ViewState = iota
	ExportView
	ResultView
)

var formatLabels = map[tasks.Format]string{
	tasks.FormatMarkdown: "Markdown document",
	tasks.FormatSpotify:  "Spotify index (M3U)",
	tasks.FormatYouTube:  "YouTube index (M3U)",
	tasks.FormatSearch:   "YouTube search index (M3U)",
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	exporter     *tasks.Exporter
	ref          string
	opts         tasks.ExportOpts
	cursor       int
	selected     map[tasks.Format]bool
	width        int
	height       int
	spinner      spinner.Model
	trackList    list.Model
	progressChan chan tasks.ProgressUpdate
	doneChan     chan exportOutcome
	stop         context.CancelFunc
	finished     chan struct{}
	progress     tasks.ProgressUpdate
	result       *tasks.ExportResult
	err          error
	warning      string
	cancelled    bool
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model that exports ref with exporter. The formats and search flag of opts are the initial
// selection.
func NewModel(ctx context.Context, exporter *tasks.Exporter, ref string, opts tasks.ExportOpts) *Model {
	selected := map[tasks.Format]bool{}
	for _, f := range opts.Formats {
		selected[f] = true
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.title.UnsetMarginBottom()

	return &Model{
		ctx:      ctx,
		view:     FormatView,
		exporter: exporter,
		ref:      ref,
		opts:     opts,
		selected: selected,
		spinner:  sp,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init does nothing until formats are confirmed.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Formats returns the selected formats in canonical order.
func (m *Model) Formats() []tasks.Format {
	var formats []tasks.Format
	for _, f := range tasks.AllFormats {
		if m.selected[f] {
			formats = append(formats, f)
		}
	}
	return formats
}

// Search reports whether link resolution is enabled.
func (m *Model) Search() bool { return m.opts.Search }

// Result returns the export result once the export has finished.
func (m *Model) Result() (*tasks.ExportResult, error) { return m.result, m.err }

// Cancelled reports whether the user quit before the export finished.
func (m *Model) Cancelled() bool { return m.cancelled }

// Wait blocks until a started export has returned.
func (m *Model) Wait() {
	if m.finished != nil {
		<-m.finished
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == ResultView && m.result != nil {
			m.trackList.SetSize(max(msg.Width-4, 0), max(msg.Height-8, 0))
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case FormatView:
			return m.handleFormatKeys(msg)
		case ExportView:
			if msg.String() == "ctrl+c" {
				m.cancelled = true
				m.stopExport()
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.view != ExportView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgExportComplete:
			outcome := msg.data.(exportOutcome)
			m.result = outcome.result
			m.err = outcome.err
			m.progressChan = nil
			m.doneChan = nil
			m.stopExport()
			m.view = ResultView
			if m.result != nil {
				m.trackList = list.New(trackItems(m.result.Playlist.Tracks), list.NewDefaultDelegate(), 0, 0)
				m.trackList.Title = m.result.Playlist.Name
				m.trackList.SetSize(max(m.width-4, 0), max(m.height-8, 0))
			}
			return m, nil
		}
	}

	if m.view == ResultView && m.result != nil {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case FormatView:
		return m.renderFormats()
	case ExportView:
		return m.renderExport()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleFormatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := len(tasks.AllFormats)

	switch {
	case key.Matches(msg, m.keys.quit):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < rows {
			m.cursor++
		}
	case key.Matches(msg, m.keys.toggle):
		if m.cursor == rows {
			m.opts.Search = !m.opts.Search
		} else {
			f := tasks.AllFormats[m.cursor]
			m.selected[f] = !m.selected[f]
		}
		m.warning = ""
	case key.Matches(msg, m.keys.all):
		all := len(m.Formats()) != rows
		for _, f := range tasks.AllFormats {
			m.selected[f] = all
		}
		m.warning = ""
	case key.Matches(msg, m.keys.search):
		m.opts.Search = !m.opts.Search
	case key.Matches(msg, m.keys.enter):
		if len(m.Formats()) == 0 {
			m.warning = "Select at least one format"
			return m, nil
		}
		m.view = ExportView
		return m, tea.Batch(m.spinner.Tick, m.startExport())
	}

	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.result != nil && m.trackList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.trackList, cmd = m.trackList.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	if m.result == nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) startExport() tea.Cmd {
	opts := m.opts
	opts.Formats = m.Formats()

	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.doneChan = make(chan exportOutcome, 1)
	m.finished = make(chan struct{})

	ctx, stop := context.WithCancel(m.ctx)
	m.stop = stop

	exporter, ref := m.exporter, m.ref
	progress, done, finished := m.progressChan, m.doneChan, m.finished
	go func() {
		defer close(finished)
		result, err := exporter.Export(ctx, ref, opts, progress)
		close(progress)
		done <- exportOutcome{result: result, err: err}
	}()

	return m.waitForProgress()
}

func (m *Model) stopExport() {
	if m.stop != nil {
		m.stop()
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	if progress == nil {
		return nil
	}

	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			outcome := <-done
			return exportCompleteMsg(outcome.result, outcome.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderFormats() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Export %s", m.ref)))
	b.WriteString("\n")

	for i, f := range tasks.AllFormats {
		b.WriteString(m.renderRow(i, m.selected[f], formatLabels[f]))
	}
	b.WriteString("\n")
	b.WriteString(m.renderRow(len(tasks.AllFormats), m.opts.Search, "Search YouTube for direct links"))

	if m.warning != "" {
		b.WriteString("\n" + styles.warn.Render(m.warning) + "\n")
	}

	b.WriteString("\n" + m.help.FullHelpView(m.keys.FullHelp()))
	return b.String()
}

func (m *Model) renderRow(i int, checked bool, label string) string {
	cursor := "  "
	if m.cursor == i {
		cursor = styles.title.UnsetMarginBottom().Render("> ")
	}

	box := "[ ]"
	if checked {
		box = styles.ok.Render("[x]")
	}
	return fmt.Sprintf("%s%s %s\n", cursor, box, label)
}

func (m *Model) renderExport() string {
	title := styles.title.Render("Exporting Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchPlaylist:
		phase = "Fetching playlist..."
	case tasks.SearchTracks:
		phase = fmt.Sprintf("Searching tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.WriteFiles:
		phase = fmt.Sprintf("Writing files (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s %s\n%s", title, m.spinner.View(), phase, styles.help.Render(m.progress.Message))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Export failed: %v\n\nPress q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress q to quit")
	}

	title := styles.ok.Render("✓ Export Complete!")
	info := fmt.Sprintf("\nDirectory: %s\nFiles: %d\nResolved: %d/%d", m.result.Directory, len(m.result.Files),
		m.result.Resolved, len(m.result.Playlist.Tracks))
	if m.result.Misses > 0 {
		info += "\n" + styles.warn.Render(fmt.Sprintf("No video found for %d tracks", m.result.Misses))
	}

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.trackList.View())
}
