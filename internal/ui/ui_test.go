package ui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playlist-creator/internal/models"
	"github.com/desertthunder/playlist-creator/internal/shared"
	"github.com/desertthunder/playlist-creator/internal/tasks"
	tu "github.com/desertthunder/playlist-creator/internal/testing"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// blockingFetcher waits until the export context is cancelled.
type blockingFetcher struct{}

func (blockingFetcher) FetchPlaylist(ctx context.Context, ref string) (*models.Playlist, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingFetcher) Name() string { return "blocking" }

func newTestModel(t *testing.T, fetcher *tu.MockFetcher, formats ...tasks.Format) *Model {
	t.Helper()
	resolver := &tu.MockResolver{VideoIDs: map[string]string{"Song A": "abc123"}}
	exporter := tasks.NewExporter(fetcher, resolver, shared.NewLogger(io.Discard))
	opts := tasks.ExportOpts{OutputDir: t.TempDir(), Formats: formats, Search: true}
	return NewModel(context.Background(), exporter, "abc123", opts)
}

// drive runs cmd and feeds every resulting message back into the model until the export completes.
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for range 100 {
		if cmd == nil {
			return
		}
		_, cmd = m.Update(cmd())
		if m.view == ResultView {
			return
		}
	}
	t.Fatal("export did not complete")
}

func TestModel(t *testing.T) {
	t.Run("initial selection", func(t *testing.T) {
		m := newTestModel(t, &tu.MockFetcher{}, tasks.FormatMarkdown, tasks.FormatYouTube)

		if m.view != FormatView {
			t.Errorf("expected FormatView, got %v", m.view)
		}
		if got := m.Formats(); !slices.Equal(got, []tasks.Format{tasks.FormatMarkdown, tasks.FormatYouTube}) {
			t.Errorf("unexpected formats %v", got)
		}
		if !m.Search() {
			t.Error("expected search enabled")
		}
		if m.Init() != nil {
			t.Error("expected no initial command")
		}
	})

	t.Run("keys", func(t *testing.T) {
		m := newTestModel(t, &tu.MockFetcher{}, tasks.FormatMarkdown)

		m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m.Update(runes("x"))
		if !m.selected[tasks.FormatSpotify] {
			t.Error("expected spotify toggled on")
		}

		m.Update(tea.KeyMsg{Type: tea.KeyUp})
		m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
		if m.selected[tasks.FormatMarkdown] {
			t.Error("expected markdown toggled off")
		}

		m.Update(runes("a"))
		if len(m.Formats()) != len(tasks.AllFormats) {
			t.Errorf("expected all formats, got %v", m.Formats())
		}
		m.Update(runes("a"))
		if len(m.Formats()) != 0 {
			t.Errorf("expected no formats, got %v", m.Formats())
		}

		m.Update(runes("s"))
		if m.Search() {
			t.Error("expected search toggled off")
		}

		for range 10 {
			m.Update(tea.KeyMsg{Type: tea.KeyDown})
		}
		if m.cursor != len(tasks.AllFormats) {
			t.Errorf("expected cursor on search row, got %d", m.cursor)
		}
		m.Update(runes("x"))
		if !m.Search() {
			t.Error("expected search row to toggle search")
		}
	})

	t.Run("enter without formats warns", func(t *testing.T) {
		m := newTestModel(t, &tu.MockFetcher{}, tasks.FormatMarkdown)
		m.selected[tasks.FormatMarkdown] = false

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd != nil {
			t.Error("expected no command")
		}
		if m.view != FormatView {
			t.Errorf("expected to stay on FormatView, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Select at least one format") {
			t.Errorf("expected warning in view, got:\n%s", m.View())
		}
	})

	t.Run("quit cancels", func(t *testing.T) {
		m := newTestModel(t, &tu.MockFetcher{}, tasks.FormatMarkdown)

		_, cmd := m.Update(runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
		if !m.Cancelled() {
			t.Error("expected model cancelled")
		}
	})

	t.Run("format view", func(t *testing.T) {
		m := newTestModel(t, &tu.MockFetcher{}, tasks.FormatMarkdown)
		view := m.View()

		for _, want := range []string{"Export abc123", "[x] Markdown document", "[ ] Spotify index (M3U)", "Search YouTube for direct links"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in view, got:\n%s", want, view)
			}
		}
	})

	t.Run("export runs to result view", func(t *testing.T) {
		fetcher := &tu.MockFetcher{Playlist: tu.SamplePlaylist()}
		m := newTestModel(t, fetcher, tasks.FormatMarkdown, tasks.FormatYouTube)
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

		m.view = ExportView
		if !strings.Contains(m.View(), "Exporting Playlist") {
			t.Errorf("unexpected export view:\n%s", m.View())
		}
		drive(t, m, m.startExport())

		result, err := m.Result()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result == nil || len(result.Files) != 2 || result.Resolved != 1 {
			t.Fatalf("unexpected result %+v", result)
		}
		tu.AssertFileExists(t, filepath.Join(result.Directory, "Road-Trip-2024-playlist.md"))

		view := m.View()
		for _, want := range []string{"Export Complete!", "Resolved: 1/3", "No video found for 2 tracks"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected %q in view, got:\n%s", want, view)
			}
		}

		_, cmd := m.Update(runes("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if m.Cancelled() {
			t.Error("completed export should not be cancelled")
		}
	})

	t.Run("ctrl+c during export cancels it", func(t *testing.T) {
		dir := t.TempDir()
		exporter := tasks.NewExporter(blockingFetcher{}, nil, shared.NewLogger(io.Discard))
		m := NewModel(context.Background(), exporter, "abc123",
			tasks.ExportOpts{OutputDir: dir, Formats: []tasks.Format{tasks.FormatMarkdown}})

		if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
			t.Fatal("expected export command")
		}
		if m.view != ExportView {
			t.Fatalf("expected ExportView, got %v", m.view)
		}

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
		if !m.Cancelled() {
			t.Error("expected model cancelled")
		}

		m.Wait()
		if outcome := <-m.doneChan; !errors.Is(outcome.err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", outcome.err)
		}

		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("expected no output after cancellation, got %d entries", len(entries))
		}
	})

	t.Run("export failure", func(t *testing.T) {
		fetcher := &tu.MockFetcher{Err: shared.ErrPlaylistNotFound}
		m := newTestModel(t, fetcher, tasks.FormatMarkdown)
		m.view = ExportView

		drive(t, m, m.startExport())

		if _, err := m.Result(); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
		if !strings.Contains(m.View(), "Export failed") {
			t.Errorf("expected failure view, got:\n%s", m.View())
		}
	})
}

func TestTrackItems(t *testing.T) {
	p := tu.SamplePlaylist()
	p.Tracks[0] = p.Tracks[0].WithLinks(shared.YouTubeWatchURL("abc123"), "")

	items := trackItems(p.Tracks)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	first := items[0].(trackItem)
	if first.Title() != "1. Artist X - Song A" {
		t.Errorf("unexpected title %q", first.Title())
	}
	if !strings.Contains(first.Description(), "02:05 • video • https://www.youtube.com/watch?v=abc123") {
		t.Errorf("unexpected description %q", first.Description())
	}
	if second := items[1].(trackItem); !strings.Contains(second.Description(), "search") {
		t.Errorf("expected search status, got %q", second.Description())
	}
	if first.FilterValue() != "Artist X Song A" {
		t.Errorf("unexpected filter value %q", first.FilterValue())
	}
}

func TestPalette(t *testing.T) {
	p := Styles()
	for _, s := range []string{p.Title("a"), p.OK("b"), p.Err("c"), p.Warn("d"), p.Help("e")} {
		if s == "" {
			t.Error("expected rendered text")
		}
	}
}
