package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/playlist-creator/internal/models"
)

var generatedAt = time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)

func testPlaylist() models.Playlist {
	return models.Playlist{
		ID:          "37i9dQZF1DXcBWIGoYBM5M",
		Name:        "Road Trip",
		Description: "Songs for the drive",
		Owner:       "spotify",
		URL:         "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
		Tracks: []models.Track{
			{
				Title:     "Song A",
				Artists:   []string{"Artist X"},
				Album:     "Album One",
				Duration:  125,
				SourceURL: "https://open.spotify.com/track/aaa",
				VideoURL:  "https://www.youtube.com/watch?v=abc123",
				SearchURL: "https://www.youtube.com/results?search_query=Artist+X+Song+A",
			},
			{
				Title:     "Song B",
				Artists:   []string{"Artist Y", "Artist Z"},
				Duration:  65,
				SourceURL: "https://open.spotify.com/track/bbb",
				SearchURL: "https://www.youtube.com/results?search_query=Artist+Y+Artist+Z+Song+B",
			},
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Run("header", func(t *testing.T) {
		output := string(RenderMarkdown(testPlaylist(), generatedAt))

		for _, want := range []string{
			"# Road Trip\n",
			"**Created by:** spotify\n",
			"**Total tracks:** 2\n",
			"**Total duration:** 03:10\n",
			"**Generated on:** March 07, 2025\n",
			"**Description:** Songs for the drive\n",
			"## Tracks\n",
			"*Generated using Spotify Web API with YouTube link integration*",
			"**Original Spotify Playlist:** [Listen on Spotify](https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("resolved entry prefers YouTube", func(t *testing.T) {
		output := string(RenderMarkdown(testPlaylist(), generatedAt))

		want := "1. **Song A** by Artist X\n" +
			"   - Album: *Album One*\n" +
			"   - Duration: 02:05\n" +
			"   - [Listen on YouTube](https://www.youtube.com/watch?v=abc123)\n" +
			"   - [Backup: Listen on Spotify](https://open.spotify.com/track/aaa)\n"
		if !strings.Contains(output, want) {
			t.Errorf("Markdown missing resolved entry, got:\n%s", output)
		}
	})

	t.Run("unresolved entry falls back to search", func(t *testing.T) {
		output := string(RenderMarkdown(testPlaylist(), generatedAt))

		want := "2. **Song B** by Artist Y, Artist Z\n" +
			"   - Duration: 01:05\n" +
			"   - [Search on YouTube](https://www.youtube.com/results?search_query=Artist+Y+Artist+Z+Song+B)\n" +
			"   - [Listen on Spotify](https://open.spotify.com/track/bbb)\n"
		if !strings.Contains(output, want) {
			t.Errorf("Markdown missing unresolved entry, got:\n%s", output)
		}
		if strings.Contains(output, "2. **Song B** by Artist Y, Artist Z\n   - Album") {
			t.Error("empty album should be omitted")
		}
	})

	t.Run("duration line", func(t *testing.T) {
		p := models.Playlist{Name: "One", Tracks: []models.Track{
			{Title: "Song A", Artists: []string{"Artist X"}, Duration: 125},
		}}

		if output := string(RenderMarkdown(p, generatedAt)); !strings.Contains(output, "Duration: 02:05") {
			t.Errorf("expected Duration: 02:05, got:\n%s", output)
		}
	})

	t.Run("escapes markdown", func(t *testing.T) {
		p := models.Playlist{Name: "Best #1 Hits", Tracks: []models.Track{
			{Title: "*Star* [Live]", Artists: []string{"A_B"}, Album: "Vol. 2", Duration: 10},
		}}
		output := string(RenderMarkdown(p, generatedAt))

		for _, want := range []string{
			"# Best \\#1 Hits\n",
			"1. **\\*Star\\* \\[Live\\]** by A\\_B\n",
			"   - Album: *Vol\\. 2*\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("empty playlist", func(t *testing.T) {
		output := string(RenderMarkdown(models.Playlist{Name: "Empty"}, generatedAt))

		if !strings.Contains(output, "**Total tracks:** 0\n") {
			t.Errorf("expected zero track count, got:\n%s", output)
		}
		if !strings.Contains(output, "**Total duration:** 00:00\n") {
			t.Errorf("expected zero duration, got:\n%s", output)
		}
		if strings.Contains(output, "1. ") {
			t.Errorf("expected no entries, got:\n%s", output)
		}
		if strings.Contains(output, "**Description:**") || strings.Contains(output, "**Created by:**") {
			t.Errorf("expected optional header lines to be omitted, got:\n%s", output)
		}
		if strings.Contains(output, "Original Spotify Playlist") {
			t.Errorf("expected no playlist link, got:\n%s", output)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := RenderMarkdown(testPlaylist(), generatedAt)
		b := RenderMarkdown(testPlaylist(), generatedAt)
		if string(a) != string(b) {
			t.Error("rendering the same playlist twice should give identical output")
		}
	})
}

func TestEscape(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "normal text", in: "Normal text", want: "Normal text"},
		{name: "asterisks", in: "Text with *asterisk*", want: "Text with \\*asterisk\\*"},
		{name: "brackets", in: "Text with [brackets]", want: "Text with \\[brackets\\]"},
		{name: "backslash", in: `a\b`, want: `a\\b`},
		{name: "ampersand", in: "Simon & Garfunkel", want: "Simon \\& Garfunkel"},
		{name: "line breaks", in: "line one\r\nline two", want: "line one&#13;&#10;line two"},
		{name: "surrounding whitespace", in: " padded\t", want: "&#32;padded&#9;"},
		{name: "inner spaces kept", in: "a  b", want: "a  b"},
		{name: "whitespace only", in: "  ", want: "&#32;&#32;"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Escape(tt.in)
			if got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	t.Run("Unescape keeps stray backslashes", func(t *testing.T) {
		if got := Unescape(`C:\Music \*x\*`); got != `C:\Music *x*` {
			t.Errorf("unexpected unescape %q", got)
		}
	})

	t.Run("Unescape keeps malformed references", func(t *testing.T) {
		for _, in := range []string{"R&B", "&#;", "&#x20;", "&#12", "a &"} {
			if got := Unescape(in); got != in {
				t.Errorf("Unescape(%q) = %q", in, got)
			}
		}
	})

	t.Run("reverses escaping exactly", func(t *testing.T) {
		for _, in := range []string{" Intro ", "\tTab\n", "&#32; literal", "\\&", "\u00a0nbsp\u00a0", ""} {
			if got := Unescape(Escape(in)); got != in {
				t.Errorf("Unescape(Escape(%q)) = %q", in, got)
			}
		}
	})
}
