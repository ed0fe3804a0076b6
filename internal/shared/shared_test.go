package shared

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "zero", seconds: 0, want: "00:00"},
		{name: "under a minute", seconds: 30, want: "00:30"},
		{name: "one minute five", seconds: 65, want: "01:05"},
		{name: "two minutes five", seconds: 125, want: "02:05"},
		{name: "one hour does not roll over", seconds: 3600, want: "60:00"},
		{name: "past two hours", seconds: 7384, want: "123:04"},
		{name: "negative clamps to zero", seconds: -5, want: "00:00"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{name: "spaces become hyphens", input: "Road Trip Mix", want: "Road-Trip-Mix"},
		{name: "punctuation dropped", input: "Summer '24: Hits!", want: "Summer-24-Hits"},
		{name: "hyphen runs collapse", input: "Lo-fi -- beats", want: "Lo-fi-beats"},
		{name: "unicode letters kept", input: "Café Música", want: "Café-Música"},
		{name: "surrounding whitespace trimmed", input: "  Chill  ", want: "Chill"},
		{name: "empty falls back", input: "!!!", want: "playlist"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeQuery(t *testing.T) {
	tc := []struct {
		name  string
		query string
		want  string
	}{
		{name: "basic normalization", query: "Artist Name Song Title", want: "artist name song title"},
		{name: "extra whitespace", query: "  Artist   Name  Song ", want: "artist name song"},
		{name: "mixed case", query: "ArTiSt SoNg", want: "artist song"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeQuery(tt.query); got != tt.want {
				t.Errorf("NormalizeQuery() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("writes to provided writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "key", "value")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("child logger carries fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "resolver")
		logger.Info("searching")

		if !strings.Contains(buf.String(), "component=resolver") {
			t.Errorf("expected child logger fields, got %q", buf.String())
		}
	})

	t.Run("level filters debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.WarnLevel)
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"tracks": 2}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(compact) != `{"tracks":2}` {
		t.Errorf("unexpected compact output %s", compact)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"tracks\": 2") {
		t.Errorf("unexpected pretty output %s", pretty)
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique ids")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string length 36, got %d", len(a))
	}
}

func TestVerifyAndReadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(dir, "list.md")
		if err := os.WriteFile(path, []byte("# Mix\n"), 0644); err != nil {
			t.Fatal(err)
		}

		data, err := VerifyAndReadFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "# Mix\n" {
			t.Errorf("unexpected content %q", data)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := VerifyAndReadFile(filepath.Join(dir, "missing.md"))
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		_, err := VerifyAndReadFile(dir)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
