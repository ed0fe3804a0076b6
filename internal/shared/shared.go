// package shared defines shared helpers
package shared

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	slugStrip    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// FormatDuration renders seconds as MM:SS with zero-padded minutes.
//
// Minutes never roll over into hours: 3600 renders as "60:00".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Slugify turns a playlist name into a filesystem-safe base name.
//
// Everything but letters, digits, underscores, whitespace and hyphens is dropped,
// then runs of whitespace and hyphens collapse into a single hyphen.
func Slugify(name string) string {
	slug := strings.TrimSpace(slugStrip.ReplaceAllString(name, ""))
	slug = strings.Trim(slugCollapse.ReplaceAllString(slug, "-"), "-")
	if slug == "" {
		return "playlist"
	}
	return slug
}

// NormalizeQuery lowercases a search query and collapses its whitespace so equivalent queries share a cache key.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// MarshalJSON encodes data as JSON, indented when pretty is set.
func MarshalJSON(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// VerifyAndReadFile reads the regular file at path. A missing path or a directory is reported as [ErrInvalidArgument].
func VerifyAndReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidArgument, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
