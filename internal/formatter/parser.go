package formatter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/desertthunder/playlist-creator/internal/models"
	"github.com/desertthunder/playlist-creator/internal/shared"
)

const defaultPlaylistName = "Playlist"

var (
	entryPattern     = regexp.MustCompile(`^\s*(\d+)\.\s+\*\*(.*?)\*\*\s+by\b\s*(.*?)\s*$`)
	numberedPattern  = regexp.MustCompile(`^\s*\d+\.\s`)
	albumPattern     = regexp.MustCompile(`^\s*(?:-\s*)?Album:\s*\*(.+)\*\s*$`)
	durationPattern  = regexp.MustCompile(`^\s*(?:-\s*)?Duration:\s*(\d+):(\d{2})\s*$`)
	videoPattern     = regexp.MustCompile(`\[[^\]]*Listen on YouTube[^\]]*\]\((https://www\.youtube\.com/watch\?v=[\w-]+)\)`)
	sourcePattern    = regexp.MustCompile(`\[[^\]]*Listen on Spotify[^\]]*\]\((https://open\.spotify\.com/[^)\s]+)\)`)
	titlePattern     = regexp.MustCompile(`^#\s+(.+?)\s*$`)
	ownerPattern     = regexp.MustCompile(`^\*\*Created by:\*\*\s*(.+?)\s*$`)
	descPattern      = regexp.MustCompile(`^\*\*Description:\*\*\s*(.+?)\s*$`)
	originalPattern  = regexp.MustCompile(`^\*\*Original Spotify Playlist:\*\*`)
	sectionBreakLine = regexp.MustCompile(`^\s*(---+|#{1,6}\s.*)\s*$`)
)

// Mismatch records a numbered line that does not follow the entry grammar.
type Mismatch struct {
	Line int
	Text string
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("line %d: %v: %q", m.Line, shared.ErrParseMismatch, m.Text)
}

func (m Mismatch) Unwrap() error { return shared.ErrParseMismatch }

// Document is the result of parsing a Markdown playlist document.
type Document struct {
	Playlist   models.Playlist
	Mismatches []Mismatch
}

// ParseMarkdown recovers the playlist from a document produced by [RenderMarkdown].
//
// Entries start at a "N. **Title** by Artist" line and run until the next entry, a horizontal rule or a heading.
// Numbered lines that do not match the entry grammar are recorded as mismatches and skipped, other free text is ignored.
// Content never causes an error.
func ParseMarkdown(content []byte) *Document {
	doc := &Document{Playlist: models.Playlist{Name: defaultPlaylistName}}

	var current *models.Track
	flush := func() {
		if current != nil {
			doc.Playlist.Tracks = append(doc.Playlist.Tracks, *current)
			current = nil
		}
	}

	seenTitle := false
	for i, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")

		if m := entryPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = newParsedTrack(Unescape(m[2]), Unescape(m[3]))
			continue
		}

		if numberedPattern.MatchString(line) {
			flush()
			doc.Mismatches = append(doc.Mismatches, Mismatch{Line: i + 1, Text: line})
			continue
		}

		if sectionBreakLine.MatchString(line) {
			flush()
			if m := titlePattern.FindStringSubmatch(line); m != nil && !seenTitle {
				doc.Playlist.Name = Unescape(m[1])
				seenTitle = true
			}
			continue
		}

		if current == nil {
			parseHeaderLine(&doc.Playlist, line)
			continue
		}

		parseEntryLine(current, line)
	}
	flush()

	return doc
}

func newParsedTrack(title, artist string) *models.Track {
	track := &models.Track{
		Title:     title,
		SearchURL: shared.YouTubeSearchURL(shared.SearchQuery(artist, title)),
	}
	if artist != "" {
		track.Artists = []string{artist}
	}
	return track
}

func parseEntryLine(track *models.Track, line string) {
	if m := durationPattern.FindStringSubmatch(line); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.Atoi(m[2])
		track.Duration = minutes*60 + seconds
		return
	}

	if m := videoPattern.FindStringSubmatch(line); m != nil {
		track.VideoURL = m[1]
		return
	}

	if m := sourcePattern.FindStringSubmatch(line); m != nil {
		track.SourceURL = m[1]
		return
	}

	if m := albumPattern.FindStringSubmatch(line); m != nil {
		track.Album = Unescape(m[1])
	}
}

func parseHeaderLine(p *models.Playlist, line string) {
	switch {
	case originalPattern.MatchString(line):
		if m := sourcePattern.FindStringSubmatch(line); m != nil {
			p.URL = m[1]
		}
	case ownerPattern.MatchString(line):
		p.Owner = Unescape(ownerPattern.FindStringSubmatch(line)[1])
	case descPattern.MatchString(line):
		p.Description = Unescape(descPattern.FindStringSubmatch(line)[1])
	}
}
