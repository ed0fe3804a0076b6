package formatter

import (
	"bytes"
	"fmt"
	"time"

	"github.com/desertthunder/playlist-creator/internal/models"
	"github.com/desertthunder/playlist-creator/internal/shared"
)

// GeneratedDateLayout is the date format used in document headers.
const GeneratedDateLayout = "January 02, 2006"

const (
	labelYouTube       = "Listen on YouTube"
	labelSearchYouTube = "Search on YouTube"
	labelSpotify       = "Listen on Spotify"
	labelBackupSpotify = "Backup: Listen on Spotify"
	labelOriginal      = "Original Spotify Playlist"
	footerText         = "*Generated using Spotify Web API with YouTube link integration*"
)

// RenderMarkdown converts a playlist to the Markdown document format.
//
// Each track becomes a numbered entry with album, duration and links; the resolved YouTube link is listed first when present,
// otherwise the YouTube search link is. The output is a pure function of p and generatedAt.
func RenderMarkdown(p models.Playlist, generatedAt time.Time) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", Escape(p.Name))
	if p.Owner != "" {
		fmt.Fprintf(&buf, "**Created by:** %s\n", Escape(p.Owner))
	}
	fmt.Fprintf(&buf, "**Total tracks:** %d\n", len(p.Tracks))
	fmt.Fprintf(&buf, "**Total duration:** %s\n", shared.FormatDuration(p.TotalDuration()))
	fmt.Fprintf(&buf, "**Generated on:** %s\n\n", generatedAt.Format(GeneratedDateLayout))

	if desc := Escape(p.Description); desc != "" {
		fmt.Fprintf(&buf, "**Description:** %s\n\n", desc)
	}

	buf.WriteString("---\n\n## Tracks\n\n")

	for i, track := range p.Tracks {
		writeEntry(&buf, i+1, track)
	}

	buf.WriteString("---\n\n")
	buf.WriteString(footerText + "\n")

	if p.URL != "" {
		fmt.Fprintf(&buf, "\n**%s:** [%s](%s)\n", labelOriginal, labelSpotify, p.URL)
	}

	return buf.Bytes()
}

func writeEntry(buf *bytes.Buffer, n int, track models.Track) {
	fmt.Fprintf(buf, "%d. **%s** by %s\n", n, Escape(track.Title), Escape(track.Artist()))
	if album := Escape(track.Album); album != "" {
		fmt.Fprintf(buf, "   - Album: *%s*\n", album)
	}
	fmt.Fprintf(buf, "   - Duration: %s\n", shared.FormatDuration(track.Duration))

	if track.HasVideo() {
		fmt.Fprintf(buf, "   - [%s](%s)\n", labelYouTube, track.VideoURL)
		if track.SourceURL != "" {
			fmt.Fprintf(buf, "   - [%s](%s)\n", labelBackupSpotify, track.SourceURL)
		}
	} else {
		if track.SearchURL != "" {
			fmt.Fprintf(buf, "   - [%s](%s)\n", labelSearchYouTube, track.SearchURL)
		}
		if track.SourceURL != "" {
			fmt.Fprintf(buf, "   - [%s](%s)\n", labelSpotify, track.SourceURL)
		}
	}

	buf.WriteString("\n")
}
