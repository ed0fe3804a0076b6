package tasks

import (
	"fmt"

	"github.com/desertthunder/playlist-creator/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylist Phase = iota
	SearchTracks
	WriteFiles
	ConvertFiles
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylist:
		return "fetch_playlist"
	case SearchTracks:
		return "search_tracks"
	case WriteFiles:
		return "write_files"
	case ConvertFiles:
		return "convert_files"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func fetchingPlaylistUpdate(ref string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist %s...", ref),
	}
}

func foundPlaylistUpdate(p *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (%d tracks)", p.Name, len(p.Tracks)),
		Data:    p,
	}
}

func searchTracksUpdate(step, total int, tr *models.Track) ProgressUpdate {
	if tr == nil {
		return ProgressUpdate{
			Phase:   SearchTracks,
			Step:    step,
			Total:   total,
			Message: "Searching YouTube for track links...",
		}
	}
	return ProgressUpdate{
		Phase:   SearchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.Artist(), tr.Title),
		Data:    tr,
	}
}

func writeFileUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteFiles,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Wrote %s", path),
		Data:    path,
	}
}

func convertFileUpdate(step, total int, res FileResult) ProgressUpdate {
	var message string
	switch {
	case res.Err != nil:
		message = fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Source, res.Err)
	case res.Skipped:
		message = fmt.Sprintf("[%d/%d] - %s: no tracks found", step, total, res.Source)
	default:
		message = fmt.Sprintf("[%d/%d] ✓ %s → %s (%d tracks)", step, total, res.Source, res.Output, res.Tracks)
	}

	return ProgressUpdate{
		Phase:   ConvertFiles,
		Step:    step,
		Total:   total,
		Message: message,
		Data:    res,
	}
}
