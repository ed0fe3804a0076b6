package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/playlist-creator/internal/models"
	"github.com/desertthunder/playlist-creator/internal/shared"
)

var (
	_ list.Item = trackItem{}
)

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	index int
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Artist() + " " + i.track.Title }
func (i trackItem) Title() string {
	return fmt.Sprintf("%d. %s - %s", i.index, i.track.Artist(), i.track.Title)
}

func (i trackItem) Description() string {
	status := "search"
	if i.track.HasVideo() {
		status = "video"
	}
	return fmt.Sprintf("%s • %s • %s", shared.FormatDuration(i.track.Duration), status, i.track.PreferredURL())
}

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{index: i + 1, track: t}
	}
	return items
}
