package main

import (
	"os"

	"github.com/desertthunder/playlist-creator/internal/tasks"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func newSearchBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Searching tracks..."),
		progressbar.OptionClearOnFinish(),
	)
}

// watchProgress prints updates until progress is closed. The returned channel is closed once the last update has been
// handled. When bars is set, track searches drive a progress bar on stderr instead of one line per track.
func (r *Runner) watchProgress(progress <-chan tasks.ProgressUpdate, bars bool) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		var bar *progressbar.ProgressBar
		for update := range progress {
			switch update.Phase {
			case tasks.FetchPlaylist:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SearchTracks:
				if update.Step == 0 {
					r.writePlain("\n🔍 %s\n", update.Message)
					if bars && update.Total > 0 {
						bar = newSearchBar(update.Total)
					}
					continue
				}

				if bar == nil {
					r.writePlain("   %s\n", update.Message)
					continue
				}

				bar.Set(update.Step)
				if update.Step == update.Total {
					bar.Finish()
				}
			case tasks.WriteFiles:
				if update.Step == 1 {
					r.writePlain("\n")
				}
				r.writePlain("📝 %s\n", update.Message)
			case tasks.ConvertFiles:
				r.logger.Debug(update.Message)
			}
		}
	}()

	return done
}
