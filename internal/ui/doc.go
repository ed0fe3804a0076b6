// Package ui implements the interactive export using bubbletea's Elm architecture.
//
// The workflow has three views:
//  1. [FormatView] : choose output formats and whether to search for YouTube links
//  2. [ExportView] : follow real-time progress while the playlist is fetched, resolved and written
//  3. [ResultView] : browse the exported tracks with their links
//
// The (view) [Model] implements the standard Init/Update/View pattern, receiving messages via the [Msg] union type.
// Progress updates flow through a channel from the tasks.Exporter.
//
// Keyboard navigation uses vim-style bindings (j/k, space, enter, q) with contextual help from charmbracelet/bubbles/help.
package ui
