// Package tasks orchestrates the two playlist workflows with real-time progress reporting.
//
// # Export
//
// [Exporter.Export] fetches a playlist, optionally resolves a YouTube link for every track one at a time, renders the
// selected formats and writes them to "<output>/<slug>/". Authentication and not-found errors abort the run; a search
// miss only counts against the result and leaves the track with its search URL.
//
// # Convert
//
// [Converter.Convert] parses one Markdown document, or every ".md" file below a directory, and writes a YouTube index
// next to each document. Files are processed in a sequential loop; the outcome of each file is independent and failures
// are recorded in the result instead of stopping the batch.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Updates use select with default so a slow reader never
// blocks the operation.
package tasks
