// Package models defines the domain entities shared by the fetcher, the renderers and the markup parser.
//
//   - [Track] : one playlist entry with its source link and resolved or fallback YouTube links
//   - [Playlist] : an ordered sequence of tracks plus the header data rendered into documents
//
// Both are plain values: they are built once (by the Spotify fetcher or the markup parser), optionally enriched through
// [Track.WithLinks] which returns a copy, rendered and discarded.
package models
