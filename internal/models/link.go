package models

import "time"

// Link is a cached search result: the video id found for a normalized query.
type Link struct {
	ID        string    `json:"id" yaml:"id"`
	Query     string    `json:"query" yaml:"query"`
	VideoID   string    `json:"video_id" yaml:"video_id"`
	Hits      int       `json:"hits" yaml:"hits"` // Lookups served from the cache
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// LinkStats summarizes the link cache.
type LinkStats struct {
	Entries int `json:"entries" yaml:"entries"`
	Hits    int `json:"hits" yaml:"hits"`
}
