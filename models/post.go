package models

import "time"

// Post is the record shape persisted by the storage sink, one row per
// crawled article keyed by URL.
type Post struct {
	URL              string
	Title            string
	Author           string
	CafeName         string
	Content          string
	ExtractionMethod ExtractionMethod
	QualityScore     float64
	Success          bool
	ErrorMessage     string
	ExtractedAt      time.Time
	Uploaded         bool
}
