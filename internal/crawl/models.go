package crawl

import (
	"github.com/llkd33/newcrawling/models"
)

type Job struct {
	URL string
}

// Result holds the outcome of a processed job.
type Result struct {
	URL           string
	Post          *models.Post
	Skipped       bool
	StoreErr      error
	ElapsedMillis int64
}

// ResultOutput is the structured output for a single URL.
type ResultOutput struct {
	URL          string  `json:"url"`
	Status       string  `json:"status"`
	Method       string  `json:"method,omitempty"`
	QualityScore float64 `json:"quality_score,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string         `json:"status"`
	Results []ResultOutput `json:"results"`
	Stats   Stats          `json:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalURLs        int     `json:"total_urls"`
	Successful       int     `json:"successful"`
	Failed           int     `json:"failed"`
	Skipped          int     `json:"skipped"`
	AverageScore     float64 `json:"average_score"`
	TotalTimeSeconds float64 `json:"total_time_seconds"`
}
