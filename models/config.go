// Package models defines data structures for configuration and extraction results.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ExtractionConfig holds per-extraction settings. Construct through
// NewExtractionConfig so invalid combinations fail immediately instead
// of being clamped somewhere downstream.
type ExtractionConfig struct {
	TimeoutSeconds           int
	MinContentLength         int
	MaxContentLength         int
	RetryCount               int
	EnableDebugScreenshot    bool
	EnableLazyLoadingTrigger bool
	ScrollPause              time.Duration
}

// NewExtractionConfig validates and returns an ExtractionConfig.
func NewExtractionConfig(timeoutSeconds, minContentLength, maxContentLength, retryCount int,
	enableDebugScreenshot, enableLazyLoadingTrigger bool, scrollPause time.Duration) (ExtractionConfig, error) {

	cfg := ExtractionConfig{
		TimeoutSeconds:           timeoutSeconds,
		MinContentLength:         minContentLength,
		MaxContentLength:         maxContentLength,
		RetryCount:               retryCount,
		EnableDebugScreenshot:    enableDebugScreenshot,
		EnableLazyLoadingTrigger: enableLazyLoadingTrigger,
		ScrollPause:              scrollPause,
	}
	if err := cfg.Validate(); err != nil {
		return ExtractionConfig{}, err
	}
	return cfg, nil
}

// DefaultExtractionConfig mirrors the settings the crawler has run with
// in production: 30s timeout, 30..2000 char window, 3 retries.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		TimeoutSeconds:           30,
		MinContentLength:         30,
		MaxContentLength:         2000,
		RetryCount:               3,
		EnableDebugScreenshot:    true,
		EnableLazyLoadingTrigger: true,
		ScrollPause:              2 * time.Second,
	}
}

// Validate checks invariant violations on the config values.
func (c ExtractionConfig) Validate() error {
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.MinContentLength < 0 {
		return fmt.Errorf("min_content_length cannot be negative, got %d", c.MinContentLength)
	}
	if c.MaxContentLength <= c.MinContentLength {
		return fmt.Errorf("max_content_length (%d) must exceed min_content_length (%d)",
			c.MaxContentLength, c.MinContentLength)
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("retry_count cannot be negative, got %d", c.RetryCount)
	}
	if c.ScrollPause < 0 {
		return fmt.Errorf("scroll_pause cannot be negative, got %s", c.ScrollPause)
	}
	return nil
}

// Timeout returns TimeoutSeconds as a duration.
func (c ExtractionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// QualityWeights holds the empirically tuned scoring constants. They
// were never derived from anything measurable, so they are configuration
// rather than hard-coded invariants.
type QualityWeights struct {
	MinLengthWeight   float64 // awarded when the min-length gate passes
	MeaningfulWeight  float64 // multiplied by the meaningful-content ratio
	LengthBonusWeight float64 // scaled by length relative to 2x min length
	ParagraphBonus    float64 // awarded when content has >1 paragraph
	SentenceBonus     float64 // awarded when content has >2 sentences
	MeaningfulGate    float64 // minimum meaningful ratio for validity
	ScoreGate         float64 // minimum quality score for validity
}

// DefaultQualityWeights returns the production tuning.
func DefaultQualityWeights() QualityWeights {
	return QualityWeights{
		MinLengthWeight:   0.30,
		MeaningfulWeight:  0.40,
		LengthBonusWeight: 0.20,
		ParagraphBonus:    0.05,
		SentenceBonus:     0.05,
		MeaningfulGate:    0.30,
		ScoreGate:         0.50,
	}
}

// CrawlConfig holds batch-level runtime configuration loaded from YAML.
type CrawlConfig struct {
	URLs           []string `yaml:"urls"`
	WorkerCount    int      `yaml:"workers"`
	DatabasePath   string   `yaml:"database_path"`
	ArtifactDir    string   `yaml:"artifact_dir"`
	IframeName     string   `yaml:"iframe_name"`
	CafeName       string   `yaml:"cafe_name"`
	UseBrowser     bool     `yaml:"use_browser"`
	UserAgent      string   `yaml:"user_agent"`
	SkipDuplicates bool     `yaml:"skip_duplicates"`
}

// LoadConfig reads a CrawlConfig from a YAML file and applies defaults.
func LoadConfig(path string) (*CrawlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &CrawlConfig{UseBrowser: true, SkipDuplicates: true}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "newcrawling.db"
	}
	if cfg.IframeName == "" {
		cfg.IframeName = "cafe_main"
	}
	return cfg, nil
}
