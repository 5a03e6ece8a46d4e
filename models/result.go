package models

import (
	"fmt"
	"time"
)

// ExtractionMethod identifies which extraction path produced a result.
type ExtractionMethod string

const (
	MethodSmartEditor3         ExtractionMethod = "smart_editor_3"
	MethodSmartEditor2         ExtractionMethod = "smart_editor_2"
	MethodGeneralEditor        ExtractionMethod = "general_editor"
	MethodLegacyEditor         ExtractionMethod = "legacy_editor"
	MethodJavaScriptExtraction ExtractionMethod = "javascript_extraction"
	MethodDomTraversal         ExtractionMethod = "dom_traversal"
	MethodFallback             ExtractionMethod = "fallback"
)

// SelectorAttempt records one strategy or selector try. Attempts are
// appended to DebugInfo in order and never mutated afterwards.
type SelectorAttempt struct {
	Selector         string `json:"selector"`
	Success          bool   `json:"success"`
	ContentLength    int    `json:"content_length"`
	ErrorMessage     string `json:"error_message,omitempty"`
	ExtractionTimeMs int64  `json:"extraction_time_ms,omitempty"`
}

// DebugInfo accumulates page state and the attempt trail for one
// extraction call.
type DebugInfo struct {
	URL                string            `json:"url"`
	PageReadyState     string            `json:"page_ready_state"` // "unknown" | "complete" | "error"
	BodyHTMLLength     int               `json:"body_html_length"`
	EditorTypeDetected string            `json:"editor_type_detected,omitempty"`
	SelectorAttempts   []SelectorAttempt `json:"selector_attempts"`
	ScreenshotPath     string            `json:"screenshot_path,omitempty"`
	Timestamp          string            `json:"timestamp,omitempty"`
}

// NewDebugInfo returns a DebugInfo in the initial "unknown" state.
func NewDebugInfo(url string) *DebugInfo {
	return &DebugInfo{
		URL:            url,
		PageReadyState: "unknown",
		Timestamp:      time.Now().Format(time.RFC3339),
	}
}

// AddAttempt appends a selector attempt to the trail.
func (d *DebugInfo) AddAttempt(attempt SelectorAttempt) {
	d.SelectorAttempts = append(d.SelectorAttempts, attempt)
}

// ContentResult is the final outcome of one extraction call. Construct
// through NewContentResult so the success/content and score-bound
// invariants hold for every instance in the system.
type ContentResult struct {
	Content          string           `json:"content"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
	QualityScore     float64          `json:"quality_score"`
	DebugInfo        *DebugInfo       `json:"debug_info,omitempty"`
	Success          bool             `json:"success"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	ExtractionTimeMs int64            `json:"extraction_time_ms,omitempty"`
}

// NewContentResult validates and returns a ContentResult.
func NewContentResult(content string, method ExtractionMethod, qualityScore float64,
	debug *DebugInfo, success bool, errorMessage string, extractionTimeMs int64) (ContentResult, error) {

	if qualityScore < 0.0 || qualityScore > 1.0 {
		return ContentResult{}, fmt.Errorf("quality_score must be within [0.0, 1.0], got %f", qualityScore)
	}
	if success && content == "" {
		return ContentResult{}, fmt.Errorf("successful result cannot have empty content")
	}
	return ContentResult{
		Content:          content,
		ExtractionMethod: method,
		QualityScore:     qualityScore,
		DebugInfo:        debug,
		Success:          success,
		ErrorMessage:     errorMessage,
		ExtractionTimeMs: extractionTimeMs,
	}, nil
}

// ValidationResult is the pure output of ContentValidator.ValidateContent.
type ValidationResult struct {
	IsValid        bool     `json:"is_valid"`
	QualityScore   float64  `json:"quality_score"`
	Issues         []string `json:"issues"`
	CleanedContent string   `json:"cleaned_content"`
	OriginalLength int      `json:"original_length"`
	CleanedLength  int      `json:"cleaned_length"`
	Language       string   `json:"language,omitempty"` // informational, never gates validity
}
