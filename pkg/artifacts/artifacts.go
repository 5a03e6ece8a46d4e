package artifacts

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultBaseDir = "debug_screenshots"
	CIBaseDir      = "artifacts" // CI runs collect this directory
	reportName     = "crawl_report.json"
)

// Manager handles storage of debug screenshots and crawl reports.
type Manager struct {
	baseDir string
}

// NewManager creates a new artifact Manager instance.
// It ensures the base directory exists. An empty baseDir selects
// "artifacts" when running under CI and "debug_screenshots" otherwise.
func NewManager(baseDir string) (*Manager, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
		if os.Getenv("CI") != "" {
			baseDir = CIBaseDir
		}
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &Manager{baseDir: baseDir}, nil
}

// BaseDir returns the directory artifacts are written under.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

var invalidFilenameChar = regexp.MustCompile(`[^a-zA-Z0-9\-_]+`)

// sanitizeSlug creates a filesystem-safe slug from a URL path.
func sanitizeSlug(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		safe := invalidFilenameChar.ReplaceAllString(rawURL, "_")
		return strings.Trim(safe, "_")
	}

	hostPart := strings.ReplaceAll(u.Host, ".", "_")
	pathPart := strings.TrimPrefix(u.Path, "/")
	pathPart = invalidFilenameChar.ReplaceAllString(pathPart, "_")
	pathPart = strings.Trim(pathPart, "_")

	if pathPart == "" {
		return hostPart
	}
	return fmt.Sprintf("%s_%s", hostPart, pathPart)
}

// ScreenshotPath constructs a timestamped path for a failure screenshot.
// Example: debug_screenshots/extraction_failed_cafe_naver_com_myCafe_123-20260829T140501.png
func (m *Manager) ScreenshotPath(prefix, rawURL string) string {
	slug := sanitizeSlug(rawURL)
	if len(slug) > 80 {
		slug = slug[:80]
	}
	stamp := time.Now().Format("20060102T150405")
	filename := fmt.Sprintf("%s_%s-%s.png", prefix, slug, stamp)
	return filepath.Join(m.baseDir, filename)
}

// CrawlReport is a lightweight overview of a crawl run: how many posts
// were attempted, how extraction went per URL, and which methods fired.
type CrawlReport struct {
	GeneratedAt   string         `json:"generated_at"`
	TotalPosts    int            `json:"total_posts"`
	Successful    int            `json:"successful"`
	Failed        int            `json:"failed"`
	Skipped       int            `json:"skipped"`
	MethodCounts  map[string]int `json:"method_counts"`
	AverageScore  float64        `json:"average_score"`
	ElapsedMillis int64          `json:"elapsed_ms"`
	Results       []PostSummary  `json:"results"`
}

// PostSummary represents summary information for a single post.
type PostSummary struct {
	URL           string  `json:"url"`
	Status        string  `json:"status"` // "success", "error" or "skipped"
	Method        string  `json:"method,omitempty"`
	QualityScore  float64 `json:"quality_score,omitempty"`
	ContentLength int     `json:"content_length,omitempty"`
	ErrorMessage  string  `json:"error_message,omitempty"`
	ElapsedMillis int64   `json:"elapsed_ms,omitempty"`
}

// WriteReport serializes the crawl report into the artifact directory
// and returns the path it was written to.
func (m *Manager) WriteReport(report *CrawlReport) (string, error) {
	if report.GeneratedAt == "" {
		report.GeneratedAt = time.Now().Format(time.RFC3339)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal crawl report: %w", err)
	}
	path := filepath.Join(m.baseDir, reportName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write crawl report: %w", err)
	}
	return path, nil
}
