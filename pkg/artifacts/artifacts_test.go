package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewManagerCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if m.BaseDir() != dir {
		t.Errorf("BaseDir = %q, want %q", m.BaseDir(), dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("base directory not created: %v", err)
	}
}

func TestScreenshotPath(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path := m.ScreenshotPath("extraction_failed", "https://cafe.naver.com/campinglife/12345?art=1#top")
	name := filepath.Base(path)

	if !strings.HasPrefix(name, "extraction_failed_cafe_naver_com_campinglife_12345-") {
		t.Errorf("screenshot name = %q, want slug prefix", name)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("screenshot name = %q, want .png suffix", name)
	}
	if strings.ContainsAny(name, "/?#:") {
		t.Errorf("screenshot name %q contains unsafe characters", name)
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	report := &CrawlReport{
		TotalPosts:   2,
		Successful:   1,
		Failed:       1,
		MethodCounts: map[string]int{"smart_editor_3": 1},
		AverageScore: 0.85,
		Results: []PostSummary{
			{URL: "https://cafe.naver.com/c/1", Status: "success", Method: "smart_editor_3", QualityScore: 0.85},
			{URL: "https://cafe.naver.com/c/2", Status: "error", ErrorMessage: "all extraction strategies failed"},
		},
	}

	path, err := m.WriteReport(report)
	if err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var decoded CrawlReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.GeneratedAt == "" {
		t.Error("GeneratedAt not stamped")
	}
	if decoded.TotalPosts != 2 || decoded.Successful != 1 {
		t.Errorf("decoded stats = %+v", decoded)
	}
}
