package preload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/llkd33/newcrawling/models"
)

// fakePage answers script evaluations from a canned JSON table, keyed
// by the exact script text.
type fakePage struct {
	responses     map[string]string
	elementCounts map[string]int
	scrolls       []string
	switchedTo    []string
	evalErr       error
}

func (p *fakePage) Navigate(ctx context.Context, url string) error { return nil }
func (p *fakePage) Reload(ctx context.Context) error               { return nil }

func (p *fakePage) Evaluate(ctx context.Context, script string, out any) error {
	if p.evalErr != nil {
		return p.evalErr
	}
	if strings.HasPrefix(script, "window.scrollTo") {
		p.scrolls = append(p.scrolls, script)
		return nil
	}
	if js, ok := p.responses[script]; ok {
		if out == nil {
			return nil
		}
		return json.Unmarshal([]byte(js), out)
	}
	if out == nil {
		return nil
	}
	return fmt.Errorf("unexpected script: %.40s", script)
}

func (p *fakePage) ElementCount(ctx context.Context, selector string) (int, error) {
	return p.elementCounts[selector], nil
}

func (p *fakePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return nil
}

func (p *fakePage) Text(ctx context.Context, selector string) (string, error) { return "", nil }
func (p *fakePage) Property(ctx context.Context, selector, name string) (string, error) {
	return "", nil
}

func (p *fakePage) SwitchFrame(ctx context.Context, name string) error {
	p.switchedTo = append(p.switchedTo, name)
	return nil
}

func (p *fakePage) SwitchDefault(ctx context.Context) error           { return nil }
func (p *fakePage) Screenshot(ctx context.Context, path string) error { return nil }
func (p *fakePage) CurrentURL(ctx context.Context) (string, error)    { return "", nil }
func (p *fakePage) Title(ctx context.Context) (string, error)         { return "", nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() models.ExtractionConfig {
	cfg := models.DefaultExtractionConfig()
	cfg.ScrollPause = time.Millisecond
	return cfg
}

func stepByName(t *testing.T, steps []StepResult, name string) StepResult {
	t.Helper()
	for _, s := range steps {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("step %q missing from trail %v", name, steps)
	return StepResult{}
}

func TestWaitForCompleteLoadingAllSignals(t *testing.T) {
	page := &fakePage{responses: map[string]string{
		readyStateScript:          `"complete"`,
		scriptLibrariesIdleScript: `true`,
		editorMarkersScript:       `true`,
		networkIdleScript:         `true`,
	}}
	w := NewWaiter(page, testConfig(), testLogger())

	ok, steps := w.WaitForCompleteLoading(context.Background(), time.Second)
	if !ok {
		t.Fatalf("WaitForCompleteLoading = false, steps: %v", steps)
	}
	for _, name := range []string{"ready_state", "script_libraries_idle", "editor_markers", "network_idle"} {
		if step := stepByName(t, steps, name); step.Status != StepOK {
			t.Errorf("step %q = %v, want ok", name, step.Status)
		}
	}
}

func TestWaitForCompleteLoadingReadyStateTimeout(t *testing.T) {
	page := &fakePage{responses: map[string]string{
		readyStateScript: `"loading"`,
	}}
	w := NewWaiter(page, testConfig(), testLogger())

	ok, steps := w.WaitForCompleteLoading(context.Background(), 0)
	if ok {
		t.Fatal("WaitForCompleteLoading = true on a page that never loads")
	}
	if step := stepByName(t, steps, "ready_state"); step.Status != StepTimedOut {
		t.Errorf("ready_state status = %v, want timed_out", step.Status)
	}
}

func TestWaitForCompleteLoadingSoftStepsDegrade(t *testing.T) {
	// Libraries never settle and the editor markers never appear, but
	// the document itself is complete: the waiter proceeds and reports
	// the degradation in the trail.
	page := &fakePage{responses: map[string]string{
		readyStateScript:    `"complete"`,
		networkIdleScript:   `true`,
		editorMarkersScript: `false`,
		// scriptLibrariesIdleScript missing: evaluates to an error
	}}
	w := NewWaiter(page, testConfig(), testLogger())

	ok, steps := w.WaitForCompleteLoading(context.Background(), 900*time.Millisecond)
	if !ok {
		t.Fatalf("WaitForCompleteLoading = false, want true despite soft failures")
	}
	if step := stepByName(t, steps, "script_libraries_idle"); step.Status != StepError || step.Err == nil {
		t.Errorf("script_libraries_idle = %v err %v, want error status with cause", step.Status, step.Err)
	}
	if step := stepByName(t, steps, "editor_markers"); step.Status != StepTimedOut {
		t.Errorf("editor_markers = %v, want timed_out", step.Status)
	}
	if step := stepByName(t, steps, "network_idle"); step.Status != StepOK {
		t.Errorf("network_idle = %v, want ok", step.Status)
	}
}

func TestWaitForIframeAndSwitch(t *testing.T) {
	cfg := testConfig()
	cfg.EnableLazyLoadingTrigger = false

	page := &fakePage{
		elementCounts: map[string]int{`iframe[name="cafe_main"]`: 1},
	}
	w := NewWaiter(page, cfg, testLogger())

	if !w.WaitForIframeAndSwitch(context.Background(), "cafe_main", time.Second) {
		t.Fatal("WaitForIframeAndSwitch = false, want true")
	}
	if len(page.switchedTo) != 1 || page.switchedTo[0] != "cafe_main" {
		t.Errorf("switched frames = %v, want [cafe_main]", page.switchedTo)
	}
}

func TestWaitForIframeAndSwitchMissingFrame(t *testing.T) {
	cfg := testConfig()
	cfg.EnableLazyLoadingTrigger = false

	page := &fakePage{elementCounts: map[string]int{}}
	w := NewWaiter(page, cfg, testLogger())

	if w.WaitForIframeAndSwitch(context.Background(), "cafe_main", 0) {
		t.Fatal("WaitForIframeAndSwitch = true for a frame that never appears")
	}
	if len(page.switchedTo) != 0 {
		t.Errorf("switched frames = %v, want none", page.switchedTo)
	}
}

func TestCheckDynamicContentLoaded(t *testing.T) {
	page := &fakePage{responses: map[string]string{
		dynamicContentLoadedScript: `true`,
	}}
	w := NewWaiter(page, testConfig(), testLogger())
	if !w.CheckDynamicContentLoaded(context.Background()) {
		t.Error("CheckDynamicContentLoaded = false, want true")
	}

	page.responses[dynamicContentLoadedScript] = `false`
	if w.CheckDynamicContentLoaded(context.Background()) {
		t.Error("CheckDynamicContentLoaded = true, want false")
	}
}

func TestCheckDynamicContentLoadedEvaluationError(t *testing.T) {
	page := &fakePage{evalErr: fmt.Errorf("target closed")}
	w := NewWaiter(page, testConfig(), testLogger())
	if w.CheckDynamicContentLoaded(context.Background()) {
		t.Error("CheckDynamicContentLoaded = true on evaluation error")
	}
}

func TestEnhancedWaitForContent(t *testing.T) {
	cfg := testConfig()
	cfg.TimeoutSeconds = 1
	cfg.EnableLazyLoadingTrigger = false

	page := &fakePage{responses: map[string]string{
		readyStateScript:           `"complete"`,
		scriptLibrariesIdleScript:  `true`,
		editorMarkersScript:        `true`,
		networkIdleScript:          `true`,
		dynamicContentLoadedScript: `true`,
	}}
	w := NewWaiter(page, cfg, testLogger())

	if !w.EnhancedWaitForContent(context.Background(), 3) {
		t.Error("EnhancedWaitForContent = false, want true on a loaded page")
	}
}

func TestEnhancedWaitForContentExhaustsAttempts(t *testing.T) {
	cfg := testConfig()
	cfg.TimeoutSeconds = 1
	cfg.EnableLazyLoadingTrigger = false

	page := &fakePage{responses: map[string]string{
		readyStateScript: `"loading"`,
	}}
	w := NewWaiter(page, cfg, testLogger())

	if w.EnhancedWaitForContent(context.Background(), 1) {
		t.Error("EnhancedWaitForContent = true on a page that never loads")
	}
}

func TestTriggerLazyLoadingScrollsAndRestores(t *testing.T) {
	page := &fakePage{responses: map[string]string{
		scrollInfoScript: `{"originalY": 0, "originalX": 0, "bodyHeight": 4000,
			"windowHeight": 1000, "bodyWidth": 800, "windowWidth": 1920}`,
		lazyImageTriggerScript: `true`,
	}}
	w := NewWaiter(page, testConfig(), testLogger())

	w.TriggerLazyLoading(context.Background())

	// Five vertical positions plus the final restore; the page is not
	// wider than the window so no horizontal passes.
	if len(page.scrolls) != 6 {
		t.Fatalf("scroll calls = %d, want 6: %v", len(page.scrolls), page.scrolls)
	}
	last := page.scrolls[len(page.scrolls)-1]
	if !strings.Contains(last, "0.000000, 0.000000") {
		t.Errorf("final scroll %q does not restore the original position", last)
	}
}
