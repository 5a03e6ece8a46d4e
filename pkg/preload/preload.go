// Package preload waits for dynamically rendered pages to become ready
// for text extraction. The platform renders post bodies client-side
// with no single completion signal, so the waiter layers several
// independent, individually unreliable checks and adds a fixed settle
// delay on top; sub-step failures degrade to "proceed anyway".
package preload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/llkd33/newcrawling/models"
	"github.com/llkd33/newcrawling/pkg/browser"
)

// StepStatus classifies how a readiness sub-step ended.
type StepStatus int

const (
	StepOK StepStatus = iota
	StepTimedOut
	StepError
)

func (s StepStatus) String() string {
	switch s {
	case StepOK:
		return "ok"
	case StepTimedOut:
		return "timed_out"
	default:
		return "error"
	}
}

// StepResult records the outcome of one readiness sub-step so callers
// and tests can see exactly which signal degraded.
type StepResult struct {
	Name   string
	Status StepStatus
	Err    error
}

const (
	pollInterval   = 200 * time.Millisecond
	settleDelay    = 3 * time.Second
	retryBackoff   = 2 * time.Second
	restoreDelay   = 500 * time.Millisecond
	postScrollWait = 1 * time.Second
)

// Waiter polls a page handle for load signals and activates lazy
// content.
type Waiter struct {
	page   browser.Page
	cfg    models.ExtractionConfig
	logger *slog.Logger
}

// NewWaiter returns a Waiter over the given page.
func NewWaiter(page browser.Page, cfg models.ExtractionConfig, logger *slog.Logger) *Waiter {
	return &Waiter{page: page, cfg: cfg, logger: logger}
}

// WaitForCompleteLoading blocks until the page looks fully rendered or
// the timeout budget runs out. Only a ready-state timeout or an
// automation failure on that first step yields false; every later step
// is soft and its degradation is reported in the step trail.
func (w *Waiter) WaitForCompleteLoading(ctx context.Context, timeout time.Duration) (bool, []StepResult) {
	start := time.Now()
	var steps []StepResult

	readyState := w.pollStep(ctx, "ready_state", timeout, func(ctx context.Context) (bool, error) {
		var state string
		if err := w.page.Evaluate(ctx, readyStateScript, &state); err != nil {
			return false, err
		}
		return state == "complete", nil
	})
	steps = append(steps, readyState)
	if readyState.Status != StepOK {
		w.logger.Warn("page load wait failed", "step", readyState.Name, "status", readyState.Status.String(), "error", readyState.Err)
		return false, steps
	}

	thirdBudget := minDuration(10*time.Second, timeout/3)
	steps = append(steps, w.pollBoolScript(ctx, "script_libraries_idle", thirdBudget, scriptLibrariesIdleScript))
	steps = append(steps, w.pollBoolScript(ctx, "editor_markers", thirdBudget, editorMarkersScript))
	steps = append(steps, w.pollBoolScript(ctx, "network_idle", minDuration(5*time.Second, timeout/6), networkIdleScript))

	// Fixed settle margin for post-ready async rendering. Shortened
	// only when the overall budget is nearly spent.
	remaining := timeout - time.Since(start)
	if remaining > settleDelay {
		sleep(ctx, settleDelay)
	} else {
		sleep(ctx, maxDuration(time.Second, remaining))
	}

	w.logger.Debug("page load wait complete", "elapsed", time.Since(start))
	return true, steps
}

// pollBoolScript polls a script that resolves to a boolean.
func (w *Waiter) pollBoolScript(ctx context.Context, name string, timeout time.Duration, script string) StepResult {
	result := w.pollStep(ctx, name, timeout, func(ctx context.Context) (bool, error) {
		var done bool
		if err := w.page.Evaluate(ctx, script, &done); err != nil {
			return false, err
		}
		return done, nil
	})
	if result.Status != StepOK {
		w.logger.Debug("readiness sub-step degraded", "step", name, "status", result.Status.String(), "error", result.Err)
	}
	return result
}

// pollStep evaluates cond every pollInterval until it holds, errors, or
// the budget elapses.
func (w *Waiter) pollStep(ctx context.Context, name string, timeout time.Duration, cond func(context.Context) (bool, error)) StepResult {
	deadline := time.Now().Add(timeout)
	for {
		ok, err := cond(ctx)
		if err != nil {
			return StepResult{Name: name, Status: StepError, Err: err}
		}
		if ok {
			return StepResult{Name: name, Status: StepOK}
		}
		if time.Now().After(deadline) {
			return StepResult{Name: name, Status: StepTimedOut}
		}
		if !sleep(ctx, pollInterval) {
			return StepResult{Name: name, Status: StepError, Err: ctx.Err()}
		}
	}
}

// TriggerLazyLoading scrolls through the document to fire lazy-load
// observers, activates deferred images directly, and restores the
// original scroll position. Best-effort: automation errors are logged
// and swallowed.
func (w *Waiter) TriggerLazyLoading(ctx context.Context) {
	var info struct {
		OriginalY    float64 `json:"originalY"`
		OriginalX    float64 `json:"originalX"`
		BodyHeight   float64 `json:"bodyHeight"`
		WindowHeight float64 `json:"windowHeight"`
		BodyWidth    float64 `json:"bodyWidth"`
		WindowWidth  float64 `json:"windowWidth"`
	}
	if err := w.page.Evaluate(ctx, scrollInfoScript, &info); err != nil {
		w.logger.Warn("lazy loading trigger failed to inspect page", "error", err)
		return
	}

	if info.BodyHeight > info.WindowHeight {
		positions := []float64{
			0,
			info.BodyHeight / 4,
			info.BodyHeight / 2,
			info.BodyHeight * 3 / 4,
			info.BodyHeight - info.WindowHeight,
		}
		for _, pos := range positions {
			w.scrollTo(ctx, 0, pos)
			sleep(ctx, w.cfg.ScrollPause)
		}
	}

	if err := w.page.Evaluate(ctx, lazyImageTriggerScript, nil); err != nil {
		w.logger.Debug("lazy image trigger failed", "error", err)
	}

	if info.BodyWidth > info.WindowWidth {
		positions := []float64{0, (info.BodyWidth - info.WindowWidth) / 2, info.BodyWidth - info.WindowWidth}
		for _, pos := range positions {
			w.scrollTo(ctx, pos, info.OriginalY)
			sleep(ctx, postScrollWait)
		}
	}

	w.scrollTo(ctx, info.OriginalX, info.OriginalY)
	sleep(ctx, restoreDelay)
	sleep(ctx, postScrollWait)
}

func (w *Waiter) scrollTo(ctx context.Context, x, y float64) {
	script := fmt.Sprintf(`window.scrollTo(%f, %f)`, x, y)
	if err := w.page.Evaluate(ctx, script, nil); err != nil {
		w.logger.Debug("scroll failed", "error", err)
	}
}

// WaitForIframeAndSwitch waits for the named embedded frame to become
// attachable and switches into it. On success, when lazy-loading
// triggers are enabled, it repeats the load wait and lazy activation
// inside the frame. Never raises: false means timed out or failed.
func (w *Waiter) WaitForIframeAndSwitch(ctx context.Context, frameName string, timeout time.Duration) bool {
	selector := fmt.Sprintf("iframe[name=%q]", frameName)
	present := w.pollStep(ctx, "iframe_present", timeout, func(ctx context.Context) (bool, error) {
		count, err := w.page.ElementCount(ctx, selector)
		if err != nil {
			return false, err
		}
		return count > 0, nil
	})
	if present.Status != StepOK {
		w.logger.Warn("iframe wait failed", "frame", frameName, "status", present.Status.String(), "error", present.Err)
		return false
	}

	if err := w.page.SwitchFrame(ctx, frameName); err != nil {
		w.logger.Warn("iframe switch failed", "frame", frameName, "error", err)
		return false
	}

	if w.cfg.EnableLazyLoadingTrigger {
		w.WaitForCompleteLoading(ctx, 10*time.Second)
		w.TriggerLazyLoading(ctx)
	}
	return true
}

// CheckDynamicContentLoaded reports whether a known content container
// is populated, not merely attached.
func (w *Waiter) CheckDynamicContentLoaded(ctx context.Context) bool {
	var loaded bool
	if err := w.page.Evaluate(ctx, dynamicContentLoadedScript, &loaded); err != nil {
		w.logger.Debug("dynamic content check failed", "error", err)
		return false
	}
	return loaded
}

// EnhancedWaitForContent retries the full wait/trigger/check cycle up
// to maxAttempts times with a short backoff between attempts.
func (w *Waiter) EnhancedWaitForContent(ctx context.Context, maxAttempts int) bool {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		w.logger.Debug("enhanced content wait", "attempt", attempt, "max_attempts", maxAttempts)

		ok, _ := w.WaitForCompleteLoading(ctx, w.cfg.Timeout())
		if ok {
			if w.cfg.EnableLazyLoadingTrigger {
				w.TriggerLazyLoading(ctx)
			}
			if w.CheckDynamicContentLoaded(ctx) {
				return true
			}
		}

		if attempt < maxAttempts {
			if !sleep(ctx, retryBackoff) {
				return false
			}
		}
	}
	w.logger.Warn("enhanced content wait exhausted attempts", "max_attempts", maxAttempts)
	return false
}

// Sleep waits for d unless the context ends first. Returns false when
// interrupted.
func Sleep(ctx context.Context, d time.Duration) bool {
	return sleep(ctx, d)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}
