package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/llkd33/newcrawling/models"
	"github.com/llkd33/newcrawling/pkg/artifacts"
	"github.com/llkd33/newcrawling/pkg/browser"
	"github.com/llkd33/newcrawling/pkg/preload"
	"github.com/llkd33/newcrawling/pkg/strategy"
	"github.com/llkd33/newcrawling/pkg/validator"
)

const (
	// failedContentTemplate is stored in place of the body when every
	// extraction path came up empty. The original link lets a human
	// recover the post manually.
	failedContentTemplate = "내용을 불러올 수 없습니다.\n원본 링크: %s"

	refreshSettle    = 5 * time.Second
	postSwitchSettle = 3 * time.Second
	iframeWait       = 10 * time.Second
)

// Extractor drives a browser page through the full extraction pipeline:
// readiness waiting, iframe switching, the editor strategy chain, content
// validation and a chain of last-resort fallbacks.
type Extractor struct {
	browser    browser.Browser
	cfg        models.ExtractionConfig
	validator  *validator.Validator
	strategies *strategy.Manager
	artifacts  *artifacts.Manager
	iframeName string
	logger     *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithIframeName sets the name of the content iframe to switch into
// before extraction. Naver cafes use "cafe_main".
func WithIframeName(name string) Option {
	return func(e *Extractor) { e.iframeName = name }
}

// WithArtifacts enables failure screenshots through the given manager.
func WithArtifacts(m *artifacts.Manager) Option {
	return func(e *Extractor) { e.artifacts = m }
}

// WithValidator overrides the default content validator.
func WithValidator(v *validator.Validator) Option {
	return func(e *Extractor) { e.validator = v }
}

// WithStrategies overrides the default editor strategy chain.
func WithStrategies(m *strategy.Manager) Option {
	return func(e *Extractor) { e.strategies = m }
}

// New creates an Extractor.
func New(b browser.Browser, cfg models.ExtractionConfig, logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		browser:    b,
		cfg:        cfg,
		validator:  validator.New(cfg),
		strategies: strategy.NewManager(strategy.DefaultStrategies(), logger),
		iframeName: "cafe_main",
		logger:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractContent extracts the post body at url. It never returns an
// error: every failure mode is folded into the ContentResult so that a
// batch run can keep going post by post.
func (e *Extractor) ExtractContent(ctx context.Context, url string) (result models.ContentResult) {
	start := time.Now()
	debug := models.NewDebugInfo(url)

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extraction panicked", "url", url, "panic", fmt.Sprint(r))
			result = e.failedResult(url, debug, fmt.Sprintf("panic: %v", r), start)
		}
	}()

	page, cleanup, err := e.browser.NewPage(ctx)
	if err != nil {
		return e.failedResult(url, debug, fmt.Sprintf("failed to open page: %v", err), start)
	}
	defer cleanup()
	defer func() {
		// The tab is still open here; grab the evidence before cleanup
		// tears it down, then let the outer recover fold the result.
		if r := recover(); r != nil {
			e.captureFailureScreenshot(ctx, page, "extraction_error", url, debug)
			panic(r)
		}
	}()

	if err := page.Navigate(ctx, url); err != nil {
		e.captureFailureScreenshot(ctx, page, "extraction_error", url, debug)
		return e.failedResult(url, debug, fmt.Sprintf("navigation failed: %v", err), start)
	}

	// Each wait below manages its own budget. A page that never settles
	// degrades that one wait; the strategy chain and the fallbacks still
	// run. Callers bound the whole call through ctx if they need to.
	waiter := preload.NewWaiter(page, e.cfg, e.logger)
	loaded, steps := waiter.WaitForCompleteLoading(ctx, e.cfg.Timeout())
	for _, step := range steps {
		if step.Status != preload.StepOK {
			e.logger.Debug("readiness step did not complete",
				"url", url, "step", step.Name, "status", step.Status.String())
		}
	}
	if !loaded {
		e.logger.Warn("page readiness incomplete, extracting anyway", "url", url)
	}

	// The post body lives inside an iframe on cafe pages. A failed
	// switch is survivable: some layouts render the body top-level.
	if e.iframeName != "" {
		if !waiter.WaitForIframeAndSwitch(ctx, e.iframeName, iframeWait) {
			e.logger.Warn("iframe switch failed, staying on top document",
				"url", url, "iframe", e.iframeName)
		}
	}

	e.collectPageInfo(ctx, page, debug)

	outcome := e.strategies.ExtractWithStrategies(ctx, page)
	for _, attempt := range outcome.Attempts {
		debug.AddAttempt(attempt)
	}
	if outcome.Content != "" {
		vr := e.validator.ValidateContent(outcome.Content)
		if vr.IsValid {
			return buildResult(vr.CleanedContent, outcome.Method, vr.QualityScore,
				debug, true, "", time.Since(start).Milliseconds())
		}
		e.logger.Info("strategy content rejected by validation",
			"url", url, "strategy", outcome.Strategy, "issues", vr.Issues)
	}

	if result, ok := e.lastResort(ctx, page, waiter, url, debug, start); ok {
		return result
	}

	e.captureFailureScreenshot(ctx, page, "extraction_failed", url, debug)
	return e.failedResult(url, debug, "all extraction strategies failed", start)
}

// lastResort runs the fallback chain after the strategy chain came up
// empty: readability over the page snapshot, then a whole-document text
// walk, then one refresh-and-retry of the walk.
func (e *Extractor) lastResort(ctx context.Context, page browser.Page, waiter *preload.Waiter, url string, debug *models.DebugInfo, start time.Time) (models.ContentResult, bool) {
	html, err := snapshotHTML(ctx, page)
	if err != nil {
		e.logger.Warn("page snapshot failed", "url", url, "error", err)
	}

	if html != "" {
		if text := readabilityExtract(html, url); text != "" {
			if vr := e.validator.ValidateContent(text); vr.IsValid {
				e.logger.Info("readability fallback succeeded", "url", url)
				return buildResult(vr.CleanedContent, models.MethodFallback,
					vr.QualityScore, debug, true, "", time.Since(start).Milliseconds()), true
			}
		}

		if text := domTraversalExtract(html); text != "" {
			if vr := e.validator.ValidateContent(text); vr.IsValid {
				e.logger.Info("dom traversal fallback succeeded", "url", url)
				return buildResult(vr.CleanedContent, models.MethodDomTraversal,
					vr.QualityScore, debug, true, "", time.Since(start).Milliseconds()), true
			}
		}
	}

	// One refresh: dynamic editors occasionally drop their payload on
	// first load and render fine the second time.
	e.logger.Info("refreshing page for one more attempt", "url", url)
	if err := page.Reload(ctx); err != nil {
		e.logger.Warn("page reload failed", "url", url, "error", err)
		return models.ContentResult{}, false
	}
	preload.Sleep(ctx, refreshSettle)
	if e.iframeName != "" {
		if !waiter.WaitForIframeAndSwitch(ctx, e.iframeName, iframeWait) {
			e.logger.Warn("iframe switch failed after reload", "url", url)
		}
		preload.Sleep(ctx, postSwitchSettle)
	}

	html, err = snapshotHTML(ctx, page)
	if err != nil || html == "" {
		return models.ContentResult{}, false
	}
	if text := domTraversalExtract(html); text != "" {
		if vr := e.validator.ValidateContent(text); vr.IsValid {
			e.logger.Info("retry after refresh succeeded", "url", url)
			return buildResult(vr.CleanedContent, models.MethodDomTraversal,
				vr.QualityScore, debug, true, "", time.Since(start).Milliseconds()), true
		}
	}
	return models.ContentResult{}, false
}

func (e *Extractor) failedResult(url string, debug *models.DebugInfo, errMsg string, start time.Time) models.ContentResult {
	content := fmt.Sprintf(failedContentTemplate, url)
	return buildResult(content, models.MethodFallback, 0.0,
		debug, false, errMsg, time.Since(start).Milliseconds())
}

// buildResult wraps the checked constructor. The pipeline only hands it
// validated scores and non-empty success content, so a constructor
// rejection is itself reported as a failed result.
func buildResult(content string, method models.ExtractionMethod, score float64,
	debug *models.DebugInfo, success bool, errMsg string, elapsedMs int64) models.ContentResult {

	result, err := models.NewContentResult(content, method, score, debug, success, errMsg, elapsedMs)
	if err != nil {
		result, _ = models.NewContentResult(content, method, 0.0, debug, false, err.Error(), elapsedMs)
	}
	return result
}

func (e *Extractor) captureFailureScreenshot(ctx context.Context, page browser.Page, prefix, url string, debug *models.DebugInfo) {
	if !e.cfg.EnableDebugScreenshot || e.artifacts == nil {
		return
	}
	path := e.artifacts.ScreenshotPath(prefix, url)
	if err := page.Screenshot(ctx, path); err != nil {
		e.logger.Warn("failure screenshot failed", "url", url, "error", err)
		return
	}
	debug.ScreenshotPath = path
	e.logger.Info("failure screenshot saved", "url", url, "path", path)
}
