package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/llkd33/newcrawling/models"
	"github.com/llkd33/newcrawling/pkg/fetcher"
	"github.com/llkd33/newcrawling/pkg/validator"
)

// staticSource extracts over plain HTTP without a browser. Dynamic
// SmartEditor 3 posts usually need JavaScript, so this path is a
// degraded fallback for environments without Chrome.
type staticSource struct {
	fetcher   *fetcher.Fetcher
	validator *validator.Validator
	logger    *slog.Logger
}

func newStaticSource(userAgent string, cfg models.ExtractionConfig, logger *slog.Logger) *staticSource {
	return &staticSource{
		fetcher:   fetcher.NewFetcher(userAgent),
		validator: validator.New(cfg),
		logger:    logger,
	}
}

func (s *staticSource) ExtractContent(ctx context.Context, url string) models.ContentResult {
	start := time.Now()
	debug := models.NewDebugInfo(url)

	text, method, ok, err := s.fetcher.ExtractStatic(ctx, url)
	if err != nil {
		return s.failure(url, debug, fmt.Sprintf("http fetch failed: %v", err), start)
	}
	if ok {
		if vr := s.validator.ValidateContent(text); vr.IsValid {
			result, err := models.NewContentResult(vr.CleanedContent, method, vr.QualityScore,
				debug, true, "", time.Since(start).Milliseconds())
			if err == nil {
				return result
			}
			s.logger.Warn("result construction failed", "url", url, "error", err)
		} else {
			s.logger.Info("static content rejected by validation", "url", url)
		}
	}

	return s.failure(url, debug, "no editor container found in static HTML", start)
}

func (s *staticSource) failure(url string, debug *models.DebugInfo, errMsg string, start time.Time) models.ContentResult {
	result, _ := models.NewContentResult(
		fmt.Sprintf("내용을 불러올 수 없습니다.\n원본 링크: %s", url),
		models.MethodFallback, 0.0, debug, false, errMsg,
		time.Since(start).Milliseconds())
	return result
}
