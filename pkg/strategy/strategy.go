// Package strategy implements the ordered selector-strategy chain. One
// Strategy per historical editor markup; the Manager tries them in a
// fixed priority order and returns the first non-empty result.
package strategy

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/llkd33/newcrawling/models"
	"github.com/llkd33/newcrawling/pkg/browser"
)

const (
	visibilityWait = 5 * time.Second
	minRawLength   = 20
	minCleanLength = 30
)

// removeLinePatterns is the light line filter applied before the full
// validator runs; drops obvious chrome lines in raw extracted text.
var removeLinePatterns = []string{
	"로그인", "메뉴", "목록", "이전글", "다음글", "카페앱으로 보기",
	"JavaScript", "댓글", "스크랩", "신고", "좋아요", "답글",
	"doesn't work properly", "내용을 불러올 수 없습니다",
}

// invalidContentPatterns are boilerplate phrases the platform renders
// in place of a post body when extraction has actually failed.
var invalidContentPatterns = []string{
	"내용을 불러올 수 없습니다",
	"JavaScript를 활성화",
	"로그인이 필요합니다",
	"접근 권한이 없습니다",
}

// Strategy targets one editor markup: a priority-ordered selector list
// plus an optional structural-script fallback for the volatile
// SmartEditor markups.
type Strategy struct {
	Name           string
	Method         models.ExtractionMethod
	Selectors      []string
	FallbackScript string
}

// Extract runs the shared selector algorithm, then the structural
// script fallback when configured. Empty return means no result, which
// is a normal outcome, not an error.
func (s Strategy) Extract(ctx context.Context, page browser.Page, logger *slog.Logger) string {
	if content := s.extractWithSelectors(ctx, page, logger); content != "" {
		return content
	}
	if s.FallbackScript != "" {
		if content := s.extractWithScript(ctx, page, logger); content != "" {
			return content
		}
	}
	return ""
}

func (s Strategy) extractWithSelectors(ctx context.Context, page browser.Page, logger *slog.Logger) string {
	for _, selector := range s.Selectors {
		count, err := page.ElementCount(ctx, selector)
		if err != nil {
			logger.Debug("selector probe failed", "strategy", s.Name, "selector", selector, "error", err)
			continue
		}
		if count == 0 {
			logger.Debug("selector matched nothing", "strategy", s.Name, "selector", selector)
			continue
		}

		// Not visible yet is not fatal; extraction is attempted anyway.
		if err := page.WaitVisible(ctx, selector, visibilityWait); err != nil {
			logger.Debug("selector never became visible", "strategy", s.Name, "selector", selector)
		}

		raw := extractText(ctx, page, selector)
		if len([]rune(strings.TrimSpace(raw))) <= minRawLength {
			logger.Debug("selector text too short", "strategy", s.Name, "selector", selector, "length", len([]rune(raw)))
			continue
		}

		cleaned := basicContentCleaning(raw)
		if !isValidContent(cleaned) {
			logger.Debug("selector text rejected", "strategy", s.Name, "selector", selector)
			continue
		}

		logger.Info("selector extraction succeeded", "strategy", s.Name, "selector", selector, "length", len([]rune(cleaned)))
		return cleaned
	}
	return ""
}

func (s Strategy) extractWithScript(ctx context.Context, page browser.Page, logger *slog.Logger) string {
	var raw string
	if err := page.Evaluate(ctx, s.FallbackScript, &raw); err != nil {
		logger.Debug("structural script extraction failed", "strategy", s.Name, "error", err)
		return ""
	}
	if len([]rune(strings.TrimSpace(raw))) <= minCleanLength {
		return ""
	}
	cleaned := basicContentCleaning(raw)
	if !isValidContent(cleaned) {
		return ""
	}
	logger.Info("structural script extraction succeeded", "strategy", s.Name, "length", len([]rune(cleaned)))
	return cleaned
}

// extractText tries the automation layer's text accessors in fallback
// order; rendered text is occasionally empty while the underlying
// markup is not.
func extractText(ctx context.Context, page browser.Page, selector string) string {
	if text, err := page.Text(ctx, selector); err == nil && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}
	for _, prop := range []string{"innerText", "textContent"} {
		if text, err := page.Property(ctx, selector, prop); err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}
	script := `(function() {
		var el = document.querySelector(` + jsString(selector) + `);
		return el ? (el.innerText || el.textContent || '') : '';
	})()`
	var text string
	if err := page.Evaluate(ctx, script, &text); err == nil {
		return strings.TrimSpace(text)
	}
	return ""
}

// basicContentCleaning keeps lines longer than five runes that carry
// none of the chrome phrases.
func basicContentCleaning(content string) string {
	if content == "" {
		return ""
	}
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) <= 5 {
			continue
		}
		chrome := false
		for _, pattern := range removeLinePatterns {
			if strings.Contains(line, pattern) {
				chrome = true
				break
			}
		}
		if !chrome {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func isValidContent(content string) bool {
	if len([]rune(strings.TrimSpace(content))) < minCleanLength {
		return false
	}
	for _, pattern := range invalidContentPatterns {
		if strings.Contains(content, pattern) {
			return false
		}
	}
	return true
}

func jsString(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
