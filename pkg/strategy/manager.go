package strategy

import (
	"context"
	"log/slog"
	"time"

	"github.com/llkd33/newcrawling/models"
	"github.com/llkd33/newcrawling/pkg/browser"
)

// Outcome is the result of running the strategy chain. Empty Content
// with a full attempt trail is the normal all-strategies-failed shape.
type Outcome struct {
	Content  string
	Strategy string
	Method   models.ExtractionMethod
	Attempts []models.SelectorAttempt
}

// Manager runs strategies strictly in the order given.
type Manager struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewManager returns a Manager over the given chain.
func NewManager(strategies []Strategy, logger *slog.Logger) *Manager {
	return &Manager{strategies: strategies, logger: logger}
}

// StrategyNames lists the chain's strategy names in order.
func (m *Manager) StrategyNames() []string {
	names := make([]string, len(m.strategies))
	for i, s := range m.strategies {
		names[i] = s.Name
	}
	return names
}

// ExtractWithStrategies tries each strategy in order, recording one
// SelectorAttempt per strategy, and stops at the first that yields
// content. Total failure returns an Outcome with empty Content and the
// complete trail.
func (m *Manager) ExtractWithStrategies(ctx context.Context, page browser.Page) Outcome {
	outcome := Outcome{}

	for _, s := range m.strategies {
		start := time.Now()
		content := s.Extract(ctx, page, m.logger)
		elapsed := time.Since(start).Milliseconds()

		outcome.Attempts = append(outcome.Attempts, models.SelectorAttempt{
			Selector:         s.Name,
			Success:          content != "",
			ContentLength:    len([]rune(content)),
			ExtractionTimeMs: elapsed,
		})

		if content != "" {
			m.logger.Info("strategy chain succeeded", "strategy", s.Name, "length", len([]rune(content)), "elapsed_ms", elapsed)
			outcome.Content = content
			outcome.Strategy = s.Name
			outcome.Method = s.Method
			return outcome
		}
	}

	m.logger.Warn("all strategies failed", "attempts", len(outcome.Attempts))
	return outcome
}
