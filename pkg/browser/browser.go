// Package browser defines the page-automation handle the extraction
// pipeline drives, plus a Chrome implementation on chromedp. The core
// packages only ever see the interfaces, so they are testable against a
// fake without a real browser.
package browser

import (
	"context"
	"time"
)

// Page is one browsing context (tab). Methods are best-effort wrappers
// over the automation layer; callers decide whether a failure is soft.
type Page interface {
	// Navigate loads the given URL.
	Navigate(ctx context.Context, url string) error
	// Reload reloads the current document.
	Reload(ctx context.Context) error
	// Evaluate runs script in the page and unmarshals the result into out.
	// Pass a nil out to discard the result.
	Evaluate(ctx context.Context, script string, out any) error
	// ElementCount reports how many elements match the CSS selector.
	ElementCount(ctx context.Context, selector string) (int, error)
	// WaitVisible blocks until the first match becomes visible or the
	// timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Text returns the rendered text of the first match.
	Text(ctx context.Context, selector string) (string, error)
	// Property returns a DOM property (innerText, textContent, ...) of
	// the first match.
	Property(ctx context.Context, selector, name string) (string, error)
	// SwitchFrame moves the page context into the named embedded frame.
	SwitchFrame(ctx context.Context, name string) error
	// SwitchDefault restores the top-level document context.
	SwitchDefault(ctx context.Context) error
	// Screenshot captures the viewport to the given file path.
	Screenshot(ctx context.Context, path string) error
	// CurrentURL returns the page's current location.
	CurrentURL(ctx context.Context) (string, error)
	// Title returns the document title.
	Title(ctx context.Context) (string, error)
}

// Browser creates isolated pages. The cleanup func returned by NewPage
// must always be called; it closes the tab and releases its resources.
type Browser interface {
	NewPage(ctx context.Context) (Page, func(), error)
}
