package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Options configures the Chrome process.
type Options struct {
	Headless     bool
	WindowWidth  int
	WindowHeight int
	UserAgent    string
}

// DefaultOptions returns the options crawl runs use.
func DefaultOptions() Options {
	return Options{
		Headless:     true,
		WindowWidth:  1920,
		WindowHeight: 1080,
		UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Chrome implements Browser on a shared chromedp exec allocator. Each
// NewPage call opens an independent tab.
type Chrome struct {
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewChrome starts (lazily) a Chrome allocator with the given options.
func NewChrome(ctx context.Context, opts Options) (*Chrome, error) {
	chromeOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)
	if opts.UserAgent != "" {
		chromeOpts = append(chromeOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, chromeOpts...)
	return &Chrome{allocCtx: allocCtx, cancel: cancel}, nil
}

// Close shuts down the allocator and every tab opened from it.
func (c *Chrome) Close() {
	c.cancel()
}

// NewPage opens a fresh tab. The returned cleanup closes only that tab.
func (c *Chrome) NewPage(ctx context.Context) (Page, func(), error) {
	tabCtx, cancel := chromedp.NewContext(c.allocCtx)

	// Force the tab to actually exist before handing it out.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to open tab: %w", err)
	}

	p := &chromePage{ctx: tabCtx}
	return p, cancel, nil
}

// chromePage drives a single tab. Frame switching is implemented by
// navigating into the iframe's src document and remembering the outer
// URL, which is the only reliable way to reach the cafe_main frame
// through CDP without out-of-process iframe targets.
type chromePage struct {
	ctx      context.Context
	outerURL string
}

// run executes actions on the tab, honoring any deadline on the
// caller's context.
func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := p.ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(p.ctx, deadline)
		defer cancel()
	}
	return chromedp.Run(runCtx, actions...)
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	p.outerURL = ""
	return p.run(ctx, chromedp.Navigate(url))
}

func (p *chromePage) Reload(ctx context.Context) error {
	return p.run(ctx, chromedp.Reload())
}

func (p *chromePage) Evaluate(ctx context.Context, script string, out any) error {
	if out == nil {
		var discard any
		out = &discard
	}
	return p.run(ctx, chromedp.Evaluate(script, out))
}

func (p *chromePage) ElementCount(ctx context.Context, selector string) (int, error) {
	var count int
	script := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	if err := p.run(ctx, chromedp.Evaluate(script, &count)); err != nil {
		return 0, err
	}
	return count, nil
}

func (p *chromePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	// The wait runs on the tab's context but must stop when the caller
	// gives up, so the caller's cancellation is forwarded into it.
	waitCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (p *chromePage) Text(ctx context.Context, selector string) (string, error) {
	var text string
	if err := p.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return text, nil
}

func (p *chromePage) Property(ctx context.Context, selector, name string) (string, error) {
	var value string
	script := fmt.Sprintf(
		`(function() { var el = document.querySelector(%q); return el ? String(el[%q] || '') : ''; })()`,
		selector, name)
	if err := p.run(ctx, chromedp.Evaluate(script, &value)); err != nil {
		return "", err
	}
	return value, nil
}

func (p *chromePage) SwitchFrame(ctx context.Context, name string) error {
	var frameSrc string
	script := fmt.Sprintf(
		`(function() { var f = document.querySelector('iframe[name=%q]'); return f ? f.src : ''; })()`,
		name)
	if err := p.run(ctx, chromedp.Evaluate(script, &frameSrc)); err != nil {
		return fmt.Errorf("failed to locate iframe %q: %w", name, err)
	}
	if frameSrc == "" {
		return fmt.Errorf("iframe %q not present", name)
	}

	var outer string
	if err := p.run(ctx, chromedp.Location(&outer)); err != nil {
		return fmt.Errorf("failed to read current location: %w", err)
	}

	if err := p.run(ctx, chromedp.Navigate(frameSrc)); err != nil {
		return fmt.Errorf("failed to enter iframe %q: %w", name, err)
	}
	p.outerURL = outer
	return nil
}

func (p *chromePage) SwitchDefault(ctx context.Context) error {
	if p.outerURL == "" {
		return nil
	}
	outer := p.outerURL
	p.outerURL = ""
	return p.run(ctx, chromedp.Navigate(outer))
}

func (p *chromePage) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().Do(ctx)
		return err
	}))
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("failed to save screenshot: %w", err)
	}
	return nil
}

func (p *chromePage) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := p.run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

func (p *chromePage) Title(ctx context.Context) (string, error) {
	var title string
	if err := p.run(ctx, chromedp.Title(&title)); err != nil {
		return "", err
	}
	return title, nil
}
