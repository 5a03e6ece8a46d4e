package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/llkd33/newcrawling/models"
)

const defaultTimeout = 15 * time.Second

// staticSelectors are probed against the plain-HTTP snapshot, newest
// editor first. Without JavaScript only server-rendered markup is
// visible, so this mostly catches SmartEditor 2 and older posts.
var staticSelectors = []struct {
	selector string
	method   models.ExtractionMethod
}{
	{".se-main-container", models.MethodSmartEditor3},
	{".ContentRenderer", models.MethodSmartEditor2},
	{"#postViewArea", models.MethodSmartEditor2},
	{"#content-area", models.MethodGeneralEditor},
	{".content_view", models.MethodGeneralEditor},
	{"#tbody", models.MethodLegacyEditor},
	{"td[id=\"tbody\"]", models.MethodLegacyEditor},
}

// Fetcher retrieves pages over plain HTTP, without a browser. It backs
// the fallback path for when browser automation is unavailable.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: userAgent,
	}
}

// GetHTML fetches url and parses the response into a document.
func (f *Fetcher) GetHTML(ctx context.Context, url string) (*goquery.Document, error) {
	bodyBytes, err := f.GetHTMLBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// GetHTMLBytes fetches url and returns the raw response body.
func (f *Fetcher) GetHTMLBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return bodyBytes, nil
}

// ExtractStatic probes the snapshot for known editor containers and
// returns the first non-trivial text found plus the method it maps to.
// Returns ok=false when no container yields usable text.
func (f *Fetcher) ExtractStatic(ctx context.Context, url string) (string, models.ExtractionMethod, bool, error) {
	doc, err := f.GetHTML(ctx, url)
	if err != nil {
		return "", "", false, err
	}
	text, method, ok := ProbeDocument(doc)
	return text, method, ok, nil
}

// ProbeDocument runs the static selector probe over an already parsed
// document.
func ProbeDocument(doc *goquery.Document) (string, models.ExtractionMethod, bool) {
	for _, probe := range staticSelectors {
		sel := doc.Find(probe.selector)
		if sel.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(sel.First().Text())
		if len([]rune(text)) < 30 {
			continue
		}
		return text, probe.method, true
	}
	return "", "", false
}
