package extractor

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/llkd33/newcrawling/pkg/browser"
)

const minWalkLength = 50

// snapshotHTML captures the full serialized document of the current
// frame so the fallbacks can work on static HTML.
func snapshotHTML(ctx context.Context, page browser.Page) (string, error) {
	var out string
	if err := page.Evaluate(ctx, "document.documentElement.outerHTML", &out); err != nil {
		return "", fmt.Errorf("failed to snapshot document: %w", err)
	}
	return out, nil
}

// readabilityExtract runs the readability article heuristic over a page
// snapshot and returns its plain-text content, or "" when the heuristic
// finds nothing usable.
func readabilityExtract(htmlDoc, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(htmlDoc), u)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}

// chromeKeywords marks text nodes that belong to page furniture rather
// than the post body.
var chromeKeywords = []string{
	"로그인", "회원가입", "메뉴", "검색", "공유하기", "스크랩",
	"신고", "카페앱", "댓글 쓰기", "javascript",
}

var skipTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "iframe": {},
	"nav": {}, "header": {}, "footer": {},
}

// domTraversalExtract walks every text node in the snapshot and keeps
// the ones that look like body text: not inside script/style/hidden
// containers, longer than a UI label, free of navigation chrome. The
// result is only used when it clears a minimum size.
func domTraversalExtract(htmlDoc string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDoc))
	if err != nil {
		return ""
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return ""
	}

	var parts []string
	for _, node := range body.Nodes {
		walkTextNodes(node, &parts)
	}
	text := strings.Join(parts, "\n")
	if len([]rune(text)) <= minWalkLength {
		return ""
	}
	return text
}

func walkTextNodes(n *html.Node, parts *[]string) {
	if n.Type == html.ElementNode {
		if _, skip := skipTags[n.Data]; skip {
			return
		}
		if isHiddenNode(n) {
			return
		}
	}
	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if acceptText(text) {
			*parts = append(*parts, text)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkTextNodes(c, parts)
	}
}

func isHiddenNode(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key != "style" {
			continue
		}
		style := strings.ToLower(strings.ReplaceAll(attr.Val, " ", ""))
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return true
		}
	}
	return false
}

func acceptText(text string) bool {
	if len([]rune(text)) <= 10 {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range chromeKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}
