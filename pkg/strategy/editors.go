package strategy

import "github.com/llkd33/newcrawling/models"

// Structural-script fallbacks for the SmartEditor markups, whose class
// names have churned enough that a direct DOM walk is the second line
// of defense when the selector list misses.

const smartEditor3Script = `(function() {
	var container = document.querySelector('.se-main-container');
	if (!container) { return ''; }
	var texts = [];
	var elements = container.querySelectorAll(
		'.se-module-text, .se-text-paragraph, .se-section-text, p, span, div');
	elements.forEach(function(el) {
		var style = window.getComputedStyle(el);
		if (style.display !== 'none' && style.visibility !== 'hidden') {
			var text = (el.innerText || el.textContent || '').trim();
			if (text && text.length > 10) { texts.push(text); }
		}
	});
	return texts.length > 0 ? texts.join('\n') : '';
})()`

const smartEditor2Script = `(function() {
	var selectors = ['.ContentRenderer', '#postViewArea', '.NHN_Writeform_Main'];
	for (var i = 0; i < selectors.length; i++) {
		var container = document.querySelector(selectors[i]);
		if (container) {
			var style = window.getComputedStyle(container);
			if (style.display !== 'none' && style.visibility !== 'hidden') {
				var text = (container.innerText || container.textContent || '').trim();
				if (text && text.length > 20) { return text; }
			}
		}
	}
	return '';
})()`

// DefaultStrategies returns the chain in production priority order.
// SmartEditor 3 leads because it is the platform's current default
// editor and statistically the most likely match; when stale markup
// leaves several containers present at once, this fixed order decides
// the winner.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{
			Name:   "SmartEditor 3.0",
			Method: models.MethodSmartEditor3,
			Selectors: []string{
				".se-main-container",
				".se-component-content",
				"div.se-module-text",
				".se-text-paragraph",
				".se-section-text",
				".se-viewer",
				".se-content",
			},
			FallbackScript: smartEditor3Script,
		},
		{
			Name:   "SmartEditor 2.0",
			Method: models.MethodSmartEditor2,
			Selectors: []string{
				".ContentRenderer",
				"#postViewArea",
				".NHN_Writeform_Main",
				".post-view",
				".post_ct",
				".view-content",
				".article-content",
			},
			FallbackScript: smartEditor2Script,
		},
		{
			Name:   "General Editor",
			Method: models.MethodGeneralEditor,
			Selectors: []string{
				"#content-area",
				`div[id="content-area"]`,
				".content_view",
				".board-content",
				".content-body",
				".post-content",
				".article-body",
				".view-content",
				".main-content",
			},
		},
		{
			Name:   "Legacy Editor",
			Method: models.MethodLegacyEditor,
			Selectors: []string{
				"#tbody",
				`td[id="tbody"]`,
				".post_content",
				".view_content",
				".article_viewer",
				".board-view-content",
				"div.content_box",
				"table.board_view td",
				".old-editor-content",
			},
		},
	}
}
