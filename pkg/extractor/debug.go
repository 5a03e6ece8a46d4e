package extractor

import (
	"context"

	"github.com/llkd33/newcrawling/models"
	"github.com/llkd33/newcrawling/pkg/browser"
)

// pageInfoScript probes the document in one round trip: ready state,
// body size and which editor generation rendered the post.
const pageInfoScript = `(function() {
	var body = document.body;
	return {
		readyState: document.readyState,
		bodyLength: body ? body.innerHTML.length : 0,
		hasSE3: document.querySelectorAll('.se-main-container').length > 0,
		hasSE2: document.querySelectorAll('.ContentRenderer, #postViewArea').length > 0,
		hasGeneral: document.querySelectorAll('#content-area, .content_view').length > 0,
		hasLegacy: document.querySelectorAll('#tbody, td[id="tbody"]').length > 0
	};
})()`

type pageInfo struct {
	ReadyState string `json:"readyState"`
	BodyLength int    `json:"bodyLength"`
	HasSE3     bool   `json:"hasSE3"`
	HasSE2     bool   `json:"hasSE2"`
	HasGeneral bool   `json:"hasGeneral"`
	HasLegacy  bool   `json:"hasLegacy"`
}

// collectPageInfo fills the debug record with the page state observed
// just before the strategy chain runs. Probe failures leave the record
// at its defaults.
func (e *Extractor) collectPageInfo(ctx context.Context, page browser.Page, debug *models.DebugInfo) {
	var info pageInfo
	if err := page.Evaluate(ctx, pageInfoScript, &info); err != nil {
		e.logger.Debug("page info probe failed", "error", err)
		return
	}
	debug.PageReadyState = info.ReadyState
	debug.BodyHTMLLength = info.BodyLength

	switch {
	case info.HasSE3:
		debug.EditorTypeDetected = string(models.MethodSmartEditor3)
	case info.HasSE2:
		debug.EditorTypeDetected = string(models.MethodSmartEditor2)
	case info.HasGeneral:
		debug.EditorTypeDetected = string(models.MethodGeneralEditor)
	case info.HasLegacy:
		debug.EditorTypeDetected = string(models.MethodLegacyEditor)
	default:
		debug.EditorTypeDetected = "unknown"
	}
}
