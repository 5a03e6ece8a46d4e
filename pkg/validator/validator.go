// Package validator cleans extracted post text and scores its quality.
// Everything here is a pure function of the input string and the
// configured weights; no I/O.
package validator

import (
	"regexp"
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/llkd33/newcrawling/models"
)

// uiTextPatterns matches platform chrome that leaks into extracted
// text: login prompts, menu labels, comment/share/report controls.
var uiTextPatterns = compileAll([]string{
	// login
	`로그인\s*하세요?`,
	`로그인이?\s*필요합니다?`,
	`회원가입`,
	`아이디\s*저장`,
	// menu / navigation
	`메뉴`,
	`홈으?로`,
	`목록으?로`,
	`이전\s*페이지`,
	`다음\s*페이지`,
	`페이지\s*이동`,
	`카페\s*홈`,
	`게시판`,
	`검색`,
	`전체\s*메뉴`,
	// comments
	`댓글\s*\d*\s*개?`,
	`댓글\s*쓰기`,
	`댓글\s*등록`,
	`답글`,
	`대댓글`,
	// share / actions
	`공유하기`,
	`스크랩`,
	`좋아요\s*\d*`,
	`추천\s*\d*`,
	`신고하기`,
	`수정하기`,
	`삭제하기`,
	// misc chrome
	`더보기`,
	`접기`,
	`펼치기`,
	`새창`,
	`인쇄`,
	`글자\s*크기`,
	`폰트\s*설정`,
})

// meaninglessPatterns matches noise that survives chrome removal:
// symbol runs, ad boilerplate, system error messages.
var meaninglessPatterns = compileAll([]string{
	// Letters in any script are content: Hanja and kana show up in
	// otherwise-Korean posts and must survive symbol-run removal.
	`[^\p{L}\p{N}_\s]{3,}`,
	`광고`,
	`홍보`,
	`이벤트\s*참여`,
	`할인\s*쿠폰`,
	`시스템\s*오류`,
	`페이지를?\s*찾을\s*수\s*없습니다`,
	`접근\s*권한이?\s*없습니다`,
	`로딩\s*중`,
	`잠시만\s*기다려\s*주세요`,
	`내용이?\s*없습니다`,
	`게시물이?\s*없습니다`,
	`작성된\s*글이?\s*없습니다`,
})

var (
	htmlTagRe       = regexp.MustCompile(`<[^<>]*>`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	blankLinesRe    = regexp.MustCompile(`\n\s*\n\s*\n+`)
	meaningfulRe    = regexp.MustCompile(`[가-힣a-zA-Z0-9]`)
	sentenceMarkRe  = regexp.MustCompile(`[.!?。,]`)
	wordRe          = regexp.MustCompile(`[가-힣a-zA-Z]+`)
	sentenceSplitRe = regexp.MustCompile(`[.!?。]`)
)

// htmlEntities is ordered: &amp; decodes first so double-encoded
// entities resolve the same way the original pipeline did.
var htmlEntities = []struct{ entity, char string }{
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&#39;", "'"},
	{"&nbsp;", " "},
}

var sentenceEndings = []rune{'.', '!', '?', '。'}

func compileAll(patterns []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(`(?i)` + p)
	}
	return res
}

// Validator cleans and scores content against a length window and the
// configured quality weights.
type Validator struct {
	cfg      models.ExtractionConfig
	weights  models.QualityWeights
	detector lingua.LanguageDetector
}

// New returns a Validator with the given config and default weights.
func New(cfg models.ExtractionConfig) *Validator {
	return &Validator{cfg: cfg, weights: models.DefaultQualityWeights()}
}

// NewWithWeights returns a Validator with explicit quality weights.
func NewWithWeights(cfg models.ExtractionConfig, weights models.QualityWeights) *Validator {
	return &Validator{cfg: cfg, weights: weights}
}

// WithLanguageDetection enables lingua-based language tagging on
// validation results. Detection is informational only.
func (v *Validator) WithLanguageDetection() *Validator {
	v.detector = lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Korean, lingua.English, lingua.Japanese, lingua.Chinese).
		Build()
	return v
}

// CleanContent strips markup and platform chrome from raw extracted
// text. HTML removal runs first so tag attributes cannot mask the
// phrase patterns.
func (v *Validator) CleanContent(content string) string {
	if content == "" {
		return ""
	}

	cleaned := removeHTML(strings.TrimSpace(content))

	for _, re := range uiTextPatterns {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	for _, re := range meaninglessPatterns {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = removeRepeatedWords(cleaned)

	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = blankLinesRe.ReplaceAllString(cleaned, "\n\n")

	return strings.TrimSpace(cleaned)
}

// ValidateContent cleans the input and evaluates it against the
// min-length, meaningful-ratio and quality-score gates. All three must
// pass for validity; each alone only contributes partially to the score.
func (v *Validator) ValidateContent(content string) models.ValidationResult {
	originalLength := len([]rune(content))
	var issues []string

	cleaned := v.CleanContent(content)
	cleanedLength := len([]rune(cleaned))

	minLengthValid := cleanedLength >= v.cfg.MinContentLength
	if !minLengthValid {
		issues = append(issues, minLengthIssue(cleanedLength, v.cfg.MinContentLength))
	}

	if cleanedLength > v.cfg.MaxContentLength {
		cleaned = v.TruncateContent(cleaned, v.cfg.MaxContentLength)
		cleanedLength = len([]rune(cleaned))
		issues = append(issues, truncatedIssue(v.cfg.MaxContentLength))
	}

	meaningfulRatio := meaningfulContentRatio(cleaned)
	if meaningfulRatio < v.weights.MeaningfulGate {
		issues = append(issues, lowMeaningfulIssue(meaningfulRatio))
	}

	qualityScore := v.qualityScore(cleaned, minLengthValid, meaningfulRatio)

	result := models.ValidationResult{
		IsValid:        minLengthValid && meaningfulRatio >= v.weights.MeaningfulGate && qualityScore >= v.weights.ScoreGate,
		QualityScore:   qualityScore,
		Issues:         issues,
		CleanedContent: cleaned,
		OriginalLength: originalLength,
		CleanedLength:  cleanedLength,
	}

	if v.detector != nil && cleaned != "" {
		if lang, ok := v.detector.DetectLanguageOf(cleaned); ok {
			result.Language = lang.String()
		}
	}
	return result
}

// TruncateContent cuts content to maxLength runes, reserving room for
// an ellipsis. It prefers the last sentence boundary at or past 70% of
// the window, then the last whitespace at or past 80%, then hard-cuts.
func (v *Validator) TruncateContent(content string, maxLength int) string {
	runes := []rune(content)
	if len(runes) <= maxLength {
		return content
	}

	window := maxLength - 3
	if window <= 0 {
		return "..."
	}
	truncated := runes[:window]

	lastSentenceEnd := -1
	for i, r := range truncated {
		for _, end := range sentenceEndings {
			if r == end && i > lastSentenceEnd {
				lastSentenceEnd = i
			}
		}
	}
	if float64(lastSentenceEnd) > float64(window)*0.7 {
		return string(truncated[:lastSentenceEnd+1])
	}

	lastSpace := -1
	for i, r := range truncated {
		if r == ' ' {
			lastSpace = i
		}
	}
	if float64(lastSpace) > float64(window)*0.8 {
		return string(truncated[:lastSpace]) + "..."
	}

	return strings.TrimRight(string(truncated), " \t\n") + "..."
}

// IsContentTooShort reports whether the cleaned content falls below the
// configured minimum length.
func (v *Validator) IsContentTooShort(content string) bool {
	return len([]rune(v.CleanContent(content))) < v.cfg.MinContentLength
}

// ContentSummary produces a short summary, preferring the first
// sentence boundary within budget, else a word-boundary cut.
func (v *Validator) ContentSummary(content string, maxSummaryLength int) string {
	cleaned := v.CleanContent(content)
	runes := []rune(cleaned)
	if len(runes) <= maxSummaryLength {
		return cleaned
	}

	firstSentenceEnd := -1
	for i, r := range runes {
		for _, end := range sentenceEndings {
			if r == end {
				firstSentenceEnd = i
				break
			}
		}
		if firstSentenceEnd >= 0 {
			break
		}
	}
	if firstSentenceEnd > 0 && firstSentenceEnd < maxSummaryLength {
		return string(runes[:firstSentenceEnd+1])
	}

	truncated := runes[:maxSummaryLength]
	lastSpace := -1
	for i, r := range truncated {
		if r == ' ' {
			lastSpace = i
		}
	}
	if float64(lastSpace) > float64(maxSummaryLength)*0.8 {
		return string(truncated[:lastSpace]) + "..."
	}
	return string(truncated) + "..."
}

func removeHTML(content string) string {
	content = htmlTagRe.ReplaceAllString(content, "")
	for _, e := range htmlEntities {
		content = strings.ReplaceAll(content, e.entity, e.char)
	}
	return content
}

// removeRepeatedWords drops runs of the same token repeated three or
// more times consecutively, keeping a single occurrence. Regexp
// backreferences are unavailable here, so it scans tokens directly.
func removeRepeatedWords(content string) string {
	fields := strings.Fields(content)
	if len(fields) < 3 {
		return content
	}

	var out []string
	i := 0
	for i < len(fields) {
		j := i
		for j < len(fields) && fields[j] == fields[i] {
			j++
		}
		if j-i >= 3 {
			out = append(out, fields[i])
		} else {
			out = append(out, fields[i:j]...)
		}
		i = j
	}
	return strings.Join(out, " ")
}

// meaningfulContentRatio estimates how much of the string is real text:
// the fraction of Hangul/Latin/digit runes, a sentence-punctuation
// bonus capped at 0.20, and a lexical-diversity bonus capped at 0.15.
func meaningfulContentRatio(content string) float64 {
	totalChars := len([]rune(content))
	if totalChars == 0 {
		return 0.0
	}

	meaningfulChars := len(meaningfulRe.FindAllString(content, -1))
	baseRatio := float64(meaningfulChars) / float64(totalChars)

	sentenceIndicators := len(sentenceMarkRe.FindAllString(content, -1))
	sentenceBonus := float64(sentenceIndicators) / (float64(totalChars) / 50.0)
	if sentenceBonus > 0.2 {
		sentenceBonus = 0.2
	}

	words := wordRe.FindAllString(content, -1)
	diversityBonus := 0.0
	if len(words) > 0 {
		unique := make(map[string]struct{}, len(words))
		for _, w := range words {
			unique[w] = struct{}{}
		}
		diversityBonus = float64(len(unique)) / float64(len(words)) * 0.3
		if diversityBonus > 0.15 {
			diversityBonus = 0.15
		}
	}

	ratio := baseRatio + sentenceBonus + diversityBonus
	if ratio > 1.0 {
		ratio = 1.0
	}
	return ratio
}

func (v *Validator) qualityScore(content string, minLengthValid bool, meaningfulRatio float64) float64 {
	score := 0.0

	if minLengthValid {
		score += v.weights.MinLengthWeight
	}

	score += meaningfulRatio * v.weights.MeaningfulWeight

	length := len([]rune(content))
	if length >= v.cfg.MinContentLength {
		optimalLength := v.cfg.MinContentLength * 2
		lengthRatio := 1.0
		if optimalLength > 0 {
			lengthRatio = float64(length) / float64(optimalLength)
			if lengthRatio > 1.0 {
				lengthRatio = 1.0
			}
		}
		score += lengthRatio * v.weights.LengthBonusWeight
	}

	if strings.Contains(content, "\n\n") {
		score += v.weights.ParagraphBonus
	}
	if len(sentenceSplitRe.Split(content, -1)) > 2 {
		score += v.weights.SentenceBonus
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
