package validator

import (
	"strings"
	"testing"

	"github.com/llkd33/newcrawling/models"
)

func testValidator(t *testing.T) *Validator {
	t.Helper()
	return New(models.DefaultExtractionConfig())
}

func TestCleanContent(t *testing.T) {
	v := testValidator(t)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "empty input",
			content: "",
			want:    "",
		},
		{
			name:    "strips html tags",
			content: "<div class=\"se-module-text\"><p>오늘 방문한 식당 후기입니다</p></div>",
			want:    "오늘 방문한 식당 후기입니다",
		},
		{
			name:    "decodes entities",
			content: "A &amp; B &lt;tag&gt; &quot;quoted&quot;",
			want:    `A & B <tag> "quoted"`,
		},
		{
			name:    "removes login prompt",
			content: "본문 내용입니다 로그인 하세요 본문이 이어집니다",
			want:    "본문 내용입니다 본문이 이어집니다",
		},
		{
			name:    "removes share controls",
			content: "맛있는 저녁이었습니다 공유하기 스크랩",
			want:    "맛있는 저녁이었습니다",
		},
		{
			name:    "collapses whitespace",
			content: "첫번째   문장입니다\t\t두번째    문장입니다",
			want:    "첫번째 문장입니다 두번째 문장입니다",
		},
		{
			name:    "removes symbol runs",
			content: "공지합니다 ★☆★☆★ 모임은 토요일입니다",
			want:    "공지합니다 모임은 토요일입니다",
		},
		{
			name:    "keeps hanja",
			content: "이번 여행에서 본 현판에는 大韓民國 만세라고 적혀 있었습니다.",
			want:    "이번 여행에서 본 현판에는 大韓民國 만세라고 적혀 있었습니다.",
		},
		{
			name:    "keeps kana and chinese",
			content: "東京駅 근처 숙소였고 직원이 こんにちは 하고 인사했습니다",
			want:    "東京駅 근처 숙소였고 직원이 こんにちは 하고 인사했습니다",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.CleanContent(tt.content)
			if got != tt.want {
				t.Errorf("CleanContent(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestCleanContentIdempotent(t *testing.T) {
	v := testValidator(t)

	inputs := []string{
		"<p>재료는 양파와 당근입니다</p> 댓글 3개 좋아요 5",
		"오늘의   요리 &amp; 내일의   요리. 자세한 과정은 아래에 있습니다.",
		"같은말 같은말 같은말 같은말 반복이 제거됩니다",
	}
	for _, input := range inputs {
		once := v.CleanContent(input)
		twice := v.CleanContent(once)
		if once != twice {
			t.Errorf("CleanContent not idempotent:\nonce:  %q\ntwice: %q", once, twice)
		}
	}
}

func TestRemoveRepeatedWords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "three repeats collapse to one",
			content: "중요 중요 중요 공지사항입니다",
			want:    "중요 공지사항입니다",
		},
		{
			name:    "two repeats kept",
			content: "정말 정말 맛있어요",
			want:    "정말 정말 맛있어요",
		},
		{
			name:    "short input untouched",
			content: "하나 둘",
			want:    "하나 둘",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeRepeatedWords(tt.content); got != tt.want {
				t.Errorf("removeRepeatedWords(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestValidateContentKoreanPost(t *testing.T) {
	v := testValidator(t)

	content := "재료는 다음과 같습니다: 양파 1개, 당근 2개, 감자 3개. 조리 과정은 간단합니다."
	result := v.ValidateContent(content)

	if !result.IsValid {
		t.Fatalf("expected valid result, got issues: %v", result.Issues)
	}
	if result.QualityScore < 0.5 {
		t.Errorf("QualityScore = %.2f, want >= 0.5", result.QualityScore)
	}
	if result.CleanedContent == "" {
		t.Error("CleanedContent is empty")
	}
}

func TestValidateContentUIChromeOnly(t *testing.T) {
	v := testValidator(t)

	result := v.ValidateContent("로그인 메뉴 홈 댓글 5개 좋아요 10 공유하기")

	if result.IsValid {
		t.Fatal("expected chrome-only content to be invalid")
	}
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "최소 요구사항") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a min-length issue, got: %v", result.Issues)
	}
}

func TestValidateContentTruncatesOversized(t *testing.T) {
	cfg := models.DefaultExtractionConfig()
	v := New(cfg)

	content := strings.Repeat("양파를 썰어 냄비에 넣고 끓입니다. 간장과 설탕으로 간을 맞춥니다. ", 80)
	result := v.ValidateContent(content)

	if result.CleanedLength > cfg.MaxContentLength {
		t.Errorf("CleanedLength = %d, want <= %d", result.CleanedLength, cfg.MaxContentLength)
	}
	found := false
	for _, issue := range result.Issues {
		if strings.Contains(issue, "최대 길이") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a truncation issue, got: %v", result.Issues)
	}
}

func TestValidateContentScoreBounds(t *testing.T) {
	v := testValidator(t)

	inputs := []string{
		"",
		"짧음",
		"로그인 하세요",
		strings.Repeat("!!! ### $$$ ", 100),
		strings.Repeat("오늘은 날씨가 좋아서 공원에 다녀왔습니다. 벚꽃이 활짝 피었습니다. ", 50),
		"재료는 다음과 같습니다: 양파 1개, 당근 2개. 조리 과정은 간단합니다.",
	}
	for _, input := range inputs {
		result := v.ValidateContent(input)
		if result.QualityScore < 0.0 || result.QualityScore > 1.0 {
			t.Errorf("QualityScore out of range for %q: %.3f", input, result.QualityScore)
		}
	}
}

func TestValidityRequiresAllGates(t *testing.T) {
	cfg := models.DefaultExtractionConfig()

	// A score gate above 1.0 can never pass, so even content clearing
	// the length and meaningful gates must come back invalid.
	weights := models.DefaultQualityWeights()
	weights.ScoreGate = 1.1
	v := NewWithWeights(cfg, weights)

	content := "재료는 다음과 같습니다: 양파 1개, 당근 2개, 감자 3개. 조리 과정은 간단합니다."
	if result := v.ValidateContent(content); result.IsValid {
		t.Error("expected invalid result when the score gate cannot pass")
	}

	// With permissive gates the same content is valid.
	weights = models.DefaultQualityWeights()
	weights.ScoreGate = 0.1
	weights.MeaningfulGate = 0.1
	v = NewWithWeights(cfg, weights)
	if result := v.ValidateContent(content); !result.IsValid {
		t.Errorf("expected valid result with permissive gates, issues: %v", result.Issues)
	}
}

func TestTruncateContent(t *testing.T) {
	v := testValidator(t)

	t.Run("short content unchanged", func(t *testing.T) {
		content := "그대로 유지됩니다"
		if got := v.TruncateContent(content, 100); got != content {
			t.Errorf("TruncateContent = %q, want unchanged", got)
		}
	})

	t.Run("prefers sentence boundary", func(t *testing.T) {
		content := "abcdefgh ijklmn. xyz more text"
		got := v.TruncateContent(content, 20)
		if got != "abcdefgh ijklmn." {
			t.Errorf("TruncateContent = %q, want sentence-boundary cut", got)
		}
	})

	t.Run("falls back to word boundary", func(t *testing.T) {
		content := "abcdefghijklmn opqrstuvwxyz12345"
		got := v.TruncateContent(content, 20)
		if got != "abcdefghijklmn..." {
			t.Errorf("TruncateContent = %q, want word-boundary cut with ellipsis", got)
		}
	})

	t.Run("hard cut with ellipsis", func(t *testing.T) {
		content := strings.Repeat("a", 30)
		got := v.TruncateContent(content, 20)
		if got != strings.Repeat("a", 17)+"..." {
			t.Errorf("TruncateContent = %q, want hard cut", got)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		content := strings.Repeat("양파를 썰어 냄비에 넣습니다. ", 30)
		once := v.TruncateContent(content, 100)
		twice := v.TruncateContent(once, 100)
		if once != twice {
			t.Errorf("TruncateContent not idempotent:\nonce:  %q\ntwice: %q", once, twice)
		}
		if len([]rune(once)) > 100 {
			t.Errorf("truncated length = %d, want <= 100", len([]rune(once)))
		}
	})
}

func TestIsContentTooShort(t *testing.T) {
	v := testValidator(t)

	if !v.IsContentTooShort("짧은 글") {
		t.Error("expected short content to be flagged")
	}
	long := "오늘은 직접 만든 김치찌개 레시피를 공유합니다. 돼지고기와 묵은지를 준비해 주세요."
	if v.IsContentTooShort(long) {
		t.Error("expected long content to pass")
	}
}

func TestContentSummary(t *testing.T) {
	v := testValidator(t)

	t.Run("short content returned whole", func(t *testing.T) {
		content := "짧은 본문입니다"
		if got := v.ContentSummary(content, 50); got != content {
			t.Errorf("ContentSummary = %q, want %q", got, content)
		}
	})

	t.Run("cuts at first sentence", func(t *testing.T) {
		content := "첫번째 문장입니다. 두번째 문장은 아주 길게 이어지는 내용을 담고 있습니다 계속 계속"
		got := v.ContentSummary(content, 30)
		if got != "첫번째 문장입니다." {
			t.Errorf("ContentSummary = %q, want first sentence", got)
		}
	})
}

func TestMeaningfulContentRatio(t *testing.T) {
	tests := []struct {
		name    string
		content string
		low     float64
		high    float64
	}{
		{name: "empty", content: "", low: 0.0, high: 0.0},
		{name: "symbols only", content: "§§ ¶¶ †† ‡‡", low: 0.0, high: 0.3},
		{name: "clean korean prose", content: "서울에서 부산까지 기차로 이동했습니다. 창밖 풍경이 아름다웠습니다.", low: 0.7, high: 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := meaningfulContentRatio(tt.content)
			if got < tt.low || got > tt.high {
				t.Errorf("meaningfulContentRatio(%q) = %.3f, want within [%.2f, %.2f]", tt.content, got, tt.low, tt.high)
			}
		})
	}
}
