package validator

import "fmt"

// Issue messages surfaced on ValidationResult. Korean, matching the
// strings downstream tooling greps for in stored records.

func minLengthIssue(cleanedLength, minLength int) string {
	return fmt.Sprintf("콘텐츠 길이가 최소 요구사항(%d자)보다 짧습니다: %d자", minLength, cleanedLength)
}

func truncatedIssue(maxLength int) string {
	return fmt.Sprintf("콘텐츠가 최대 길이(%d자)를 초과하여 잘렸습니다", maxLength)
}

func lowMeaningfulIssue(ratio float64) string {
	return fmt.Sprintf("의미있는 콘텐츠 비율이 낮습니다: %.0f%%", ratio*100)
}
