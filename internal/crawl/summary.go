package crawl

import (
	"time"

	"github.com/llkd33/newcrawling/pkg/artifacts"
)

func buildOutput(results []Result, elapsed time.Duration) *FinalOutput {
	output := &FinalOutput{
		Status:  "success",
		Results: make([]ResultOutput, 0, len(results)),
	}
	output.Stats.TotalURLs = len(results)
	output.Stats.TotalTimeSeconds = elapsed.Seconds()

	var scoreSum float64
	for _, r := range results {
		ro := ResultOutput{URL: r.URL}
		switch {
		case r.Skipped:
			ro.Status = "skipped"
			output.Stats.Skipped++
		case r.Post != nil && r.Post.Success && r.StoreErr == nil:
			ro.Status = "success"
			ro.Method = string(r.Post.ExtractionMethod)
			ro.QualityScore = r.Post.QualityScore
			output.Stats.Successful++
			scoreSum += r.Post.QualityScore
		default:
			ro.Status = "error"
			output.Stats.Failed++
			if r.StoreErr != nil {
				ro.Error = r.StoreErr.Error()
			} else if r.Post != nil {
				ro.Error = r.Post.ErrorMessage
				ro.Method = string(r.Post.ExtractionMethod)
			}
		}
		output.Results = append(output.Results, ro)
	}
	if output.Stats.Successful > 0 {
		output.Stats.AverageScore = scoreSum / float64(output.Stats.Successful)
	}
	if output.Stats.Failed > 0 {
		output.Status = "partial"
	}
	if output.Stats.Successful == 0 && output.Stats.Failed > 0 {
		output.Status = "failed"
	}
	return output
}

func buildReport(results []Result, elapsed time.Duration) *artifacts.CrawlReport {
	report := &artifacts.CrawlReport{
		TotalPosts:    len(results),
		MethodCounts:  make(map[string]int),
		ElapsedMillis: elapsed.Milliseconds(),
		Results:       make([]artifacts.PostSummary, 0, len(results)),
	}

	var scoreSum float64
	for _, r := range results {
		ps := artifacts.PostSummary{URL: r.URL, ElapsedMillis: r.ElapsedMillis}
		switch {
		case r.Skipped:
			ps.Status = "skipped"
			report.Skipped++
		case r.Post != nil && r.Post.Success && r.StoreErr == nil:
			ps.Status = "success"
			ps.Method = string(r.Post.ExtractionMethod)
			ps.QualityScore = r.Post.QualityScore
			ps.ContentLength = len([]rune(r.Post.Content))
			report.Successful++
			report.MethodCounts[ps.Method]++
			scoreSum += r.Post.QualityScore
		default:
			ps.Status = "error"
			report.Failed++
			if r.StoreErr != nil {
				ps.ErrorMessage = r.StoreErr.Error()
			} else if r.Post != nil {
				ps.ErrorMessage = r.Post.ErrorMessage
			}
		}
		report.Results = append(report.Results, ps)
	}
	if report.Successful > 0 {
		report.AverageScore = scoreSum / float64(report.Successful)
	}
	return report
}
