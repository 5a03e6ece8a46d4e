package crawl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/llkd33/newcrawling/models"
	"github.com/llkd33/newcrawling/pkg/db"
)

// Source produces a ContentResult for a post URL. The browser-backed
// extractor and the plain-HTTP fallback both satisfy it.
type Source interface {
	ExtractContent(ctx context.Context, url string) models.ContentResult
}

func run(ctx context.Context, logger *slog.Logger, config *models.CrawlConfig, source Source, sink db.Sink) []Result {
	logger.Info("starting crawl phase",
		"url_count", len(config.URLs), "workers", config.WorkerCount,
		"use_browser", config.UseBrowser, "skip_duplicates", config.SkipDuplicates)

	var wg sync.WaitGroup
	jobs := make(chan Job, len(config.URLs))
	results := make(chan Result, len(config.URLs))

	for w := 1; w <= config.WorkerCount; w++ {
		wg.Add(1)
		go worker(ctx, w, logger, config, source, sink, &wg, jobs, results)
	}

	for _, rawURL := range config.URLs {
		jobs <- Job{URL: rawURL}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("all crawl workers finished")

	allResults := make([]Result, 0, len(config.URLs))
	for result := range results {
		allResults = append(allResults, result)
	}
	return allResults
}

// worker processes jobs until the channel drains. One post failing, or
// even panicking inside the source, never takes down the run: the
// source folds failures into the result and storage errors are carried
// alongside it.
func worker(ctx context.Context, id int, logger *slog.Logger, config *models.CrawlConfig, source Source, sink db.Sink, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result) {
	defer wg.Done()
	for job := range jobs {
		if ctx.Err() != nil {
			results <- Result{URL: job.URL, Skipped: true}
			continue
		}
		logger.Info("worker started job", "worker", id, "url", job.URL)
		start := time.Now()

		if config.SkipDuplicates {
			exists, err := sink.HasPost(job.URL)
			if err != nil {
				logger.Warn("duplicate check failed, extracting anyway",
					"worker", id, "url", job.URL, "error", err)
			} else if exists {
				logger.Info("skipping already stored post", "worker", id, "url", job.URL)
				results <- Result{URL: job.URL, Skipped: true, ElapsedMillis: time.Since(start).Milliseconds()}
				continue
			}
		}

		content := source.ExtractContent(ctx, job.URL)
		post := &models.Post{
			URL:              job.URL,
			CafeName:         config.CafeName,
			Content:          content.Content,
			ExtractionMethod: content.ExtractionMethod,
			QualityScore:     content.QualityScore,
			Success:          content.Success,
			ErrorMessage:     content.ErrorMessage,
			ExtractedAt:      time.Now(),
		}

		result := Result{
			URL:           job.URL,
			Post:          post,
			ElapsedMillis: time.Since(start).Milliseconds(),
		}
		if err := sink.UpsertPost(post); err != nil {
			logger.Error("failed to store post", "worker", id, "url", job.URL, "error", err)
			result.StoreErr = err
		}
		results <- result
		logger.Info("worker finished job",
			"worker", id, "url", job.URL, "success", content.Success,
			"method", string(content.ExtractionMethod), "score", content.QualityScore)
	}
}
