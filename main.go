package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/llkd33/newcrawling/internal/crawl"
	"github.com/llkd33/newcrawling/internal/validate"
)

func main() {
	app := &cli.App{
		Name:  "newcrawling",
		Usage: "Extract post content from Naver cafe pages",
		Commands: []*cli.Command{
			{
				Name:   "crawl",
				Usage:  "Crawl a batch of post URLs and store the results",
				Action: crawl.CrawlAction,
				Flags: append(commonFlags(),
					&cli.StringFlag{Name: "config", Usage: "YAML config file with urls and settings"},
					&cli.StringFlag{Name: "urls", Usage: "Comma-separated post URLs"},
					&cli.IntFlag{Name: "workers", Value: 1, Usage: "Concurrent extraction workers"},
					&cli.StringFlag{Name: "db", Usage: "SQLite database path"},
					&cli.StringFlag{Name: "cafe", Usage: "Cafe name recorded on stored posts"},
					&cli.BoolFlag{Name: "recrawl", Usage: "Re-extract URLs that are already stored"},
				),
			},
			{
				Name:      "extract",
				Usage:     "Extract a single post URL and print the result",
				ArgsUsage: "<url>",
				Action:    crawl.ExtractAction,
				Flags: append(commonFlags(),
					&cli.StringFlag{Name: "config", Usage: "YAML config file with settings"},
				),
			},
			{
				Name:      "validate",
				Usage:     "Validate post content from a file or stdin",
				ArgsUsage: "[file]",
				Action:    validate.ValidateAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "min-length", Usage: "Minimum content length in characters"},
					&cli.IntFlag{Name: "max-length", Usage: "Maximum content length in characters"},
					&cli.BoolFlag{Name: "detect-language", Usage: "Annotate the result with the detected language"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "quiet", Usage: "Only log errors"},
		&cli.StringFlag{Name: "output-dir", Usage: "Directory for screenshots and reports"},
		&cli.StringFlag{Name: "iframe", Usage: "Name of the content iframe", Value: "cafe_main"},
		&cli.BoolFlag{Name: "no-browser", Usage: "Use plain HTTP instead of a browser"},
		&cli.StringFlag{Name: "user-agent", Usage: "Override the browser user agent"},
		&cli.IntFlag{Name: "timeout", Usage: "Per-post extraction timeout in seconds"},
		&cli.IntFlag{Name: "min-length", Usage: "Minimum content length in characters"},
		&cli.IntFlag{Name: "max-length", Usage: "Maximum content length in characters"},
		&cli.BoolFlag{Name: "no-screenshots", Usage: "Disable failure screenshots"},
		&cli.BoolFlag{Name: "no-lazy-loading", Usage: "Skip the lazy-loading scroll trigger"},
	}
}
