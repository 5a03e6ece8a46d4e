package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/llkd33/newcrawling/models"
	"github.com/llkd33/newcrawling/pkg/validator"
)

// ValidateAction runs the content validator over a file (or stdin when
// no argument is given) and prints the full validation result. Useful
// for tuning the quality gates against saved post bodies.
func ValidateAction(c *cli.Context) error {
	var content []byte
	var err error

	if path := c.Args().First(); path != "" {
		content, err = os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
	} else {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	cfg := models.DefaultExtractionConfig()
	if c.IsSet("min-length") {
		cfg.MinContentLength = c.Int("min-length")
	}
	if c.IsSet("max-length") {
		cfg.MaxContentLength = c.Int("max-length")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	v := validator.New(cfg)
	if c.Bool("detect-language") {
		v = v.WithLanguageDetection()
	}
	result := v.ValidateContent(string(content))

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if !result.IsValid {
		os.Exit(1)
	}
	return nil
}
