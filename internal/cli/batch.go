package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/arcaxh/internal/model"
	"github.com/ppiankov/arcaxh/internal/worker"
)

var (
	concurrency  int
	outputPath   string
	jsonLines    bool
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Translate a text file line by line in parallel",
	Long: `Batch translates every line of a file concurrently:
- Read lines from the input file (blank lines are kept)
- Translate lines in parallel with a configurable worker count
- Write translations in input order, as text or JSON lines

Example:
  arcaxh batch chronicle.txt
  arcaxh batch chronicle.txt --concurrency 8 --output chronicle.en.txt
  arcaxh batch chronicle.txt --json > chronicle.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	defaults := model.DefaultConfig()

	batchCmd.Flags().IntVar(&concurrency, "concurrency", defaults.Concurrency.Workers, "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputPath, "output", "", "output file (default: stdout)")
	batchCmd.Flags().BoolVar(&jsonLines, "json", false, "emit one JSON object per line")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	file := args[0]

	cfg, logger, tr, err := setup(true)
	if err != nil {
		return err
	}
	workers := cfg.Concurrency.Workers

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	status := cmd.ErrOrStderr()
	fmt.Fprintf(status, "\n")
	fmt.Fprintf(status, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(status, "  Arcaxh Batch Translation\n")
	fmt.Fprintf(status, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(status, "\n")
	fmt.Fprintf(status, "  Input file:   %s\n", file)
	fmt.Fprintf(status, "  Workers:      %d\n", workers)
	fmt.Fprintf(status, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(status, "\n")

	processor := worker.NewBatchProcessor(tr, workers, logger)

	outcomes, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputPath != "" {
		f, createErr := os.Create(outputPath)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		out = f
	}

	var summary model.BatchSummary
	for _, outcome := range outcomes {
		if outcome.Error != nil {
			return fmt.Errorf("line %d: %w", outcome.Line, outcome.Error)
		}
		summary.Lines++
		summary.Count(outcome.Tokens)
	}

	if err := writeOutcomes(out, outcomes, jsonLines); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	// Summary
	fmt.Fprintf(status, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(status, "  Batch Complete\n")
	fmt.Fprintf(status, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(status, "\n")
	fmt.Fprintf(status, "  Lines:       %d\n", summary.Lines)
	fmt.Fprintf(status, "  Words:       %d\n", summary.Tokens)
	fmt.Fprintf(status, "  Vocabulary:  %d\n", summary.Vocabulary)
	fmt.Fprintf(status, "  Analyzed:    %d\n", summary.Analyzed)
	fmt.Fprintf(status, "  Unknown:     %d\n", summary.Literal)
	if outputPath != "" {
		fmt.Fprintf(status, "  Output:      %s\n", outputPath)
	}
	fmt.Fprintf(status, "\n")

	return nil
}

// writeOutcomes writes one translation per input line
func writeOutcomes(w io.Writer, outcomes []*worker.LineOutcome, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, outcome := range outcomes {
			if err := enc.Encode(outcome.LineResult); err != nil {
				return err
			}
		}
		return nil
	}

	for _, outcome := range outcomes {
		if _, err := fmt.Fprintln(w, outcome.Translation); err != nil {
			return err
		}
	}
	return nil
}
