package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/arcaxh/internal/worker"
)

var analyzeTranslate bool

// translateCmd represents the translate command
var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate Arcaxh text into English glosses",
	Long: `Translate glosses every word of the input.

Arguments are joined with spaces and translated as one text. With no
arguments, standard input is translated line by line.

Example:
  arcaxh translate arkashir velorin
  echo "Velkharn zorakhion" | arcaxh translate
  arcaxh translate --lexicon my-lexicon.yaml khevar`,
	RunE: runTranslate,
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <word>...",
	Short: "Break words down into known prefixes and suffixes",
	Long: `Analyze prints the affix decomposition of each word, one per line.
The vocabulary is not consulted.

Example:
  arcaxh analyze velorin xyzin qqq
  arcaxh analyze --translate arkashir velkharn`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeTranslate, "translate", false, "also print the full translation of each word")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	cfg, logger, tr, err := setup(true)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		_, err := fmt.Fprintln(out, tr.TranslateToEnglish(strings.Join(args, " ")))
		return err
	}

	processor := worker.NewBatchProcessor(tr, cfg.Concurrency.Workers, logger)
	outcomes, err := processor.ProcessReader(cmd.Context(), cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("translate stdin: %w", err)
	}
	return writeOutcomes(out, outcomes, false)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	_, _, tr, err := setup(true)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for _, word := range args {
		if analyzeTranslate {
			_, err = fmt.Fprintf(out, "%s\n  translation: %s\n  analysis:    %s\n", word, tr.TranslateToEnglish(word), tr.AnalyzeWord(word))
		} else {
			_, err = fmt.Fprintln(out, tr.AnalyzeWord(word))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
