package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/arcaxh/internal/lexicon"
)

// lexiconCmd represents the lexicon command
var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Inspect or create lexicon files",
	Long: `A lexicon lists prefixes, suffixes and whole-word vocabulary, each
mapping an Arcaxh key to its English gloss. Entries are matched in file
order, so put the entry that should win first.`,
}

var lexiconShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active lexicon as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		lex, err := loadLexicon(cfg)
		if err != nil {
			return err
		}

		data, err := lexicon.Marshal(lex.Table())
		if err != nil {
			return fmt.Errorf("error marshaling lexicon: %w", err)
		}

		source := cfg.Lexicon.Path
		if source == "" {
			source = "built-in"
		}
		stats := lex.Stats()
		fmt.Fprintf(cmd.ErrOrStderr(), "Lexicon: %s (%d prefixes, %d suffixes, %d words)\n\n",
			source, stats.Prefixes, stats.Suffixes, stats.Vocabulary)

		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var lexiconInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write the built-in lexicon to a YAML file",
	Long:  `Write the built-in lexicon to a new YAML file as a starting point for a custom lexicon.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("lexicon file already exists: %s", path)
		}

		data, err := lexicon.Marshal(lexicon.DefaultTable())
		if err != nil {
			return fmt.Errorf("error marshaling lexicon: %w", err)
		}

		header := "# Arcaxh lexicon\n# Entries are matched in the order listed.\n\n"
		if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
			return fmt.Errorf("error writing lexicon: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created lexicon: %s\n", path)
		fmt.Fprintf(out, "\nTo use it:\n")
		fmt.Fprintf(out, "  arcaxh --lexicon %s translate <text>\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lexiconCmd)
	lexiconCmd.AddCommand(lexiconShowCmd)
	lexiconCmd.AddCommand(lexiconInitCmd)
}
