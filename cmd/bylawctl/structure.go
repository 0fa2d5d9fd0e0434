package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/bylawgest/internal/parser"
	"github.com/dgallion1/bylawgest/internal/pipeline"
)

var noPdftotext bool

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the hierarchy levels in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		levels, strategy, err := loadStructuring()
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"levels":         levels.Levels,
				"dedup_strategy": strategy,
			})
		}
		renderLevels(cmd.OutOrStdout(), levels.Levels)
		return nil
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Structure a document without storing it",
	Long: `Extract the text of FILE, cut it into sections and print the assembled
outline. Nothing is written to the database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		levels, strategy, err := loadStructuring()
		if err != nil {
			return err
		}
		ex, err := extractFile(args[0])
		if err != nil {
			return err
		}
		structured, err := pipeline.Structure(ex.Text, levels, strategy)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, structured)
		}
		renderOutline(out, structured.Sections)
		fmt.Fprintln(out, summaryBox(
			[2]string{"Title", ex.Title},
			[2]string{"Sections", fmt.Sprint(len(structured.Sections))},
			[2]string{"Duplicates dropped", fmt.Sprint(len(structured.Dedup.Dropped))},
			[2]string{"Preamble lines", fmt.Sprint(structured.PreambleLines)},
		))
		return nil
	},
}

func extractFile(path string) (*parser.Extraction, error) {
	p, err := parser.ForFile(path, parser.Options{PDFFallbackPdftotext: !noPdftotext})
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ex, err := p.Extract(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return ex, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noPdftotext, "no-pdftotext", false, "do not fall back to pdftotext for PDFs")
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(parseCmd)
}
