package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/bylawgest/internal/persist"
	"github.com/dgallion1/bylawgest/internal/pipeline"
)

var (
	importTitle         string
	importDocID         string
	importForce         bool
	importBatchSize     int
	importPipelineDepth int
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Structure a document and store it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := newLogger()

		levels, strategy, err := loadStructuring()
		if err != nil {
			return err
		}
		ex, err := extractFile(args[0])
		if err != nil {
			return err
		}
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		writer := persist.NewWriter(st, log)
		writer.BatchSize = importBatchSize
		writer.PipelineDepth = importPipelineDepth
		importer := pipeline.NewImporter(st, writer, levels, strategy, nil, log)

		title := importTitle
		if title == "" {
			title = ex.Title
		}
		res, err := importer.Import(ctx, pipeline.ImportRequest{
			DocumentID: importDocID,
			Title:      title,
			Filename:   filepath.Base(args[0]),
			Source:     "cli",
			Text:       ex.Text,
			Force:      importForce,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, res)
		}
		if res.Duplicate {
			fmt.Fprintf(out, "%s identical content already stored as %s (use --force to import again)\n",
				warnStyle.Render("skipped:"), citationStyle.Render(res.Document.ID))
			return nil
		}

		fmt.Fprintln(out, summaryBox(
			[2]string{"Document", res.Document.ID},
			[2]string{"Title", res.Document.Title},
			[2]string{"Sections", fmt.Sprint(res.Write.Inserted)},
			[2]string{"Linked", fmt.Sprint(res.Write.Linked)},
			[2]string{"Duplicates dropped", fmt.Sprint(len(res.Structure.Dedup.Dropped))},
		))
		renderReport(out, res.Report)
		if !res.Report.OK() {
			return fmt.Errorf("document %s stored with %d violations", res.Document.ID, len(res.Report.Violations))
		}
		return nil
	},
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importTitle, "title", "", "document title (defaults to the extracted title)")
	f.StringVar(&importDocID, "doc-id", "", "document id (generated when empty)")
	f.BoolVar(&importForce, "force", false, "import even when identical content is already stored")
	f.IntVar(&importBatchSize, "batch-size", cfg.InsertBatchSize, "sections per insert statement")
	f.IntVar(&importPipelineDepth, "pipeline-depth", cfg.InsertPipelineDepth, "insert batches in flight")
	rootCmd.AddCommand(importCmd)
}
