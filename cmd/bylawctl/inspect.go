package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/bylawgest/internal/doctree"
	"github.com/dgallion1/bylawgest/internal/validate"
)

var sectionsTree bool

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		docs, err := st.ListDocuments(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), docs)
		}
		renderDocuments(cmd.OutOrStdout(), docs)
		return nil
	},
}

var sectionsCmd = &cobra.Command{
	Use:   "sections DOC_ID",
	Short: "Print the stored sections of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		doc, err := st.GetDocument(ctx, args[0])
		if err != nil {
			return fmt.Errorf("document %s: %w", args[0], err)
		}
		sections, err := st.ListSections(ctx, doc.ID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			if sectionsTree {
				return writeJSON(out, doctree.Nest(doc.ID, doc.Title, sections))
			}
			return writeJSON(out, sections)
		}
		if sectionsTree {
			tree := doctree.Nest(doc.ID, doc.Title, sections)
			fmt.Fprintln(out, citationStyle.Render(tree.Title))
			for _, n := range tree.Children {
				renderNode(out, n, 1)
			}
			return nil
		}
		outline := make([]doctree.TreeSection, len(sections))
		for i, s := range sections {
			outline[i] = s.TreeSection
		}
		renderOutline(out, outline)
		return nil
	},
}

func renderNode(w io.Writer, n *doctree.DocNode, indent int) {
	fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", indent),
		citationStyle.Render(n.Section.Citation),
		dimStyle.Render(fmt.Sprintf("#%d", n.Section.ID)))
	for _, c := range n.Children {
		renderNode(w, c, indent+1)
	}
}

var validateCmd = &cobra.Command{
	Use:   "validate DOC_ID",
	Short: "Check the stored tree of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if _, err := st.GetDocument(ctx, args[0]); err != nil {
			return fmt.Errorf("document %s: %w", args[0], err)
		}
		report, err := validate.New(st).Validate(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		} else {
			renderReport(cmd.OutOrStdout(), report)
		}
		if !report.OK() {
			return fmt.Errorf("%d violations", len(report.Violations))
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete DOC_ID",
	Short: "Delete a document and its sections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteDocument(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle.Render("deleted"), args[0])
		return nil
	},
}

func init() {
	sectionsCmd.Flags().BoolVar(&sectionsTree, "tree", false, "nest sections under their parents")
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(deleteCmd)
}
