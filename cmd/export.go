package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/seqedit/internal/exporter"
	"github.com/ziadkadry99/seqedit/internal/progress"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export diagrams as Mermaid, Markdown or HTML",
	Long: `Exports the active document (or --doc, or every document with --all).

Formats:
  mmd   the raw diagram source
  md    a Markdown page with a mermaid code block and a table of actions
  html  a standalone page; the diagram is embedded as SVG when a renderer
        is configured and drawn by Mermaid in the browser otherwise`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("doc", "", "Document id (default: the active document)")
	exportCmd.Flags().Bool("all", false, "Export every document into the output directory")
	exportCmd.Flags().StringP("format", "f", "md", "Export format: mmd, md or html")
	exportCmd.Flags().StringP("output", "o", "", "Output file, or directory with --all (default: stdout, or ./export with --all)")
	exportCmd.MarkFlagsMutuallyExclusive("doc", "all")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	docID, _ := cmd.Flags().GetString("doc")
	all, _ := cmd.Flags().GetBool("all")
	formatName, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	format, err := exporter.ParseFormat(formatName)
	if err != nil {
		return err
	}

	ctx := context.Background()
	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	exp := exporter.New(createRendererFromConfig(ws.cfg))

	if all {
		if output == "" {
			output = "export"
		}
		docs, err := ws.store.List(ctx)
		if err != nil {
			return fmt.Errorf("loading documents: %w", err)
		}
		written, err := exp.WriteAll(ctx, docs, output, format, progress.NewReporter("Exporting"))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %d document(s) to %s\n", len(written), output)
		return nil
	}

	doc, err := ws.resolveDocument(ctx, docID)
	if err != nil {
		return documentError(docID, err)
	}
	data, err := exp.Export(ctx, doc, format)
	if err != nil {
		return err
	}

	if output == "" {
		os.Stdout.Write(data)
		return nil
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "Exported %s to %s\n", doc.Name, output)
	return nil
}
