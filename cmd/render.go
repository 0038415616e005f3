package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/seqedit/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a diagram to SVG",
	Long: `Renders the active document (or --doc / --file) with the configured renderer
and writes the SVG. Unless --raw is given the output is patched so that
participant labels and message texts carry the editor's click targets.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("doc", "", "Document id (default: the active document)")
	renderCmd.Flags().String("file", "", "Render a diagram file instead of a stored document")
	renderCmd.Flags().StringP("output", "o", "", "Output path (default: stdout)")
	renderCmd.Flags().Bool("raw", false, "Write the renderer output without patching")
	renderCmd.MarkFlagsMutuallyExclusive("doc", "file")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	docID, _ := cmd.Flags().GetString("doc")
	file, _ := cmd.Flags().GetString("file")
	output, _ := cmd.Flags().GetString("output")
	raw, _ := cmd.Flags().GetBool("raw")

	ctx := context.Background()
	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	var source string
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
		source = string(data)
	} else {
		doc, err := ws.resolveDocument(ctx, docID)
		if err != nil {
			return documentError(docID, err)
		}
		source = doc.Content
	}

	var res render.Result
	if raw {
		res = createRendererFromConfig(ws.cfg).Render(ctx, source)
	} else {
		res = ws.ctrl.Render(ctx, source)
	}
	if !res.OK {
		return fmt.Errorf("render failed: invalid Mermaid syntax or renderer %q unavailable", ws.cfg.Renderer.Kind)
	}

	if output == "" {
		fmt.Println(res.Markup)
		return nil
	}
	if err := os.WriteFile(output, []byte(res.Markup), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
	return nil
}
