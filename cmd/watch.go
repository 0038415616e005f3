package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/seqedit/internal/editor"
	"github.com/ziadkadry99/seqedit/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render a diagram file every time it changes",
	Long: `Watches a diagram file and renders it after every save. The patched SVG
is written to --output. With --doc the file contents are also stored into
that document, so an open web editor follows edits made in any text editor.
A render that finishes after a newer one has started is discarded.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("output", "o", "", "SVG output path (default: <file>.svg)")
	watchCmd.Flags().String("doc", "", "Also store the file contents into this document id")
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before re-rendering")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	output, _ := cmd.Flags().GetString("output")
	docID, _ := cmd.Flags().GetString("doc")
	debounce, _ := cmd.Flags().GetDuration("debounce")
	if output == "" {
		output = path + ".svg"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	if docID != "" {
		if _, err := ws.store.Get(ctx, docID); err != nil {
			return documentError(docID, err)
		}
	}

	onUpdate := func(u watch.Update) {
		stamp := time.Now().Format("15:04:05")
		if docID != "" {
			if err := editor.ValidateImport(u.Content); err != nil {
				fmt.Fprintf(os.Stderr, "[%s] not stored: file is not a sequence diagram\n", stamp)
			} else if _, err := ws.ctrl.Mutate(ctx, editor.Intent{Kind: editor.IntentSetText, Text: u.Content, DocumentID: docID}); err != nil {
				fmt.Fprintf(os.Stderr, "[%s] storing into %s: %v\n", stamp, docID, err)
			}
		}
		if !u.Result.OK {
			fmt.Fprintf(os.Stderr, "[%s] #%d %s\n", stamp, u.Generation, editor.SyntaxError)
			return
		}
		if err := os.WriteFile(output, []byte(u.Result.Markup), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "[%s] writing %s: %v\n", stamp, output, err)
			return
		}
		fmt.Fprintf(os.Stderr, "[%s] #%d rendered %s\n", stamp, u.Generation, output)
	}

	w, err := watch.New(path, debounce, ws.ctrl.Render, onUpdate)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Watching %s (renderer: %s). Press Ctrl+C to stop.\n", path, ws.cfg.Renderer.Kind)
	return w.Run(ctx)
}
