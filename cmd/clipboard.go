package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/seqedit/internal/clipboard"
	"github.com/ziadkadry99/seqedit/internal/editor"
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy the active diagram's source to the system clipboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clipboard.Available() {
			return fmt.Errorf("no system clipboard available (on Linux install xclip, xsel or wl-clipboard)")
		}
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		doc, err := clipboard.Copy(ctx, clipboard.System{}, ws.store)
		if err != nil {
			return err
		}
		fmt.Printf("Copied %s (%d bytes) to the clipboard\n", doc.Name, len(doc.Content))
		return nil
	},
}

var pasteCmd = &cobra.Command{
	Use:   "paste",
	Short: "Replace the active diagram with the clipboard contents",
	Long: `Reads the system clipboard and, if it holds a Mermaid sequence diagram,
replaces the source of the active document with it. Anything else is
rejected and the document is left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clipboard.Available() {
			return fmt.Errorf("no system clipboard available (on Linux install xclip, xsel or wl-clipboard)")
		}
		ctx := context.Background()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		doc, err := clipboard.Paste(ctx, clipboard.System{}, ws.ctrl)
		if errors.Is(err, editor.ErrInvalidImport) {
			return fmt.Errorf("the clipboard does not contain a sequence diagram (it must start with \"sequenceDiagram\")")
		}
		if err != nil {
			return err
		}
		fmt.Printf("Pasted into %s (%s)\n", doc.Name, doc.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(pasteCmd)
}
