package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/seqedit/internal/editor"
	"github.com/ziadkadry99/seqedit/internal/seqtext"
)

var applyCmd = &cobra.Command{
	Use:   "apply <intent>",
	Short: "Apply one structured edit to a diagram",
	Long: `Applies an edit intent to the active document (or --doc) and prints the
resulting source. Intents:

  add-participant     --name
  rename-participant  --from --to
  delete-participant  --name
  add-action          --from --to --message
  edit-action         --index --message
  delete-action       --index
  move-action         --index --target
  reorder-actions     --order (once per action, in the new order)
  prune-participants
  set-text, import    --text-file (- for stdin)`,
	Example: `  seqedit apply add-participant --name Carol
  seqedit apply add-action --from Carol --to Alice --message "Hi"
  seqedit apply edit-action --index 2 --message "Hello"
  cat flow.mmd | seqedit apply import --text-file -`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	f := applyCmd.Flags()
	f.String("doc", "", "Document id (default: the active document)")
	f.String("name", "", "Participant name")
	f.String("from", "", "Action source, or the current name when renaming")
	f.String("to", "", "Action target, or the new name when renaming")
	f.String("message", "", "Action message")
	f.Int("index", 0, "Zero-based action index")
	f.Int("target", 0, "Destination index for move-action")
	f.StringArray("order", nil, "Action text, repeated in the new order")
	f.String("text-file", "", "File holding the new diagram text, - for stdin")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	kind, err := editor.ParseIntentKind(args[0])
	if err != nil {
		return err
	}

	in := editor.Intent{Kind: kind}
	in.DocumentID, _ = cmd.Flags().GetString("doc")
	in.Name, _ = cmd.Flags().GetString("name")
	in.From, _ = cmd.Flags().GetString("from")
	in.To, _ = cmd.Flags().GetString("to")
	in.Message, _ = cmd.Flags().GetString("message")
	in.Index, _ = cmd.Flags().GetInt("index")
	in.Target, _ = cmd.Flags().GetInt("target")
	in.Order, _ = cmd.Flags().GetStringArray("order")

	if textFile, _ := cmd.Flags().GetString("text-file"); textFile != "" {
		var data []byte
		if textFile == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(textFile)
		}
		if err != nil {
			return fmt.Errorf("reading diagram text: %w", err)
		}
		in.Text = string(data)
	}

	ctx := context.Background()
	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	doc, err := ws.ctrl.Mutate(ctx, in)
	switch {
	case errors.Is(err, seqtext.ErrParticipantExists):
		return fmt.Errorf("a participant named %q already exists", in.To)
	case errors.Is(err, editor.ErrInvalidImport):
		return fmt.Errorf("not imported: the text must start with \"sequenceDiagram\"")
	case err != nil:
		return documentError(in.DocumentID, err)
	}

	fmt.Println(doc.Content)
	return nil
}
