package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/seqedit/internal/documents"
	"github.com/ziadkadry99/seqedit/internal/editor"
	"github.com/ziadkadry99/seqedit/internal/seqtext"
)

var docsCmd = &cobra.Command{
	Use:     "docs",
	Aliases: []string{"doc"},
	Short:   "Manage stored diagrams",
	Long:    `List, create, switch, rename, delete and print the stored sequence diagrams.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	RunE:  runDocsList,
}

var docsNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a document from the default template and make it active",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocsNew,
}

var docsSwitchCmd = &cobra.Command{
	Use:   "switch <id>",
	Short: "Make a document the active one",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsSwitch,
}

var docsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a document",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocsRename,
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document (the last one cannot be deleted)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsDelete,
}

var docsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a document's source (the active one by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDocsShow,
}

func init() {
	docsShowCmd.Flags().Bool("actions", false, "List the numbered actions instead of the source")

	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsNewCmd)
	docsCmd.AddCommand(docsSwitchCmd)
	docsCmd.AddCommand(docsRenameCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	docsCmd.AddCommand(docsShowCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	st, err := ws.store.State(ctx)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tPARTICIPANTS\tACTIONS\tUPDATED")
	for _, d := range st.Documents {
		marker := ""
		if d.ID == st.ActiveID() {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			marker, d.ID, d.Name,
			len(seqtext.Participants(d.Content)),
			len(seqtext.ListActions(d.Content)),
			d.Updated().Format("2006-01-02 15:04:05"))
	}
	w.Flush()

	return nil
}

func runDocsNew(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return applyDocumentIntent(editor.Intent{Kind: editor.IntentCreateDocument, Name: name}, "Document created")
}

func runDocsSwitch(cmd *cobra.Command, args []string) error {
	return applyDocumentIntent(editor.Intent{Kind: editor.IntentSwitchDocument, DocumentID: args[0]}, "Switched")
}

func runDocsRename(cmd *cobra.Command, args []string) error {
	return applyDocumentIntent(editor.Intent{Kind: editor.IntentRenameDocument, DocumentID: args[0], Name: args[1]}, "Document renamed")
}

func runDocsDelete(cmd *cobra.Command, args []string) error {
	return applyDocumentIntent(editor.Intent{Kind: editor.IntentDeleteDocument, DocumentID: args[0]}, "Document deleted")
}

// applyDocumentIntent runs a document-level intent and reports the
// resulting active document.
func applyDocumentIntent(in editor.Intent, verb string) error {
	ctx := context.Background()
	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	doc, err := ws.ctrl.Mutate(ctx, in)
	if err != nil {
		return documentError(in.DocumentID, err)
	}
	fmt.Printf("%s. Active document: %s (%s)\n", verb, doc.Name, doc.ID)
	return nil
}

func runDocsShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	doc, err := ws.resolveDocument(ctx, id)
	if err != nil {
		return documentError(id, err)
	}

	actionsOnly, _ := cmd.Flags().GetBool("actions")
	if !actionsOnly {
		fmt.Println(doc.Content)
		return nil
	}
	for _, a := range seqtext.ListActions(doc.Content) {
		fmt.Printf("%3d  %s\n", a.Index, strings.TrimSpace(a.Text))
	}
	return nil
}

// documentError turns store sentinels into messages that name the fix.
func documentError(id string, err error) error {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		return fmt.Errorf("no document with id %q; run `seqedit docs list` to see the ids", id)
	case errors.Is(err, documents.ErrLastDocument):
		return fmt.Errorf("%w; create another document first", err)
	}
	return err
}
