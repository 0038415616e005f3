package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/seqedit/internal/importer"
	"github.com/ziadkadry99/seqedit/internal/progress"
)

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import sequence diagrams from a directory tree",
	Long: `Walks a directory (the current one by default) and creates a document for
every sequence diagram found: standalone .mmd/.mermaid files, and every
mermaid code block in Markdown files. Identical diagrams are imported once.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringSlice("include", nil, "Glob patterns to include (default **/*.mmd, **/*.mermaid, **/*.md)")
	importCmd.Flags().StringSlice("exclude", nil, "Glob patterns to exclude")
	importCmd.Flags().Bool("dry-run", false, "List the diagrams that would be imported without storing them")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	files, err := importer.Find(importer.FindConfig{
		RootDir: root,
		Include: include,
		Exclude: exclude,
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No matching files under %s\n", root)
		return nil
	}

	if dryRun {
		for _, f := range files {
			data, err := os.ReadFile(f.Path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", f.RelPath, err)
			}
			for _, b := range importer.Diagrams(f.RelPath, data) {
				fmt.Printf("%s\t%s\n", f.RelPath, b.Title)
			}
		}
		return nil
	}

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	res, err := importer.Import(ctx, ws.store, files, progress.NewReporter("Importing"))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Imported %d diagram(s) from %d file(s)", len(res.Imported), len(files))
	if res.Duplicates > 0 {
		fmt.Fprintf(os.Stderr, ", %d duplicate(s) skipped", res.Duplicates)
	}
	fmt.Fprintln(os.Stderr)
	if verbose {
		for _, d := range res.Imported {
			fmt.Fprintf(os.Stderr, "  + %s (%s)\n", d.Name, d.ID)
		}
		for _, p := range res.Skipped {
			fmt.Fprintf(os.Stderr, "  - %s: no sequence diagram\n", p)
		}
	} else if len(res.Skipped) > 0 {
		fmt.Fprintf(os.Stderr, "%d file(s) held no sequence diagram (use -v to list them)\n", len(res.Skipped))
	}
	return nil
}
