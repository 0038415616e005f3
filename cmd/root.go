package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/seqedit/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "seqedit",
	Short: "Visual editor for Mermaid sequence diagrams",
	Long: `seqedit keeps a set of Mermaid sequence diagrams and edits them through
structured operations: add, rename and delete participants, add, edit,
delete and reorder actions. The diagram text is always the source of truth.
It runs as a local web editor, as an MCP server for AI agents, and as a
set of command line tools.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
