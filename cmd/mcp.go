package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/seqedit/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Aliases: []string{"serve"},
	Short:   "Start the MCP server for AI agent integration",
	Long:    `Starts a Model Context Protocol (MCP) server on stdio, exposing tools that list, read and edit the stored sequence diagrams.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(context.Background())
		if err != nil {
			return err
		}
		defer ws.Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		docs, _ := ws.store.List(context.Background())
		fmt.Fprintf(os.Stderr, "seqedit MCP server started on stdio (db=%s, documents=%d)\n", ws.db.Path(), len(docs))

		srv := mcpserver.NewServer(ws.ctrl)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
