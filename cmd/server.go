package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/seqedit/internal/documents"
	"github.com/ziadkadry99/seqedit/internal/editor"
	"github.com/ziadkadry99/seqedit/internal/server"
	"github.com/ziadkadry99/seqedit/internal/web"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the web editor",
	Long:  `Starts the local web editor: a split pane with the diagram source on one side and the live rendered preview on the other.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(context.Background())
		if err != nil {
			return err
		}
		defer ws.Close()

		port := ws.cfg.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: ws.cfg.AllowAllOrigins,
		}, ws.db)

		registerAllRoutes(srv, ws)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		docs, _ := ws.store.List(context.Background())
		fmt.Fprintf(os.Stderr, "seqedit v%s starting on port %d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", ws.db.Path())
		fmt.Fprintf(os.Stderr, "  Renderer: %s\n", ws.cfg.Renderer.Kind)
		fmt.Fprintf(os.Stderr, "  Documents: %d\n", len(docs))

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// registerAllRoutes wires up the document API, the editor and its UI.
func registerAllRoutes(srv *server.Server, ws *workspace) {
	r := srv.Router()

	documents.RegisterRoutes(r, ws.store)
	editor.RegisterRoutes(r, ws.ctrl, ws.cfg.Editor)
	web.RegisterRoutes(r)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}
