package cmd

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/seqedit/internal/config"
	"github.com/ziadkadry99/seqedit/internal/db"
	"github.com/ziadkadry99/seqedit/internal/documents"
	"github.com/ziadkadry99/seqedit/internal/editor"
	"github.com/ziadkadry99/seqedit/internal/render"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `seqedit init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// createRendererFromConfig builds the diagram renderer selected in config.
func createRendererFromConfig(cfg *config.Config) *render.Adapter {
	var r render.Renderer
	switch cfg.Renderer.Kind {
	case config.RendererCLI:
		r = &render.CLIRenderer{Command: cfg.Renderer.Command, Args: cfg.Renderer.Args}
	case config.RendererKroki:
		r = &render.KrokiRenderer{BaseURL: cfg.Renderer.KrokiURL}
	default:
		r = render.Disabled{}
	}
	return render.NewAdapter(r, cfg.Renderer.Timeout)
}

// workspace bundles what most commands need: the database, the document
// store and an editor controller over both.
type workspace struct {
	cfg   *config.Config
	db    *db.DB
	store *documents.Store
	ctrl  *editor.Controller
}

// openWorkspace loads config and opens the document database.
func openWorkspace(ctx context.Context) (*workspace, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store, err := documents.Open(ctx, database)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("opening document store: %w", err)
	}

	return &workspace{
		cfg:   cfg,
		db:    database,
		store: store,
		ctrl:  editor.New(store, createRendererFromConfig(cfg)),
	}, nil
}

func (w *workspace) Close() error { return w.db.Close() }

// resolveDocument returns the document with id, or the active one when id is empty.
func (w *workspace) resolveDocument(ctx context.Context, id string) (*documents.Document, error) {
	if id == "" {
		return w.store.Active(ctx)
	}
	return w.store.Get(ctx, id)
}
