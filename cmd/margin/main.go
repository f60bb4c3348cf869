// Command margin annotates PDF documents and reviews the ideas written
// against them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/margin/internal/adapters/driven/config/file"
	"github.com/custodia-labs/margin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/margin/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/margin/internal/adapters/driven/textlayer/pdf"
	"github.com/custodia-labs/margin/internal/adapters/driving/cli"
	"github.com/custodia-labs/margin/internal/core/services"
	"github.com/custodia-labs/margin/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// keyDataDir overrides where the database lives.
const keyDataDir = "storage.data_dir"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrapper(bootstrap)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires stores, settings and the workspace for one command.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, func() error, error) {
	home, err := file.HomeDir()
	if err != nil {
		return nil, nil, err
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("read settings: %w", err)
	}

	var (
		stores services.WorkspaceStores
		closer = func() error { return nil }
	)
	if opts.Ephemeral {
		logger.Debug("using in-memory stores")
		stores = services.WorkspaceStores{
			Ideas:      memory.NewIdeaStore(),
			Anchors:    memory.NewAnchorStore(),
			Relations:  memory.NewRelationStore(),
			Highlights: memory.NewHighlightStore(),
			Links:      memory.NewIdeaAnchorStore(),
		}
	} else {
		dataDir := configStore.GetString(keyDataDir)
		if dataDir == "" {
			dataDir = filepath.Join(home, "data")
		}
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		logger.Debug("database: %s", store.Path())
		stores = services.WorkspaceStores{
			Ideas:      store.IdeaStore(),
			Anchors:    store.AnchorStore(),
			Relations:  store.RelationStore(),
			Highlights: store.HighlightStore(),
			Links:      store.IdeaAnchorStore(),
		}
		closer = store.Close
	}

	workspace := services.NewWorkspace(stores, *settings, pdf.NewTextLayer())
	if err := workspace.Load(ctx); err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("load workspace: %w", err)
	}

	return &cli.Services{Workspace: workspace, Settings: settingsService}, closer, nil
}
