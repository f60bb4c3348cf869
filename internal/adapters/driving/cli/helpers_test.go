package cli

import (
	"bytes"
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/margin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/services"
)

// stubTextLayer serves fixed pages.
type stubTextLayer struct {
	pages map[int]*domain.PageText
}

func (s *stubTextLayer) PageText(_ context.Context, _ string, page int) (*domain.PageText, error) {
	p, ok := s.pages[page]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubTextLayer) PageCount(_ context.Context, _ string) (int, error) {
	return len(s.pages), nil
}

// setupTestServices wires memory-backed services and resets flag state
// left behind by earlier executions.
func setupTestServices() func() {
	return setupTestServicesWithTextLayer(&stubTextLayer{pages: map[int]*domain.PageText{}})
}

func setupTestServicesWithTextLayer(layer *stubTextLayer) func() {
	origWorkspace := workspaceService
	origSettings := settingsService
	origBootstrap := bootstrap

	configStore := memory.NewConfigStore()
	settingsService = services.NewSettingsService(configStore)
	workspaceService = services.NewWorkspace(services.WorkspaceStores{
		Ideas:      memory.NewIdeaStore(),
		Anchors:    memory.NewAnchorStore(),
		Relations:  memory.NewRelationStore(),
		Highlights: memory.NewHighlightStore(),
		Links:      memory.NewIdeaAnchorStore(),
	}, domain.DefaultAppSettings(), layer)
	bootstrap = nil
	resetFlags(rootCmd)

	return func() {
		workspaceService = origWorkspace
		settingsService = origSettings
		bootstrap = origBootstrap
		resetFlags(rootCmd)
	}
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command with args and returns combined output.
func run(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()
	err := rootCmd.Execute()
	return buf.String(), err
}
