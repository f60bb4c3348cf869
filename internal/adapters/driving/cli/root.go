// Package cli implements the margin command line interface with cobra.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/core/ports/driving"
	"github.com/custodia-labs/margin/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Root flags.
var (
	verbose   bool
	ephemeral bool
)

// Services wired by the bootstrapper before a command runs.
var (
	workspaceService driving.Workspace
	settingsService  driving.SettingsService
)

// Options carries the root flags into the bootstrapper.
type Options struct {
	// Ephemeral keeps all state in memory for the lifetime of the command.
	Ephemeral bool
}

// Services are the driving ports commands call.
type Services struct {
	Workspace driving.Workspace
	Settings  driving.SettingsService
}

// Bootstrapper builds the services for one invocation. The returned close
// function is called after the command finishes.
type Bootstrapper func(ctx context.Context, opts Options) (*Services, func() error, error)

var (
	bootstrap     Bootstrapper
	closeServices func() error
)

var errWorkspaceNotConfigured = errors.New("workspace not configured")

var rootCmd = &cobra.Command{
	Use:   "margin",
	Short: "Annotate documents and review your ideas",
	Long: `margin keeps durable annotations on PDF documents.

Highlight a passage, comment on it with an idea in your own words, relate
ideas to each other and let margin point out which ones still need work:
ideas with no relations, claims without evidence and unresolved
contradictions.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep all state in memory")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrapper installs the function that builds services.
func SetBootstrapper(b Bootstrapper) {
	bootstrap = b
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeServices != nil {
		if closeErr := closeServices(); closeErr != nil && err == nil {
			err = closeErr
		}
		closeServices = nil
	}
	return err
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, closer, err := bootstrap(ctx, Options{Ephemeral: ephemeral})
	if err != nil {
		return fmt.Errorf("starting margin: %w", err)
	}
	workspaceService = svc.Workspace
	settingsService = svc.Settings
	closeServices = closer
	return nil
}

// commandContext returns the command context, falling back to Background
// when the command is invoked directly in tests.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func requireWorkspace() (driving.Workspace, error) {
	if workspaceService == nil {
		return nil, errWorkspaceNotConfigured
	}
	return workspaceService, nil
}
