package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/adapters/driving/watch"
	"github.com/custodia-labs/margin/internal/core/domain"
)

var watchSource string

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-anchor a document whenever it changes",
	Long: `Watch a PDF and re-find its anchors every time the file is written.

Anchors are stored under the source ID, which defaults to the path as given.
Passes are throttled by the watch.interval_ms setting. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchSource, "source", "", "source ID the anchors are stored under")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}
	if settingsService == nil {
		return errSettingsNotConfigured
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}
	sourceID := watchSource
	if sourceID == "" {
		sourceID = args[0]
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watch.New(ws, sourceID, path, settings.Watch.Interval)
	w.OnReport(func(report *domain.RelocationReport, err error) {
		if err != nil {
			if !errors.Is(err, ctx.Err()) {
				cmd.PrintErrf("re-anchoring failed: %v\n", err)
			}
			return
		}
		printRelocationReport(cmd, report)
	})

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", path)
	return w.Run(ctx)
}
