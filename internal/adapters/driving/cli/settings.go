package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// highlightPalette is offered by the settings wizard.
var highlightPalette = []struct {
	Name  string
	Color string
}{
	{"Yellow", domain.DefaultHighlightColor},
	{"Green", "#86efac"},
	{"Blue", "#93c5fd"},
	{"Pink", "#f9a8d4"},
	{"Orange", "#fdba74"},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure margin settings.

Use subcommands to change a single key or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by key. Run 'margin settings keys' to list them.

Example:
  margin settings set highlight.color "#93c5fd"`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsReset,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configurable keys",
	RunE:  runSettingsKeys,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

var errSettingsNotConfigured = errors.New("settings service not configured")

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Project]")
	cmd.Printf("  ID: %s\n", settings.Project.ID)
	cmd.Println()

	cmd.Println("[Highlight]")
	cmd.Printf("  Colour: %s\n", settings.Display.HighlightColor)
	cmd.Println()

	cmd.Println("[Resolver]")
	cmd.Printf("  Minimum confidence: %.2f\n", settings.Resolver.MinConfidence)
	cmd.Println()

	cmd.Println("[Watch]")
	cmd.Printf("  Interval: %s\n", settings.Watch.Interval)
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'margin settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}
	if err := settingsService.Reset(args[0]); err != nil {
		return fmt.Errorf("failed to reset %s: %w", args[0], err)
	}
	cmd.Printf("%s reset to default\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("margin Settings Wizard")
	cmd.Println("======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: Project
	cmd.Printf("Project ID [%s]: ", settings.Project.ID)
	if v := readLine(reader); v != "" {
		settings.Project.ID = v
	}
	cmd.Println()

	// Step 2: Highlight colour
	cmd.Println("Highlight colour")
	cmd.Println("----------------")
	current := 0
	for i, c := range highlightPalette {
		if strings.EqualFold(c.Color, settings.Display.HighlightColor) {
			current = i + 1
		}
		cmd.Printf("  %d. %s (%s)\n", i+1, c.Name, c.Color)
	}
	cmd.Print("\nEnter choice or #rrggbb: ")
	input := readLine(reader)
	switch {
	case domain.IsHexColor(input):
		settings.Display.HighlightColor = input
	case input != "":
		if idx := parseChoice(input, len(highlightPalette), current); idx > 0 {
			settings.Display.HighlightColor = highlightPalette[idx-1].Color
		}
	}
	cmd.Println()

	// Step 3: Resolver
	cmd.Printf("Minimum relocation confidence [%.2f]: ", settings.Resolver.MinConfidence)
	if v := readLine(reader); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: confidence %q", domain.ErrInvalidInput, v)
		}
		settings.Resolver.MinConfidence = f
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println()
	cmd.Println("Configuration Complete!")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

