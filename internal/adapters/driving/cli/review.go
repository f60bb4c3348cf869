package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var reviewJSON bool

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review ideas that need attention",
	Long: `Show the cognitive flags derived from your ideas and relations:

  ISOLATED                  - no relation in either direction
  NO_EVIDENCE               - a claim nothing supports
  UNRESOLVED_CONTRADICTION  - contradicted with no supporting relation`,
}

var reviewFlagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "List flagged ideas",
	RunE:  runReviewFlags,
}

var reviewQueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the study queue, most urgent first",
	RunE:  runReviewQueue,
}

func init() {
	reviewCmd.PersistentFlags().BoolVar(&reviewJSON, "json", false, "output as JSON")
	reviewCmd.AddCommand(reviewFlagsCmd)
	reviewCmd.AddCommand(reviewQueueCmd)
	rootCmd.AddCommand(reviewCmd)
}

func runReviewFlags(cmd *cobra.Command, _ []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}
	flags := ws.Flags()

	if reviewJSON {
		data, err := json.MarshalIndent(flags, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal flags: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(flags) == 0 {
		cmd.Println("No flagged ideas.")
		return nil
	}

	ids := make([]string, 0, len(flags))
	for id := range flags {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		cmd.Printf("  %s  %s\n", id, formatFlags(flags[id]))
	}
	return nil
}

func runReviewQueue(cmd *cobra.Command, _ []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}
	queue := ws.StudyQueue()

	if reviewJSON {
		data, err := json.MarshalIndent(queue, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal study queue: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(queue) == 0 {
		cmd.Println("Nothing to study.")
		return nil
	}
	for i, item := range queue {
		cmd.Printf("  [%d] %s (priority %d)\n", i+1, truncate(item.Idea.Rephrase, 60), item.Priority)
		cmd.Printf("      %s  %s\n", item.Idea.ID, formatFlags(item.Flags))
	}
	return nil
}
