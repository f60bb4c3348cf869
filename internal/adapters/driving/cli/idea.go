package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/core/domain"
)

var (
	ideaType       string
	ideaSource     string
	ideaAnchor     string
	ideaConfidence float64
	ideaListAll    bool
	ideaListJSON   bool
	ideaUnhide     bool

	ideaEditRephrase   string
	ideaEditType       string
	ideaEditStatus     string
	ideaEditConfidence float64
)

var ideaCmd = &cobra.Command{
	Use:   "idea",
	Short: "Manage ideas",
	Long:  `Create, list, edit and hide ideas. Ideas are never deleted.`,
}

var ideaAddCmd = &cobra.Command{
	Use:   "add [rephrase]",
	Short: "Add an idea in your own words",
	Long: `Add a manual idea. With --anchor the idea is also linked to an
existing anchor so it can be navigated to.`,
	Args: cobra.ExactArgs(1),
	RunE: runIdeaAdd,
}

var ideaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ideas",
	RunE:  runIdeaList,
}

var ideaShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show an idea with its flags and relations",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdeaShow,
}

var ideaEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an idea",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdeaEdit,
}

var ideaHideCmd = &cobra.Command{
	Use:   "hide [id]",
	Short: "Hide an idea from the notes panel",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdeaHide,
}

func init() {
	ideaAddCmd.Flags().StringVarP(&ideaType, "type", "t", string(domain.IdeaTypeClaim), "idea type (CLAIM, ASSUMPTION, QUESTION, EVIDENCE, DEFINITION)")
	ideaAddCmd.Flags().StringVar(&ideaSource, "source", "", "source document the idea was written against")
	ideaAddCmd.Flags().StringVar(&ideaAnchor, "anchor", "", "anchor to link the idea to")
	ideaAddCmd.Flags().Float64Var(&ideaConfidence, "confidence", 0.5, "your confidence in the idea (0-1)")

	ideaListCmd.Flags().BoolVarP(&ideaListAll, "all", "a", false, "include hidden ideas")
	ideaListCmd.Flags().BoolVar(&ideaListJSON, "json", false, "output ideas as JSON")

	ideaEditCmd.Flags().StringVar(&ideaEditRephrase, "rephrase", "", "new rephrase")
	ideaEditCmd.Flags().StringVarP(&ideaEditType, "type", "t", "", "new idea type")
	ideaEditCmd.Flags().StringVar(&ideaEditStatus, "status", "", "new status (DRAFT, REVIEWED, ARCHIVED)")
	ideaEditCmd.Flags().Float64Var(&ideaEditConfidence, "confidence", 0, "new confidence (0-1)")

	ideaHideCmd.Flags().BoolVar(&ideaUnhide, "unhide", false, "show the idea again")

	ideaCmd.AddCommand(ideaAddCmd)
	ideaCmd.AddCommand(ideaListCmd)
	ideaCmd.AddCommand(ideaShowCmd)
	ideaCmd.AddCommand(ideaEditCmd)
	ideaCmd.AddCommand(ideaHideCmd)
	rootCmd.AddCommand(ideaCmd)
}

func runIdeaAdd(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}
	t, err := parseIdeaType(ideaType)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	idea, err := ws.AddIdea(ctx, domain.IdeaDraft{
		SourceID:   ideaSource,
		AnchorID:   ideaAnchor,
		Type:       t,
		Rephrase:   args[0],
		Confidence: ideaConfidence,
	})
	if err != nil {
		return fmt.Errorf("failed to add idea: %w", err)
	}
	if ideaAnchor != "" {
		if err := ws.LinkIdeaToAnchor(ctx, idea.ID, ideaAnchor); err != nil {
			return fmt.Errorf("failed to link idea: %w", err)
		}
	}

	cmd.Printf("Added idea %s (%s)\n", idea.ID, idea.Type)
	return nil
}

func runIdeaList(cmd *cobra.Command, _ []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	ideas := ws.VisibleIdeas()
	if ideaListAll {
		ideas = ws.Ideas()
	}

	if ideaListJSON {
		data, err := json.MarshalIndent(ideas, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal ideas: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(ideas) == 0 {
		cmd.Println("No ideas yet.")
		return nil
	}

	flags := ws.Flags()
	for i := range ideas {
		idea := &ideas[i]
		marker := " "
		if idea.HiddenFromNotes {
			marker = "h"
		}
		cmd.Printf("%s %s  %-10s %s\n", marker, idea.ID, idea.Type, truncate(idea.Rephrase, 60))
		if f := flags[idea.ID]; len(f) > 0 {
			cmd.Printf("    flags: %s\n", formatFlags(f))
		}
	}
	return nil
}

func runIdeaShow(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	idea, err := ws.Idea(args[0])
	if err != nil {
		return fmt.Errorf("failed to get idea: %w", err)
	}

	cmd.Printf("ID:         %s\n", idea.ID)
	cmd.Printf("Type:       %s\n", idea.Type)
	cmd.Printf("Status:     %s\n", idea.Status)
	cmd.Printf("Origin:     %s\n", idea.Origin)
	cmd.Printf("Confidence: %.2f\n", idea.Confidence)
	if idea.SourceID != "" {
		cmd.Printf("Source:     %s\n", idea.SourceID)
	}
	if page, ok := ws.AnchorPageForIdea(idea.ID); ok {
		cmd.Printf("Page:       %d\n", page)
	}
	if idea.HiddenFromNotes {
		cmd.Println("Hidden:     yes")
	}
	cmd.Println()
	cmd.Println(idea.Rephrase)

	if f := ws.Flags()[idea.ID]; len(f) > 0 {
		cmd.Println()
		cmd.Printf("Flags: %s\n", formatFlags(f))
	}

	var printed bool
	for _, rel := range ws.Relations() {
		if !rel.Touches(idea.ID) {
			continue
		}
		if !printed {
			cmd.Println()
			cmd.Println("Relations:")
			printed = true
		}
		if rel.FromIdeaID == idea.ID {
			cmd.Printf("  -> %s %s\n", rel.Type, rel.ToIdeaID)
		} else {
			cmd.Printf("  <- %s %s\n", rel.Type, rel.FromIdeaID)
		}
	}
	return nil
}

func runIdeaEdit(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	var patch domain.IdeaPatch
	flags := cmd.Flags()
	if flags.Changed("rephrase") {
		patch.Rephrase = &ideaEditRephrase
	}
	if flags.Changed("type") {
		t, err := parseIdeaType(ideaEditType)
		if err != nil {
			return err
		}
		patch.Type = &t
	}
	if flags.Changed("status") {
		st, err := parseStatus(ideaEditStatus)
		if err != nil {
			return err
		}
		patch.Status = &st
	}
	if flags.Changed("confidence") {
		patch.Confidence = &ideaEditConfidence
	}
	if patch.IsEmpty() {
		return fmt.Errorf("%w: nothing to change", domain.ErrInvalidInput)
	}

	idea, err := ws.UpdateIdea(commandContext(cmd), args[0], patch)
	if err != nil {
		return fmt.Errorf("failed to update idea: %w", err)
	}
	cmd.Printf("Updated idea %s\n", idea.ID)
	return nil
}

func runIdeaHide(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}
	if err := ws.HideIdea(commandContext(cmd), args[0], !ideaUnhide); err != nil {
		return fmt.Errorf("failed to hide idea: %w", err)
	}
	if ideaUnhide {
		cmd.Printf("Idea %s is visible again\n", args[0])
	} else {
		cmd.Printf("Idea %s hidden from notes\n", args[0])
	}
	return nil
}
