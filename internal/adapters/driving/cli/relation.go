package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/core/domain"
)

var (
	relationType          string
	relationJustification string
	relationListJSON      bool
)

var relationCmd = &cobra.Command{
	Use:   "relation",
	Short: "Manage relations between ideas",
}

var relationAddCmd = &cobra.Command{
	Use:   "add [from] [to]",
	Short: "Relate two ideas",
	Long: `Add a directed relation between two ideas.

Relation types:
  SUPPORTS     - from is evidence for to
  DEPENDS_ON   - from only holds if to holds
  CONTRADICTS  - from and to cannot both hold`,
	Args: cobra.ExactArgs(2),
	RunE: runRelationAdd,
}

var relationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List relations",
	RunE:  runRelationList,
}

func init() {
	relationAddCmd.Flags().StringVarP(&relationType, "type", "t", string(domain.RelationSupports), "relation type")
	relationAddCmd.Flags().StringVarP(&relationJustification, "justification", "j", "", "why the relation holds")
	relationListCmd.Flags().BoolVar(&relationListJSON, "json", false, "output relations as JSON")

	relationCmd.AddCommand(relationAddCmd)
	relationCmd.AddCommand(relationListCmd)
	rootCmd.AddCommand(relationCmd)
}

func runRelationAdd(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}
	rt, err := parseRelationType(relationType)
	if err != nil {
		return err
	}

	rel, err := ws.AddRelation(commandContext(cmd), domain.RelationDraft{
		FromIdeaID:    args[0],
		ToIdeaID:      args[1],
		Type:          rt,
		Justification: relationJustification,
	})
	if err != nil {
		return fmt.Errorf("failed to add relation: %w", err)
	}

	cmd.Printf("Added relation %s: %s %s %s\n", rel.ID, rel.FromIdeaID, rel.Type, rel.ToIdeaID)
	return nil
}

func runRelationList(cmd *cobra.Command, _ []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}
	relations := ws.Relations()

	if relationListJSON {
		data, err := json.MarshalIndent(relations, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal relations: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(relations) == 0 {
		cmd.Println("No relations yet.")
		return nil
	}
	for _, rel := range relations {
		cmd.Printf("  %s  %s %s %s\n", rel.ID, rel.FromIdeaID, rel.Type, rel.ToIdeaID)
		if rel.Justification != "" {
			cmd.Printf("      %s\n", rel.Justification)
		}
	}
	return nil
}
