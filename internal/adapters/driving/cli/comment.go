package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/core/domain"
)

var (
	commentSelection selectionFlags
	commentType      string
	commentRelated   string
	commentRelation  string
	commentDirection string
)

var commentCmd = &cobra.Command{
	Use:   "comment [source] [rephrase]",
	Short: "Comment on a selection with an idea",
	Long: `Highlight a selection and attach a new idea to it, written in your
own words. Optionally relate the new idea to an existing one.

Example:
  margin comment paper.pdf "Replay during sleep drives consolidation" \
    --page 3 --quote "the hippocampus replays" --rect 60,120,300,14 \
    --viewport 600x800 --related 5f1c... --relation SUPPORTS`,
	Args: cobra.ExactArgs(2),
	RunE: runComment,
}

func init() {
	commentSelection.register(commentCmd)
	commentCmd.Flags().StringVarP(&commentType, "type", "t", string(domain.IdeaTypeClaim), "idea type")
	commentCmd.Flags().StringVar(&commentRelated, "related", "", "existing idea to relate the comment to")
	commentCmd.Flags().StringVar(&commentRelation, "relation", string(domain.RelationSupports), "relation type used with --related")
	commentCmd.Flags().StringVar(&commentDirection, "direction", string(domain.DirectionOutgoing), "OUTGOING (new -> related) or INCOMING (related -> new)")
	rootCmd.AddCommand(commentCmd)
}

func runComment(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}
	sel, err := commentSelection.selection(args[0])
	if err != nil {
		return err
	}
	t, err := parseIdeaType(commentType)
	if err != nil {
		return err
	}

	draft := domain.CommentDraft{
		Selection: sel,
		Type:      t,
		Rephrase:  args[1],
		Color:     commentSelection.color,
	}
	if commentRelated != "" {
		rt, err := parseRelationType(commentRelation)
		if err != nil {
			return err
		}
		draft.RelatedIdeaID = commentRelated
		draft.RelationType = rt
		draft.Direction = domain.RelationDirection(strings.ToUpper(commentDirection))
	}

	result, err := ws.Comment(commandContext(cmd), draft)
	if err != nil {
		return fmt.Errorf("failed to comment: %w", err)
	}

	cmd.Printf("Added idea %s on anchor %s (page %d)\n", result.Idea.ID, result.Anchor.ID, result.Anchor.PageNumber)
	if result.Relation != nil {
		cmd.Printf("Related: %s %s %s\n", result.Relation.FromIdeaID, result.Relation.Type, result.Relation.ToIdeaID)
	}
	return nil
}
