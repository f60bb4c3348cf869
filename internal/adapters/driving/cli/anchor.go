package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// Selection flags shared by anchor create and comment.
type selectionFlags struct {
	page     int
	quote    string
	before   string
	after    string
	rects    []string
	viewport string
	color    string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.page, "page", "p", 1, "1-based page number")
	cmd.Flags().StringVarP(&f.quote, "quote", "q", "", "selected text")
	cmd.Flags().StringVar(&f.before, "before", "", "text immediately before the quote")
	cmd.Flags().StringVar(&f.after, "after", "", "text immediately after the quote")
	cmd.Flags().StringArrayVar(&f.rects, "rect", nil, "selection rect in pixels as x,y,w,h (repeatable)")
	cmd.Flags().StringVar(&f.viewport, "viewport", "", "rendered page size in pixels as WIDTHxHEIGHT")
	cmd.Flags().StringVar(&f.color, "color", "", "highlight colour as #rrggbb (default from settings)")
}

func (f *selectionFlags) selection(sourceID string) (domain.Selection, error) {
	rects, err := parseRects(f.rects)
	if err != nil {
		return domain.Selection{}, err
	}
	vp, err := parseViewport(f.viewport)
	if err != nil {
		return domain.Selection{}, err
	}
	return domain.Selection{
		SourceID:      sourceID,
		PageNumber:    f.page,
		Quote:         f.quote,
		ContextBefore: f.before,
		ContextAfter:  f.after,
		RawRects:      rects,
		Viewport:      vp,
	}, nil
}

var (
	anchorSelection  selectionFlags
	anchorListSource string
	anchorListJSON   bool
	anchorViewport   string
	anchorPath       string
)

var anchorCmd = &cobra.Command{
	Use:   "anchor",
	Short: "Manage anchors and highlights",
	Long: `Anchors are durable pointers to a quoted passage on one page of a
source. Their rectangles are stored as fractions of the page so they stay
valid at any zoom level.`,
}

var anchorCreateCmd = &cobra.Command{
	Use:   "create [source]",
	Short: "Highlight a selection",
	Long: `Resolve a selection into an anchor and highlight it.

Example:
  margin anchor create paper.pdf --page 3 --quote "the hippocampus replays" \
    --rect 60,120,300,14 --viewport 600x800`,
	Args: cobra.ExactArgs(1),
	RunE: runAnchorCreate,
}

var anchorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List anchors",
	RunE:  runAnchorList,
}

var anchorLocateCmd = &cobra.Command{
	Use:   "locate [id]",
	Short: "Convert an anchor back to viewport pixels",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnchorLocate,
}

var anchorRelocateCmd = &cobra.Command{
	Use:   "relocate [source]",
	Short: "Re-find every anchor of a source in its current text",
	Long: `Search the current text layer of a source for every stored quote and
save new anchors where the text has moved. Ideas follow their anchors.

The source ID is used as the file path unless --path is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnchorRelocate,
}

func init() {
	anchorSelection.register(anchorCreateCmd)

	anchorListCmd.Flags().StringVar(&anchorListSource, "source", "", "only anchors of this source")
	anchorListCmd.Flags().BoolVar(&anchorListJSON, "json", false, "output anchors as JSON")

	anchorLocateCmd.Flags().StringVar(&anchorViewport, "viewport", "", "rendered page size in pixels as WIDTHxHEIGHT")
	_ = anchorLocateCmd.MarkFlagRequired("viewport")

	anchorRelocateCmd.Flags().StringVar(&anchorPath, "path", "", "path of the source file")

	anchorCmd.AddCommand(anchorCreateCmd)
	anchorCmd.AddCommand(anchorListCmd)
	anchorCmd.AddCommand(anchorLocateCmd)
	anchorCmd.AddCommand(anchorRelocateCmd)
	rootCmd.AddCommand(anchorCmd)
}

func runAnchorCreate(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}
	sel, err := anchorSelection.selection(args[0])
	if err != nil {
		return err
	}

	anchor, err := ws.Highlight(commandContext(cmd), sel, anchorSelection.color)
	if err != nil {
		return fmt.Errorf("failed to highlight: %w", err)
	}
	if anchor == nil {
		cmd.Println("Selection has no area; nothing saved.")
		return nil
	}

	cmd.Printf("Created anchor %s on page %d\n", anchor.ID, anchor.PageNumber)
	return nil
}

func runAnchorList(cmd *cobra.Command, _ []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	anchors := ws.Anchors()
	if anchorListSource != "" {
		anchors = ws.AnchorsForSource(anchorListSource)
	}

	if anchorListJSON {
		data, err := json.MarshalIndent(anchors, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal anchors: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(anchors) == 0 {
		cmd.Println("No anchors found.")
		return nil
	}

	for i := range anchors {
		a := &anchors[i]
		color, _ := ws.LatestHighlightColor(a.ID)
		cmd.Printf("  %s  %s p.%d  %s %.2f %s\n", a.ID, a.SourceID, a.PageNumber, a.Strategy, a.Confidence, color)
		cmd.Printf("      %q\n", truncate(a.Quote, 70))
	}
	return nil
}

func runAnchorLocate(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}
	vp, err := parseViewport(anchorViewport)
	if err != nil {
		return err
	}

	rect, ok, err := ws.LocateAnchor(args[0], vp)
	if err != nil {
		return fmt.Errorf("failed to locate anchor: %w", err)
	}
	if !ok {
		anchor, err := ws.Anchor(args[0])
		if err != nil {
			return err
		}
		cmd.Printf("Anchor %s has no position; page %d\n", anchor.ID, anchor.PageNumber)
		return nil
	}

	cmd.Printf("%.1f,%.1f,%.1f,%.1f\n", rect.X, rect.Y, rect.Width, rect.Height)
	return nil
}

func runAnchorRelocate(cmd *cobra.Command, args []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	path := anchorPath
	if path == "" {
		path = args[0]
	}

	report, err := ws.RelocateSource(commandContext(cmd), args[0], path)
	if err != nil {
		return fmt.Errorf("failed to relocate anchors: %w", err)
	}
	printRelocationReport(cmd, report)
	return nil
}

func printRelocationReport(cmd *cobra.Command, report *domain.RelocationReport) {
	if len(report.Outcomes) == 0 {
		cmd.Printf("No anchors for %s\n", report.SourceID)
		return
	}

	for _, o := range report.Outcomes {
		switch {
		case o.Err != nil:
			cmd.Printf("  %s  not found: %v\n", o.OldAnchorID, o.Err)
		case o.Unchanged:
			cmd.Printf("  %s  unchanged\n", o.OldAnchorID)
		case o.Saved:
			cmd.Printf("  %s  -> %s p.%d (%.2f)\n", o.OldAnchorID, o.NewAnchor.ID, o.NewAnchor.PageNumber, o.NewAnchor.Confidence)
		case o.BelowThreshold():
			cmd.Printf("  %s  low confidence %.2f, not saved\n", o.OldAnchorID, o.NewAnchor.Confidence)
		}
	}
	cmd.Printf("%d relocated, %d failed\n", report.Relocated(), report.Failed())
}
