package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/ports/driving"
)

// exportVersion is bumped when the export layout changes.
const exportVersion = 1

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every idea, anchor and relation to YAML or JSON",
	Long: `Export the whole workspace, hidden ideas included, as one document.

Formats:
  yaml  - human readable (default)
  json  - for other tools`,
	Example: `  margin export > notes.yaml
  margin export --format json -o notes.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "yaml", "output format: yaml or json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

type exportDocument struct {
	Version    int               `yaml:"version" json:"version"`
	ExportedAt time.Time         `yaml:"exported_at" json:"exported_at"`
	Ideas      []exportIdea      `yaml:"ideas" json:"ideas"`
	Anchors    []exportAnchor    `yaml:"anchors" json:"anchors"`
	Relations  []exportRelation  `yaml:"relations" json:"relations"`
	Highlights []exportHighlight `yaml:"highlights" json:"highlights"`
	Links      []exportLink      `yaml:"links" json:"links"`
}

type exportIdea struct {
	ID         string    `yaml:"id" json:"id"`
	ProjectID  string    `yaml:"project_id" json:"project_id"`
	SourceID   string    `yaml:"source_id,omitempty" json:"source_id,omitempty"`
	AnchorID   string    `yaml:"anchor_id,omitempty" json:"anchor_id,omitempty"`
	Type       string    `yaml:"type" json:"type"`
	Rephrase   string    `yaml:"rephrase" json:"rephrase"`
	Origin     string    `yaml:"origin" json:"origin"`
	Status     string    `yaml:"status" json:"status"`
	Confidence float64   `yaml:"confidence" json:"confidence"`
	Hidden     bool      `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Flags      []string  `yaml:"flags,omitempty" json:"flags,omitempty"`
	CreatedAt  time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt  time.Time `yaml:"updated_at" json:"updated_at"`
}

type exportAnchor struct {
	ID            string       `yaml:"id" json:"id"`
	ProjectID     string       `yaml:"project_id" json:"project_id"`
	SourceID      string       `yaml:"source_id" json:"source_id"`
	Page          int          `yaml:"page" json:"page"`
	Quote         string       `yaml:"quote" json:"quote"`
	ContextBefore string       `yaml:"context_before,omitempty" json:"context_before,omitempty"`
	ContextAfter  string       `yaml:"context_after,omitempty" json:"context_after,omitempty"`
	Rects         []exportRect `yaml:"rects" json:"rects"`
	Strategy      string       `yaml:"strategy" json:"strategy"`
	Confidence    float64      `yaml:"confidence" json:"confidence"`
	CreatedAt     time.Time    `yaml:"created_at" json:"created_at"`
}

type exportRect struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

type exportRelation struct {
	ID            string    `yaml:"id" json:"id"`
	From          string    `yaml:"from" json:"from"`
	To            string    `yaml:"to" json:"to"`
	Type          string    `yaml:"type" json:"type"`
	Justification string    `yaml:"justification,omitempty" json:"justification,omitempty"`
	CreatedAt     time.Time `yaml:"created_at" json:"created_at"`
}

type exportHighlight struct {
	ID        string    `yaml:"id" json:"id"`
	AnchorID  string    `yaml:"anchor_id" json:"anchor_id"`
	Color     string    `yaml:"color" json:"color"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
}

type exportLink struct {
	IdeaID    string    `yaml:"idea_id" json:"idea_id"`
	AnchorID  string    `yaml:"anchor_id" json:"anchor_id"`
	CreatedAt time.Time `yaml:"created_at" json:"created_at"`
}

func runExport(cmd *cobra.Command, _ []string) error {
	ws, err := requireWorkspace()
	if err != nil {
		return err
	}

	doc := buildExport(ws, time.Now().UTC())

	var data []byte
	switch strings.ToLower(exportFormat) {
	case "yaml", "yml":
		data, err = yaml.Marshal(doc)
	case "json":
		data, err = json.MarshalIndent(doc, "", "  ")
		data = append(data, '\n')
	default:
		return fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidInput, exportFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if exportOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOutput, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	cmd.PrintErrf("Exported %d ideas to %s\n", len(doc.Ideas), exportOutput)
	return nil
}

func buildExport(ws driving.Workspace, now time.Time) exportDocument {
	flags := ws.Flags()
	doc := exportDocument{
		Version:    exportVersion,
		ExportedAt: now,
		Ideas:      []exportIdea{},
		Anchors:    []exportAnchor{},
		Relations:  []exportRelation{},
		Highlights: []exportHighlight{},
		Links:      []exportLink{},
	}

	for _, idea := range ws.Ideas() {
		doc.Ideas = append(doc.Ideas, exportIdea{
			ID:         idea.ID,
			ProjectID:  idea.ProjectID,
			SourceID:   idea.SourceID,
			AnchorID:   idea.AnchorID,
			Type:       idea.Type.String(),
			Rephrase:   idea.Rephrase,
			Origin:     idea.Origin.String(),
			Status:     idea.Status.String(),
			Confidence: idea.Confidence,
			Hidden:     idea.HiddenFromNotes,
			Flags:      formatFlagList(flags[idea.ID]),
			CreatedAt:  idea.CreatedAt,
			UpdatedAt:  idea.UpdatedAt,
		})
	}
	for _, a := range ws.Anchors() {
		rects := make([]exportRect, len(a.Rects))
		for i, r := range a.Rects {
			rects[i] = exportRect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
		}
		doc.Anchors = append(doc.Anchors, exportAnchor{
			ID:            a.ID,
			ProjectID:     a.ProjectID,
			SourceID:      a.SourceID,
			Page:          a.PageNumber,
			Quote:         a.Quote,
			ContextBefore: a.ContextBefore,
			ContextAfter:  a.ContextAfter,
			Rects:         rects,
			Strategy:      a.Strategy.String(),
			Confidence:    a.Confidence,
			CreatedAt:     a.CreatedAt,
		})
	}
	for _, r := range ws.Relations() {
		doc.Relations = append(doc.Relations, exportRelation{
			ID:            r.ID,
			From:          r.FromIdeaID,
			To:            r.ToIdeaID,
			Type:          r.Type.String(),
			Justification: r.Justification,
			CreatedAt:     r.CreatedAt,
		})
	}
	for _, h := range ws.Highlights() {
		doc.Highlights = append(doc.Highlights, exportHighlight{
			ID:        h.ID,
			AnchorID:  h.AnchorID,
			Color:     h.Color,
			CreatedAt: h.CreatedAt,
		})
	}
	for _, l := range ws.Links() {
		doc.Links = append(doc.Links, exportLink{
			IdeaID:    l.IdeaID,
			AnchorID:  l.AnchorID,
			CreatedAt: l.CreatedAt,
		})
	}
	return doc
}

func formatFlagList(flags []domain.CognitiveFlag) []string {
	if len(flags) == 0 {
		return nil
	}
	out := make([]string, len(flags))
	for i, f := range flags {
		out[i] = f.String()
	}
	return out
}
