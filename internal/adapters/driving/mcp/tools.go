package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/margin/internal/core/domain"
)

// StudyQueueInput is the input schema for the study_queue tool.
type StudyQueueInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of items to return (default all)" validate:"gte=0"`
}

// StudyQueueOutput is the output schema for the study_queue tool.
type StudyQueueOutput struct {
	Items []StudyItemOutput `json:"items"`
	Count int               `json:"count"`
}

// StudyItemOutput is one idea in the study queue.
type StudyItemOutput struct {
	IdeaID   string   `json:"idea_id"`
	Type     string   `json:"type"`
	Rephrase string   `json:"rephrase"`
	Flags    []string `json:"flags"`
	Priority int      `json:"priority"`
}

// CognitiveFlagsInput is the input schema for the cognitive_flags tool.
type CognitiveFlagsInput struct {
	IdeaID string `json:"idea_id,omitempty" jsonschema:"only return the flags of this idea"`
}

// CognitiveFlagsOutput is the output schema for the cognitive_flags tool.
type CognitiveFlagsOutput struct {
	Ideas []IdeaFlagsOutput `json:"ideas"`
}

// IdeaFlagsOutput lists the flags of one idea.
type IdeaFlagsOutput struct {
	IdeaID string   `json:"idea_id"`
	Flags  []string `json:"flags"`
}

// AddIdeaInput is the input schema for the add_idea tool.
type AddIdeaInput struct {
	Rephrase   string  `json:"rephrase" jsonschema:"the idea in the reader's own words, at least 10 characters" validate:"required,max=2000"`
	Type       string  `json:"type,omitempty" jsonschema:"CLAIM, ASSUMPTION, QUESTION, EVIDENCE or DEFINITION (default CLAIM)" validate:"omitempty,oneof=CLAIM ASSUMPTION QUESTION EVIDENCE DEFINITION"`
	SourceID   string  `json:"source_id,omitempty" jsonschema:"source document the idea was written against"`
	AnchorID   string  `json:"anchor_id,omitempty" jsonschema:"anchor to link the idea to"`
	Confidence float64 `json:"confidence,omitempty" jsonschema:"confidence in the idea between 0 and 1" validate:"gte=0,lte=1"`
}

// IdeaOutput describes a stored idea.
type IdeaOutput struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Rephrase   string  `json:"rephrase"`
	Origin     string  `json:"origin"`
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
	SourceID   string  `json:"source_id,omitempty"`
	AnchorID   string  `json:"anchor_id,omitempty"`
	Hidden     bool    `json:"hidden,omitempty"`
}

// AddRelationInput is the input schema for the add_relation tool.
type AddRelationInput struct {
	FromIdeaID    string `json:"from_idea_id" jsonschema:"idea the relation starts at" validate:"required"`
	ToIdeaID      string `json:"to_idea_id" jsonschema:"idea the relation points to" validate:"required,nefield=FromIdeaID"`
	Type          string `json:"type" jsonschema:"SUPPORTS, DEPENDS_ON or CONTRADICTS" validate:"required,oneof=SUPPORTS DEPENDS_ON CONTRADICTS"`
	Justification string `json:"justification,omitempty" jsonschema:"why the relation holds"`
}

// RelationOutput describes a stored relation.
type RelationOutput struct {
	ID            string `json:"id"`
	FromIdeaID    string `json:"from_idea_id"`
	ToIdeaID      string `json:"to_idea_id"`
	Type          string `json:"type"`
	Justification string `json:"justification,omitempty"`
}

// LocateAnchorInput is the input schema for the locate_anchor tool.
type LocateAnchorInput struct {
	AnchorID       string  `json:"anchor_id" jsonschema:"anchor to locate" validate:"required"`
	ViewportWidth  float64 `json:"viewport_width" jsonschema:"rendered page width in pixels" validate:"gt=0"`
	ViewportHeight float64 `json:"viewport_height" jsonschema:"rendered page height in pixels" validate:"gt=0"`
}

// LocateAnchorOutput is the output schema for the locate_anchor tool.
type LocateAnchorOutput struct {
	Found      bool    `json:"found"`
	SourceID   string  `json:"source_id"`
	PageNumber int     `json:"page_number"`
	X          float64 `json:"x,omitempty"`
	Y          float64 `json:"y,omitempty"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "study_queue",
		Description: "Ideas that need attention, most urgent first",
	}, s.handleStudyQueue)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cognitive_flags",
		Description: "Review flags (ISOLATED, NO_EVIDENCE, UNRESOLVED_CONTRADICTION) per idea",
	}, s.handleCognitiveFlags)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_idea",
		Description: "Add an idea in the reader's own words",
	}, s.handleAddIdea)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_relation",
		Description: "Relate two ideas with SUPPORTS, DEPENDS_ON or CONTRADICTS",
	}, s.handleAddRelation)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "locate_anchor",
		Description: "Page and pixel position of an anchor for a given viewport",
	}, s.handleLocateAnchor)
}

// handleStudyQueue handles the study_queue tool invocation.
func (s *Server) handleStudyQueue(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input StudyQueueInput,
) (*mcp.CallToolResult, StudyQueueOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, StudyQueueOutput{}, err
	}

	queue := s.ports.Workspace.StudyQueue()
	if input.Limit > 0 && len(queue) > input.Limit {
		queue = queue[:input.Limit]
	}

	output := StudyQueueOutput{
		Items: make([]StudyItemOutput, len(queue)),
		Count: len(queue),
	}
	for i := range queue {
		output.Items[i] = StudyItemOutput{
			IdeaID:   queue[i].Idea.ID,
			Type:     queue[i].Idea.Type.String(),
			Rephrase: queue[i].Idea.Rephrase,
			Flags:    flagNames(queue[i].Flags),
			Priority: queue[i].Priority,
		}
	}
	return nil, output, nil
}

// handleCognitiveFlags handles the cognitive_flags tool invocation.
func (s *Server) handleCognitiveFlags(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CognitiveFlagsInput,
) (*mcp.CallToolResult, CognitiveFlagsOutput, error) {
	flags := s.ports.Workspace.Flags()

	output := CognitiveFlagsOutput{Ideas: []IdeaFlagsOutput{}}
	if input.IdeaID != "" {
		if f, ok := flags[input.IdeaID]; ok {
			output.Ideas = append(output.Ideas, IdeaFlagsOutput{IdeaID: input.IdeaID, Flags: flagNames(f)})
		}
		return nil, output, nil
	}

	for id, f := range flags {
		output.Ideas = append(output.Ideas, IdeaFlagsOutput{IdeaID: id, Flags: flagNames(f)})
	}
	sort.Slice(output.Ideas, func(i, j int) bool {
		return output.Ideas[i].IdeaID < output.Ideas[j].IdeaID
	})
	return nil, output, nil
}

// handleAddIdea handles the add_idea tool invocation.
func (s *Server) handleAddIdea(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddIdeaInput,
) (*mcp.CallToolResult, IdeaOutput, error) {
	input.Type = strings.ToUpper(input.Type)
	if err := validateInput(input); err != nil {
		return nil, IdeaOutput{}, err
	}

	draft := domain.IdeaDraft{
		SourceID:   input.SourceID,
		AnchorID:   input.AnchorID,
		Type:       domain.IdeaType(input.Type),
		Rephrase:   input.Rephrase,
		Confidence: input.Confidence,
	}

	idea, err := s.ports.Workspace.AddIdea(ctx, draft)
	if err != nil {
		return nil, IdeaOutput{}, fmt.Errorf("adding idea: %w", err)
	}
	if input.AnchorID != "" {
		if err := s.ports.Workspace.LinkIdeaToAnchor(ctx, idea.ID, input.AnchorID); err != nil {
			return nil, IdeaOutput{}, fmt.Errorf("linking idea: %w", err)
		}
	}
	return nil, ideaOutput(idea), nil
}

// handleAddRelation handles the add_relation tool invocation.
func (s *Server) handleAddRelation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddRelationInput,
) (*mcp.CallToolResult, RelationOutput, error) {
	input.Type = strings.ToUpper(input.Type)
	if err := validateInput(input); err != nil {
		return nil, RelationOutput{}, err
	}

	rel, err := s.ports.Workspace.AddRelation(ctx, domain.RelationDraft{
		FromIdeaID:    input.FromIdeaID,
		ToIdeaID:      input.ToIdeaID,
		Type:          domain.RelationType(input.Type),
		Justification: input.Justification,
	})
	if err != nil {
		return nil, RelationOutput{}, fmt.Errorf("adding relation: %w", err)
	}
	return nil, RelationOutput{
		ID:            rel.ID,
		FromIdeaID:    rel.FromIdeaID,
		ToIdeaID:      rel.ToIdeaID,
		Type:          rel.Type.String(),
		Justification: rel.Justification,
	}, nil
}

// handleLocateAnchor handles the locate_anchor tool invocation.
func (s *Server) handleLocateAnchor(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input LocateAnchorInput,
) (*mcp.CallToolResult, LocateAnchorOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, LocateAnchorOutput{}, err
	}

	anchor, err := s.ports.Workspace.Anchor(input.AnchorID)
	if err != nil {
		return nil, LocateAnchorOutput{}, err
	}

	viewport := domain.Viewport{Width: input.ViewportWidth, Height: input.ViewportHeight}
	rect, ok, err := s.ports.Workspace.LocateAnchor(input.AnchorID, viewport)
	if err != nil {
		return nil, LocateAnchorOutput{}, err
	}

	output := LocateAnchorOutput{
		Found:      ok,
		SourceID:   anchor.SourceID,
		PageNumber: anchor.PageNumber,
	}
	if ok {
		output.X, output.Y = rect.X, rect.Y
		output.Width, output.Height = rect.Width, rect.Height
	}
	return nil, output, nil
}

func ideaOutput(idea *domain.Idea) IdeaOutput {
	return IdeaOutput{
		ID:         idea.ID,
		Type:       idea.Type.String(),
		Rephrase:   idea.Rephrase,
		Origin:     idea.Origin.String(),
		Status:     idea.Status.String(),
		Confidence: idea.Confidence,
		SourceID:   idea.SourceID,
		AnchorID:   idea.AnchorID,
		Hidden:     idea.HiddenFromNotes,
	}
}

func flagNames(flags []domain.CognitiveFlag) []string {
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = f.String()
	}
	return names
}
