package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/margin/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for margin resources.
	uriScheme = "margin://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing ideas.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "ideas",
		Name:        "ideas",
		Description: "All ideas, hidden ones included, in creation order",
		MIMEType:    "application/json",
	}, s.handleIdeasResource)

	// Template for a single anchor.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "anchors/{anchorId}",
		Name:        "anchor",
		Description: "A quoted passage with its page and normalized position",
		MIMEType:    "application/json",
	}, s.handleAnchorResource)
}

// handleIdeasResource returns every idea.
func (s *Server) handleIdeasResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ideas := s.ports.Workspace.Ideas()

	outputs := make([]IdeaOutput, len(ideas))
	for i := range ideas {
		outputs[i] = ideaOutput(&ideas[i])
	}
	return jsonResult(req.Params.URI, outputs)
}

// anchorInfo is the JSON shape of an anchor resource.
type anchorInfo struct {
	ID            string        `json:"id"`
	SourceID      string        `json:"source_id"`
	PageNumber    int           `json:"page_number"`
	Quote         string        `json:"quote"`
	ContextBefore string        `json:"context_before,omitempty"`
	ContextAfter  string        `json:"context_after,omitempty"`
	Rects         []domain.Rect `json:"rects"`
	Strategy      string        `json:"strategy"`
	Confidence    float64       `json:"confidence"`
	Color         string        `json:"color,omitempty"`
}

// handleAnchorResource returns one anchor.
func (s *Server) handleAnchorResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	anchorID := extractAnchorID(req.Params.URI)
	if anchorID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	anchor, err := s.ports.Workspace.Anchor(anchorID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting anchor: %w", err)
	}

	rects := anchor.Rects
	if rects == nil {
		rects = []domain.Rect{}
	}
	color, _ := s.ports.Workspace.LatestHighlightColor(anchor.ID)
	return jsonResult(req.Params.URI, anchorInfo{
		ID:            anchor.ID,
		SourceID:      anchor.SourceID,
		PageNumber:    anchor.PageNumber,
		Quote:         anchor.Quote,
		ContextBefore: anchor.ContextBefore,
		ContextAfter:  anchor.ContextAfter,
		Rects:         rects,
		Strategy:      anchor.Strategy.String(),
		Confidence:    anchor.Confidence,
		Color:         color,
	})
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractAnchorID extracts the anchor ID from a URI like margin://anchors/{anchorId}.
func extractAnchorID(uri string) string {
	const prefix = uriScheme + "anchors/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
