package domain

import (
	"math"
	"strings"
	"unicode/utf8"
)

// ValidateIdea checks the invariants every stored idea must satisfy.
// It must run before any create, and before any update touching
// Rephrase, Origin, AnchorID or Confidence.
func ValidateIdea(idea *Idea) error {
	if utf8.RuneCountInString(strings.TrimSpace(idea.Rephrase)) < MinRephraseLength {
		return &ValidationError{
			Entity: "idea",
			Field:  "rephrase",
			Reason: "must have at least 10 characters",
		}
	}

	if idea.Origin != IdeaOriginManual && idea.AnchorID == "" {
		return &ValidationError{
			Entity: "idea",
			Field:  "anchorId",
			Reason: "ideas not created manually require an anchor",
		}
	}

	if math.IsNaN(idea.Confidence) || idea.Confidence < 0 || idea.Confidence > 1 {
		return &ValidationError{
			Entity: "idea",
			Field:  "confidence",
			Reason: "must be between 0 and 1",
		}
	}

	if idea.Type != "" && !idea.Type.IsValid() {
		return &ValidationError{Entity: "idea", Field: "type", Reason: "unknown idea type " + string(idea.Type)}
	}
	if idea.Origin != "" && !idea.Origin.IsValid() {
		return &ValidationError{Entity: "idea", Field: "origin", Reason: "unknown origin " + string(idea.Origin)}
	}

	return nil
}

// ValidateRelation rejects self-relations and unknown relation types.
// Dependency cycles are not checked.
func ValidateRelation(rel *Relation) error {
	if rel.FromIdeaID == rel.ToIdeaID {
		return &ValidationError{
			Entity: "relation",
			Field:  "toIdeaId",
			Reason: "an idea cannot relate to itself",
		}
	}
	if rel.Type != "" && !rel.Type.IsValid() {
		return &ValidationError{Entity: "relation", Field: "type", Reason: "unknown relation type " + string(rel.Type)}
	}
	return nil
}

// ValidateHighlight requires an anchor reference and a #rrggbb colour.
func ValidateHighlight(h *Highlight) error {
	if h.AnchorID == "" {
		return &ValidationError{Entity: "highlight", Field: "anchorId", Reason: "is required"}
	}
	if !IsHexColor(h.Color) {
		return &ValidationError{Entity: "highlight", Field: "color", Reason: "must be a #rrggbb colour"}
	}
	return nil
}
