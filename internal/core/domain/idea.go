package domain

import "time"

// MinRephraseLength is the minimum trimmed length of Idea.Rephrase.
const MinRephraseLength = 10

// IdeaType classifies what kind of proposition an idea is.
type IdeaType string

// Available idea types.
const (
	IdeaTypeClaim      IdeaType = "CLAIM"
	IdeaTypeAssumption IdeaType = "ASSUMPTION"
	IdeaTypeQuestion   IdeaType = "QUESTION"
	IdeaTypeEvidence   IdeaType = "EVIDENCE"
	IdeaTypeDefinition IdeaType = "DEFINITION"
)

// IdeaTypes lists every idea type in display order.
func IdeaTypes() []IdeaType {
	return []IdeaType{
		IdeaTypeClaim,
		IdeaTypeAssumption,
		IdeaTypeQuestion,
		IdeaTypeEvidence,
		IdeaTypeDefinition,
	}
}

// IsValid returns true if the idea type is recognised.
func (t IdeaType) IsValid() bool {
	switch t {
	case IdeaTypeClaim, IdeaTypeAssumption, IdeaTypeQuestion, IdeaTypeEvidence, IdeaTypeDefinition:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t IdeaType) String() string {
	return string(t)
}

// IdeaOrigin records how an idea came into existence.
type IdeaOrigin string

// Available idea origins.
const (
	// IdeaOriginManual is an idea typed directly into the notes panel.
	IdeaOriginManual IdeaOrigin = "MANUAL"

	// IdeaOriginFromComment is an idea created by commenting on a selection.
	// It must reference an anchor.
	IdeaOriginFromComment IdeaOrigin = "FROM_COMMENT"
)

// IsValid returns true if the origin is recognised.
func (o IdeaOrigin) IsValid() bool {
	return o == IdeaOriginManual || o == IdeaOriginFromComment
}

// String returns the string representation.
func (o IdeaOrigin) String() string {
	return string(o)
}

// IdeaStatus is the review status of an idea.
type IdeaStatus string

// Available idea statuses.
const (
	IdeaStatusDraft    IdeaStatus = "DRAFT"
	IdeaStatusReviewed IdeaStatus = "REVIEWED"
	IdeaStatusArchived IdeaStatus = "ARCHIVED"
)

// IsValid returns true if the status is recognised.
func (s IdeaStatus) IsValid() bool {
	switch s {
	case IdeaStatusDraft, IdeaStatusReviewed, IdeaStatusArchived:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s IdeaStatus) String() string {
	return string(s)
}

// Idea is a user-authored proposition.
// Ideas are never deleted; HiddenFromNotes hides them from the notes panel.
type Idea struct {
	// ID is the unique identifier for the idea.
	ID string

	// ProjectID is the owning project.
	ProjectID string

	// SourceID is the document the idea was written against, if any.
	SourceID string

	// AnchorID references the anchor the idea comments on.
	// Required unless Origin is IdeaOriginManual.
	AnchorID string

	// Type classifies the proposition.
	Type IdeaType

	// Rephrase is the idea in the reader's own words.
	Rephrase string

	// Origin records how the idea was created.
	Origin IdeaOrigin

	// Status is the review status.
	Status IdeaStatus

	// Confidence is the reader's confidence in [0,1].
	Confidence float64

	// HiddenFromNotes hides the idea from notes listings.
	HiddenFromNotes bool

	// CreatedAt is when the idea was created.
	CreatedAt time.Time

	// UpdatedAt is when the idea was last changed.
	UpdatedAt time.Time
}

// IdeaPatch is a partial update to an idea. Nil fields are left unchanged.
type IdeaPatch struct {
	Rephrase        *string
	Type            *IdeaType
	Status          *IdeaStatus
	Confidence      *float64
	HiddenFromNotes *bool

	// UpdatedAt stamps the change. It does not count towards IsEmpty.
	UpdatedAt *time.Time
}

// IsEmpty reports whether the patch changes no idea content.
func (p IdeaPatch) IsEmpty() bool {
	return p.Rephrase == nil && p.Type == nil && p.Status == nil &&
		p.Confidence == nil && p.HiddenFromNotes == nil
}

// Apply returns a copy of idea with the patch applied.
func (p IdeaPatch) Apply(idea Idea) Idea {
	if p.Rephrase != nil {
		idea.Rephrase = *p.Rephrase
	}
	if p.Type != nil {
		idea.Type = *p.Type
	}
	if p.Status != nil {
		idea.Status = *p.Status
	}
	if p.Confidence != nil {
		idea.Confidence = *p.Confidence
	}
	if p.HiddenFromNotes != nil {
		idea.HiddenFromNotes = *p.HiddenFromNotes
	}
	if p.UpdatedAt != nil {
		idea.UpdatedAt = *p.UpdatedAt
	}
	return idea
}
