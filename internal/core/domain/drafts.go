package domain

// Selection is a text selection captured on a rendered page.
// RawRects are pixel rects relative to the page, measured against Viewport.
type Selection struct {
	ProjectID     string
	SourceID      string
	PageNumber    int
	Quote         string
	ContextBefore string
	ContextAfter  string
	RawRects      []Rect
	Viewport      Viewport
}

// IdeaDraft holds the caller-supplied fields of a new idea.
// Zero values take defaults: MANUAL origin, DRAFT status, CLAIM type.
type IdeaDraft struct {
	SourceID   string
	AnchorID   string
	Type       IdeaType
	Rephrase   string
	Origin     IdeaOrigin
	Status     IdeaStatus
	Confidence float64
}

// RelationDraft holds the caller-supplied fields of a new relation.
type RelationDraft struct {
	FromIdeaID    string
	ToIdeaID      string
	Type          RelationType
	Justification string
}

// RelationDirection says which end of a comment relation the new idea sits on.
type RelationDirection string

// Relation directions for comments.
const (
	// DirectionOutgoing makes the new idea the relation's source.
	DirectionOutgoing RelationDirection = "OUTGOING"
	// DirectionIncoming makes the new idea the relation's target.
	DirectionIncoming RelationDirection = "INCOMING"
)

// IsValid returns true if the direction is recognised.
func (d RelationDirection) IsValid() bool {
	return d == DirectionOutgoing || d == DirectionIncoming
}

// CommentDraft describes a comment made on a selection: a new idea anchored
// to the selected text, optionally related to an existing idea.
type CommentDraft struct {
	Selection Selection
	Type      IdeaType
	Rephrase  string
	Color     string

	// RelatedIdeaID, when set, adds a relation of RelationType between the
	// new idea and the related one in the given Direction.
	RelatedIdeaID string
	RelationType  RelationType
	Direction     RelationDirection
}

// CommentResult reports everything written by a comment.
type CommentResult struct {
	Anchor    Anchor
	Highlight Highlight
	Idea      Idea
	Relation  *Relation
}

// RelocationOutcome reports the result of re-anchoring one anchor.
type RelocationOutcome struct {
	OldAnchorID string

	// NewAnchor is the relocated candidate, nil when the quote was not found.
	NewAnchor *Anchor

	// Saved is true when NewAnchor was persisted and ideas relinked to it.
	Saved bool

	// Unchanged is true when an equivalent anchor already existed.
	Unchanged bool

	// Err is set when the anchor could not be relocated.
	Err error
}

// BelowThreshold reports whether a candidate was found but not saved
// because its confidence was too low.
func (o RelocationOutcome) BelowThreshold() bool {
	return o.NewAnchor != nil && !o.Saved && !o.Unchanged && o.Err == nil
}

// RelocationReport summarises re-anchoring all anchors of a source.
type RelocationReport struct {
	SourceID string
	Outcomes []RelocationOutcome
}

// Relocated returns the number of anchors saved at a new position.
func (r *RelocationReport) Relocated() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Saved {
			n++
		}
	}
	return n
}

// Failed returns the number of anchors that could not be relocated.
func (r *RelocationReport) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
