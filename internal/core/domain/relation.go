package domain

import "time"

// RelationType is the kind of edge between two ideas.
type RelationType string

// Available relation types.
const (
	RelationSupports    RelationType = "SUPPORTS"
	RelationDependsOn   RelationType = "DEPENDS_ON"
	RelationContradicts RelationType = "CONTRADICTS"
)

// RelationTypes lists every relation type in display order.
func RelationTypes() []RelationType {
	return []RelationType{RelationSupports, RelationDependsOn, RelationContradicts}
}

// IsValid returns true if the relation type is recognised.
func (t RelationType) IsValid() bool {
	switch t {
	case RelationSupports, RelationDependsOn, RelationContradicts:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t RelationType) String() string {
	return string(t)
}

// Relation is a directed, typed edge between two ideas.
// Relations are immutable and reference ideas by id only.
type Relation struct {
	ID            string
	ProjectID     string
	FromIdeaID    string
	ToIdeaID      string
	Type          RelationType
	Justification string
	CreatedAt     time.Time
}

// Touches reports whether the relation has ideaID as either endpoint.
func (r *Relation) Touches(ideaID string) bool {
	return r.FromIdeaID == ideaID || r.ToIdeaID == ideaID
}
