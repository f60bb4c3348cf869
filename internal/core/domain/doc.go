// Package domain defines the core entities for margin.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Idea: A user-authored proposition, optionally anchored to a passage
//   - Anchor: A page-relative, scale-independent pointer into a source
//   - Relation: A directed, typed edge between two ideas
//   - Highlight: A colour bound to an anchor
//   - IdeaAnchor: A link between an idea and an anchor
//
// It also holds the invariant validators that gate every write to the
// idea and relation collections.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
