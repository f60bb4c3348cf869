// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - IdeaStore: Idea persistence
//   - AnchorStore: Anchor persistence
//   - RelationStore: Relation persistence
//   - HighlightStore: Highlight persistence
//   - IdeaAnchorStore: Idea to anchor link persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - TextLayer: Page text extraction. Without it, anchors cannot be relocated
//     when a source document changes.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
