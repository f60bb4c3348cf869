// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - IdeaStore: Idea persistence
//   - AnchorStore: Anchor persistence, rects stored as JSON
//   - RelationStore: Relation persistence
//   - HighlightStore: Highlight persistence
//   - IdeaAnchorStore: Idea to anchor links, unique per pair
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Ordering
//
// List operations return rows in insertion order (rowid). Upserts keep the
// original rowid, so re-saving an entity does not move it.
//
// # Data Location
//
// By default, the database is stored at ~/.margin/data/margin.db
package sqlite
