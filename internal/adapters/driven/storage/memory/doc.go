// Package memory provides in-memory implementations of the driven storage
// ports. Data lives for the lifetime of the process; the stores back tests
// and the --ephemeral CLI mode.
package memory
