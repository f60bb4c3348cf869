// Package file stores margin's settings in a TOML file.
//
// The file lives at config.toml inside the margin home directory, which is
// ~/.margin unless MARGIN_HOME points elsewhere. Keys are dotted paths such
// as "highlight.color" and map onto TOML tables.
package file
