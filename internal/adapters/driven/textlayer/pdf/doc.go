// Package pdf implements driven.TextLayer by extracting positioned text
// from PDF files with github.com/ledongthuc/pdf.
//
// Glyph rectangles are reported in PDF user-space units with the origin
// moved to the top-left corner of the page, matching the orientation of
// rendered viewports.
package pdf
