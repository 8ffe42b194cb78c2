// Package buffer implements the value model behind form-control surfaces.
//
// A Buffer holds grapheme-accurate text, a caret and an optional selection.
// Coordinates are 0-based (Row, GraphemeCol) in grapheme clusters.
// Ranges are half-open selections in document coordinates: [Start, End).
// Flat offsets count grapheme clusters with each line break as one unit.
package buffer
