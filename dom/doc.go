// Package dom is the host document the expander runs against.
//
// It wraps a golang.org/x/net/html node tree with the pieces a page
// provides to a content script: form controls backed by text buffers,
// contenteditable regions, a single-range selection, focus, and
// capture/bubble event dispatch.
//
// Offsets inside text nodes are byte offsets into Node.Data and always sit
// on rune boundaries. Offsets inside element nodes are child indexes.
package dom
