// Package textnorm holds the pure text transforms shared by the importer, the
// editor save path and the duplicate check. Nothing here performs I/O.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	breakTagRe      = regexp.MustCompile(`(?i)<br\b[^>]*>`)
	blockCloseTagRe = regexp.MustCompile(`(?i)</(?:p|div|h[1-6]|li|ul|ol|tr|td)\s*>`)
	anyTagRe        = regexp.MustCompile(`<[^>]*>`)
	horizontalWSRe  = regexp.MustCompile(`[ \t]+`)
	newlineRunRe    = regexp.MustCompile(`\s*\n\s*`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// StripHTML converts an HTML fragment to plain text, keeping paragraph
// boundaries as a single blank line.
//
// Line breaks and the closing tags of block elements become newlines, every
// other tag is dropped, entities are decoded and whitespace is collapsed so
// that at most one blank line separates two paragraphs.
//
// Entities are decoded after tags are removed, so entity-encoded markup such
// as "&lt;b&gt;" comes out as a literal tag. StripHTML is idempotent only on
// input whose decoded text holds no tags.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	s = breakTagRe.ReplaceAllString(s, "\n")
	s = blockCloseTagRe.ReplaceAllString(s, "\n")
	s = anyTagRe.ReplaceAllString(s, "")
	s = DecodeEntities(s)
	s = horizontalWSRe.ReplaceAllString(s, " ")
	s = newlineRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// StripTags replaces every tag with a space, decodes entities and collapses
// all whitespace (newlines included) to single spaces.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	s = anyTagRe.ReplaceAllString(s, " ")
	s = DecodeEntities(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// DecodeEntities decodes named and numeric character references.
// Non-breaking spaces come back as plain spaces so later whitespace
// collapsing treats them like any other blank.
func DecodeEntities(s string) string {
	if strings.Contains(s, "&") {
		s = html.UnescapeString(s)
	}
	return strings.ReplaceAll(s, "\u00a0", " ")
}

// CollapseSpaces joins the whitespace separated fields of s with single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
