package sections

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"postforge/internal/core"
)

// Block-level tags recognized as section boundaries, checked in document
// order against the outermost open tag.
var blockTags = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	"figure", "blockquote", "table", "ul", "ol", "p", "div",
}

var (
	openTagPattern = regexp.MustCompile(`(?i)<([a-z][a-z0-9]*)(\s[^>]*)?>`)
	imgTagPattern  = regexp.MustCompile(`(?i)<img[\s>]`)
	anyTagPattern  = regexp.MustCompile(`<[^>]*>`)
	headingTags    = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}
)

// Split scans the processed HTML for top-level block elements and returns
// them as ordered sections. Blocks with no visible text and no image are
// dropped; order indices are contiguous and zero-based. A document with no
// recognizable block at all becomes a single fallback section.
func Split(html string) []core.Section {
	var result []core.Section
	rest := html

	for {
		tag, start := nextBlockOpen(rest)
		if start < 0 {
			break
		}
		blockHTML, end := matchBalanced(rest[start:], tag)
		if end < 0 {
			// Unclosed block: take the remainder as one block.
			blockHTML = rest[start:]
			end = len(rest) - start
		}
		rest = rest[start+end:]

		block := strings.TrimSpace(blockHTML)
		if !visible(block) {
			continue
		}
		result = append(result, core.Section{
			ID:         uuid.NewString(),
			OrderIndex: len(result),
			Type:       classify(tag, block),
			HTML:       block,
		})
	}

	if len(result) == 0 {
		trimmed := strings.TrimSpace(html)
		if trimmed == "" {
			return nil
		}
		return []core.Section{{
			ID:         uuid.NewString(),
			OrderIndex: 0,
			Type:       core.SectionParagraph,
			HTML:       trimmed,
		}}
	}
	return result
}

// nextBlockOpen finds the first block-level open tag, returning its tag
// name and byte offset, or -1 when none remains.
func nextBlockOpen(html string) (string, int) {
	offset := 0
	for {
		loc := openTagPattern.FindStringSubmatchIndex(html[offset:])
		if loc == nil {
			return "", -1
		}
		tag := strings.ToLower(html[offset+loc[2] : offset+loc[3]])
		if isBlockTag(tag) {
			return tag, offset + loc[0]
		}
		// Inline tag at top level: skip past it and keep scanning.
		offset += loc[1]
	}
}

func isBlockTag(tag string) bool {
	for _, t := range blockTags {
		if t == tag {
			return true
		}
	}
	return false
}

// matchBalanced returns the full element starting at the open tag,
// matching nested same-name tags, and the byte offset just past the close
// tag. Returns -1 when the element never closes.
func matchBalanced(html, tag string) (string, int) {
	lower := strings.ToLower(html)
	open := "<" + tag
	closeTag := "</" + tag + ">"
	depth := 0
	pos := 0

	for pos < len(lower) {
		nextOpen := indexTagAt(lower, open, pos)
		nextClose := strings.Index(lower[pos:], closeTag)
		if nextClose < 0 {
			return "", -1
		}
		nextClose += pos

		if nextOpen >= 0 && nextOpen < nextClose {
			depth++
			pos = nextOpen + len(open)
			continue
		}
		depth--
		pos = nextClose + len(closeTag)
		if depth == 0 {
			return html[:pos], pos
		}
	}
	return "", -1
}

// indexTagAt finds an occurrence of the open tag prefix that is a real tag
// boundary (followed by space, > or /), from pos.
func indexTagAt(lower, open string, pos int) int {
	for {
		idx := strings.Index(lower[pos:], open)
		if idx < 0 {
			return -1
		}
		idx += pos
		after := idx + len(open)
		if after >= len(lower) {
			return -1
		}
		switch lower[after] {
		case ' ', '>', '\t', '\n', '/':
			return idx
		}
		pos = after
	}
}

// classify types a block by its outermost tag, then by its content.
func classify(tag, html string) core.SectionType {
	switch {
	case headingTags[tag]:
		return core.SectionHeading
	case imgTagPattern.MatchString(html):
		return core.SectionImage
	case tag == "ul" || tag == "ol" || strings.Contains(strings.ToLower(html), "<li"):
		return core.SectionList
	case tag == "table":
		return core.SectionTable
	case tag == "blockquote" || strings.Contains(html, `class="quote-box"`):
		return core.SectionQuote
	default:
		return core.SectionParagraph
	}
}

// visible reports whether the block has text content or an image.
func visible(html string) bool {
	if imgTagPattern.MatchString(html) {
		return true
	}
	text := strings.TrimSpace(anyTagPattern.ReplaceAllString(html, ""))
	return text != ""
}
