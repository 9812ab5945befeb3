package nginx

import (
	"strings"
)

// Block is the literal span of one brace-delimited configuration unit.
// It lives for the duration of a single parse pass and is never
// persisted.
type Block struct {
	Keyword  string // "server" or "location"
	Selector string // location path or pattern, empty for server blocks
	Start    int    // byte offset of the keyword in the scanned text
	End      int    // byte offset one past the closing brace
	Body     string // text between the braces, exclusive
}

// Text returns the full literal span including keyword and braces.
func (b Block) Text(source string) string {
	if b.Start < 0 || b.End > len(source) || b.Start >= b.End {
		return ""
	}
	return source[b.Start:b.End]
}

// ExtractBlocks scans text for top-level blocks opened by keyword and
// returns their spans. The keyword must appear as a whole token: the
// following byte has to be whitespace or '{', which rejects matches
// inside longer identifiers such as "server_name". Brace depth is
// tracked character by character, with no awareness of braces inside
// string literals or comments.
//
// A block whose braces never balance before end of text is dropped
// silently and scanning resumes after the keyword, so the well-formed
// blocks around it still come back.
func ExtractBlocks(text, keyword string) []Block {
	var blocks []Block
	klen := len(keyword)
	pos := 0

	for pos < len(text) {
		idx := strings.Index(text[pos:], keyword)
		if idx < 0 {
			break
		}
		start := pos + idx

		if !isTokenBoundary(text, start, klen) {
			pos = start + klen
			continue
		}

		// Skip whitespace between the keyword and the opening brace,
		// capturing the selector text for location blocks.
		cur := start + klen
		for cur < len(text) && text[cur] != '{' && text[cur] != ';' && text[cur] != '}' {
			cur++
		}
		if cur >= len(text) || text[cur] != '{' {
			// A directive that merely starts with the keyword, or
			// truncated text. Not a block.
			pos = start + klen
			continue
		}

		selector := strings.TrimSpace(text[start+klen : cur])

		bodyStart := cur + 1
		depth := 1
		cur++
		for cur < len(text) && depth > 0 {
			switch text[cur] {
			case '{':
				depth++
			case '}':
				depth--
			}
			cur++
		}

		if depth != 0 {
			// Unbalanced braces: drop this block, keep scanning.
			pos = start + klen
			continue
		}

		blocks = append(blocks, Block{
			Keyword:  keyword,
			Selector: selector,
			Start:    start,
			End:      cur,
			Body:     text[bodyStart : cur-1],
		})
		pos = cur
	}

	return blocks
}

// ExtractLocations runs the block scan over a server block's interior
// with the "location" keyword, capturing each selector.
func ExtractLocations(serverBody string) []Block {
	return ExtractBlocks(serverBody, "location")
}

// isTokenBoundary reports whether text[start:start+klen] stands alone as
// a token: not preceded or followed by an identifier character.
func isTokenBoundary(text string, start, klen int) bool {
	if start > 0 && isIdentChar(text[start-1]) {
		return false
	}
	end := start + klen
	if end < len(text) && text[end] != '{' && !isSpace(text[end]) {
		return false
	}
	if end >= len(text) {
		return false
	}
	return true
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
