package pdftext

import (
	"regexp"
	"unicode/utf8"

	"github.com/liliang-cn/alfred/internal/domain"
)

// SnippetRadius is how many characters of context surround a hit on each side
const SnippetRadius = 30

// Search returns the character (rune) offset of every case-insensitive,
// non-overlapping occurrence of query in text, scanning left to right.
// An empty query matches nothing.
func Search(text, query string) []int {
	if query == "" {
		return nil
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))

	matches := re.FindAllStringIndex(text, -1)
	offsets := make([]int, len(matches))
	prev, runes := 0, 0
	for i, m := range matches {
		runes += utf8.RuneCountInString(text[prev:m[0]])
		prev = m[0]
		offsets[i] = runes
	}
	return offsets
}

// SearchHits is Search with a snippet of surrounding text for each hit
func SearchHits(text, query string) []domain.SearchHit {
	offsets := Search(text, query)
	if len(offsets) == 0 {
		return []domain.SearchHit{}
	}

	runes := []rune(text)
	hits := make([]domain.SearchHit, len(offsets))
	for i, off := range offsets {
		hits[i] = domain.SearchHit{Offset: off, Snippet: snippet(runes, off)}
	}
	return hits
}

// Snippet returns the characters from off-SnippetRadius to off+SnippetRadius,
// clamped to the text. off is a rune offset as returned by Search.
func Snippet(text string, off int) string {
	return snippet([]rune(text), off)
}

func snippet(runes []rune, off int) string {
	start := off - SnippetRadius
	if start < 0 {
		start = 0
	}
	end := off + SnippetRadius
	if end > len(runes) {
		end = len(runes)
	}
	if start > end {
		start = end
	}
	return string(runes[start:end])
}
