package pdftext

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/liliang-cn/alfred/internal/pdftext/pdftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeWhitespace("a\n\n  b\tc"))
	assert.Equal(t, " lead and trail ", NormalizeWhitespace("\t lead   and\r\ntrail \n"))
	assert.Equal(t, "", NormalizeWhitespace(""))
}

func TestJoinPages(t *testing.T) {
	assert.Equal(t, "first page second page", JoinPages([]string{"\nfirst\n page", "", "  ", "second   page\n"}))
	assert.Equal(t, "", JoinPages(nil))
}

func TestExtract(t *testing.T) {
	data := pdftest.Build("Hello    World", "", "Second page")

	text, err := ExtractBytes(data)
	require.NoError(t, err)
	assert.Equal(t, "Hello World Second page", text)
}

func TestExtractRejectsNonPDF(t *testing.T) {
	_, err := ExtractBytes([]byte("this is just a plain text file, certainly not a PDF document at all....................................."))
	assert.ErrorIs(t, err, domain.ErrUnreadablePDF)

	_, err = ExtractBytes([]byte("%PDF-1.4\ntruncated"))
	assert.ErrorIs(t, err, domain.ErrUnreadablePDF)
}

func TestSearch(t *testing.T) {
	text := "Alfred met alfred. ALFRED left."
	assert.Equal(t, []int{0, 11, 19}, Search(text, "alfred"))
	assert.Empty(t, Search(text, "batman"))
	assert.Empty(t, Search(text, ""))

	// Matches are non-overlapping, scanning left to right.
	assert.Equal(t, []int{0, 2}, Search("aaaa", "aa"))
	assert.Equal(t, []int{0, 2, 4}, Search("ababab", "AB"))

	// Regex metacharacters are literal.
	assert.Equal(t, []int{5}, Search("cost $5.00 (net)", "$5.00"))
	assert.Equal(t, []int{11}, Search("cost $5.00 (net)", "(net)"))
}

func TestSearchHitsSnippets(t *testing.T) {
	text := strings.Repeat("x", 40) + "needle" + strings.Repeat("y", 40)
	hits := SearchHits(text, "NEEDLE")
	require.Len(t, hits, 1)
	assert.Equal(t, 40, hits[0].Offset)
	assert.Equal(t, strings.Repeat("x", 30)+"needle"+strings.Repeat("y", 24), hits[0].Snippet)

	short := SearchHits("needle at start", "needle")
	require.Len(t, short, 1)
	assert.Equal(t, "needle at start", short[0].Snippet)
}

func TestSearchCountsCharacters(t *testing.T) {
	assert.Equal(t, []int{18}, Search("Café naïve résumé target", "target"))
	assert.Equal(t, []int{0, 6}, Search("ÉCOLE école", "école"))
}

func TestSnippetWindowIsCharacters(t *testing.T) {
	text := strings.Repeat("日", 40) + "target" + strings.Repeat("本", 40)
	hits := SearchHits(text, "target")
	require.Len(t, hits, 1)
	assert.Equal(t, 40, hits[0].Offset)

	want := strings.Repeat("日", 30) + "target" + strings.Repeat("本", 24)
	assert.Equal(t, want, hits[0].Snippet)
	assert.Equal(t, 60, utf8.RuneCountInString(hits[0].Snippet))
	assert.Equal(t, want, Snippet(text, 40))

	short := strings.Repeat("é", 20) + "a" + "target"
	assert.Equal(t, short, Snippet(short, Search(short, "target")[0]))
}
