package nlp

import (
	"path/filepath"
	"testing"

	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProseRecognizerEmbeddedModel(t *testing.T) {
	r, err := NewProseRecognizer("")
	require.NoError(t, err)

	entities, err := r.Entities("Bruce Wayne flew from Gotham to London on Monday. Bruce Wayne then met Lucius Fox.")
	require.NoError(t, err)
	for _, e := range entities {
		assert.NotEmpty(t, e.Text)
		assert.NotEmpty(t, e.Label)
		assert.Empty(t, e.Color)
	}
}

func TestProseRecognizerMissingModel(t *testing.T) {
	_, err := NewProseRecognizer(filepath.Join(t.TempDir(), "en_core_web_sm"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NER model not found")
}

func TestAnnotate(t *testing.T) {
	in := []domain.Entity{
		{Text: "Alfred", Label: "PERSON"},
		{Text: "Gotham", Label: "GPE"},
		{Text: "Alfred", Label: "PERSON"},
		{Text: "Wayne Enterprises", Label: "NORP"},
	}

	out := Annotate(in)
	require.Len(t, out, 4)
	assert.Equal(t, []string{"orange", "darkgreen", "orange", "black"},
		[]string{out[0].Color, out[1].Color, out[2].Color, out[3].Color})
	assert.Empty(t, in[0].Color, "input is not modified")
}

func TestVaderAnalyzer(t *testing.T) {
	a := NewVaderAnalyzer()

	pos, err := a.Analyze("I love this wonderful, excellent butler. What a great day!")
	require.NoError(t, err)
	assert.Greater(t, pos.Polarity, 0.0)
	assert.Greater(t, pos.Subjectivity, 0.0)

	neg, err := a.Analyze("This is a terrible, horrible and awful failure.")
	require.NoError(t, err)
	assert.Less(t, neg.Polarity, 0.0)

	for _, s := range []domain.Sentiment{pos, neg} {
		assert.GreaterOrEqual(t, s.Polarity, -1.0)
		assert.LessOrEqual(t, s.Polarity, 1.0)
		assert.GreaterOrEqual(t, s.Subjectivity, 0.0)
		assert.LessOrEqual(t, s.Subjectivity, 1.0)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, clamp(1.5, -1, 1))
	assert.Equal(t, -1.0, clamp(-3, -1, 1))
	assert.Equal(t, 0.25, clamp(0.25, 0, 1))
}
