// Package nlp wraps the pretrained language models used for PDF analysis:
// a named-entity recognizer and a lexicon-based sentiment analyzer.
package nlp

import (
	"fmt"
	"os"

	"github.com/jdkato/prose/v2"
	"github.com/liliang-cn/alfred/internal/domain"
)

// Recognizer finds named entities in text
type Recognizer interface {
	Entities(text string) ([]domain.Entity, error)
}

// ProseRecognizer runs prose's averaged-perceptron NER model
type ProseRecognizer struct {
	model *prose.Model
}

var _ Recognizer = (*ProseRecognizer)(nil)

// NewProseRecognizer loads the NER model. An empty modelDir selects the model
// embedded in prose; otherwise the directory must hold a model saved by prose.
func NewProseRecognizer(modelDir string) (r *ProseRecognizer, err error) {
	if modelDir == "" {
		return &ProseRecognizer{}, nil
	}

	info, err := os.Stat(modelDir)
	if err != nil {
		return nil, fmt.Errorf("NER model not found at %s: %w", modelDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("NER model path %s is not a directory", modelDir)
	}

	// prose panics on unreadable model files.
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = fmt.Errorf("failed to load NER model from %s: %v", modelDir, rec)
		}
	}()

	return &ProseRecognizer{model: prose.ModelFromDisk(modelDir)}, nil
}

// Entities returns every recognized span in document order, duplicates included
func (p *ProseRecognizer) Entities(text string) (entities []domain.Entity, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			entities = nil
			err = fmt.Errorf("%w: entity extraction: %v", domain.ErrAnalysisFailed, rec)
		}
	}()

	opts := []prose.DocOpt{}
	if p.model != nil {
		opts = append(opts, prose.UsingModel(p.model))
	}

	doc, err := prose.NewDocument(text, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: entity extraction: %v", domain.ErrAnalysisFailed, err)
	}

	for _, ent := range doc.Entities() {
		entities = append(entities, domain.Entity{Text: ent.Text, Label: ent.Label})
	}
	return entities, nil
}

// Annotate sets the display color of every entity from its label
func Annotate(entities []domain.Entity) []domain.Entity {
	out := make([]domain.Entity, len(entities))
	for i, e := range entities {
		e.Color = domain.ColorFor(e.Label)
		out[i] = e
	}
	return out
}
