// Package export serializes conversations and entity tables into
// downloadable base64 data links.
package export

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/liliang-cn/alfred/internal/domain"
)

// Download artifacts
const (
	ConversationFilename = "conversation_history.json"
	ConversationMIME     = "file/json"
	EntitiesFilename     = "named_entities.csv"
	EntitiesMIME         = "file/csv"
)

// ConversationJSON renders messages, system message included, as
// two-space-indented JSON
func ConversationJSON(messages []domain.Message) ([]byte, error) {
	if messages == nil {
		messages = []domain.Message{}
	}
	return json.MarshalIndent(messages, "", "  ")
}

// EntitiesCSV renders the entity table with an Entity,Type,Color header
func EntitiesCSV(entities []domain.Entity) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Entity", "Type", "Color"}); err != nil {
		return nil, err
	}
	for _, e := range entities {
		if err := w.Write([]string{e.Text, e.Label, e.Color}); err != nil {
			return nil, err
		}
	}
	w.Flush()

	return buf.Bytes(), w.Error()
}

// NewDataLink wraps payload in a base64 data URL
func NewDataLink(mime, filename string, payload []byte) domain.DataLink {
	return domain.DataLink{
		Filename: filename,
		Href:     fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(payload)),
	}
}

// DecodeDataLink returns the payload of a base64 data URL
func DecodeDataLink(href string) ([]byte, error) {
	if !strings.HasPrefix(href, "data:") {
		return nil, fmt.Errorf("not a data link")
	}
	_, encoded, ok := strings.Cut(href, ";base64,")
	if !ok {
		return nil, fmt.Errorf("data link is not base64 encoded")
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// ConversationLink is the conversation_history.json download
func ConversationLink(messages []domain.Message) (domain.DataLink, error) {
	payload, err := ConversationJSON(messages)
	if err != nil {
		return domain.DataLink{}, fmt.Errorf("encode conversation: %w", err)
	}
	return NewDataLink(ConversationMIME, ConversationFilename, payload), nil
}

// EntitiesLink is the named_entities.csv download
func EntitiesLink(entities []domain.Entity) (domain.DataLink, error) {
	payload, err := EntitiesCSV(entities)
	if err != nil {
		return domain.DataLink{}, fmt.Errorf("encode entities: %w", err)
	}
	return NewDataLink(EntitiesMIME, EntitiesFilename, payload), nil
}
