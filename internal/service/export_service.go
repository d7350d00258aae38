package service

import (
	"context"

	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/liliang-cn/alfred/internal/export"
)

// ExportService builds the download links offered by the settings and PDF pages
type ExportService struct {
	chat     *ChatService
	analysis *AnalysisService
}

// NewExportService creates a new export service
func NewExportService(chat *ChatService, analysis *AnalysisService) *ExportService {
	return &ExportService{chat: chat, analysis: analysis}
}

// Conversation returns the general conversation as conversation_history.json
func (s *ExportService) Conversation(ctx context.Context, sessionID string) (domain.DataLink, error) {
	messages, err := s.chat.Messages(ctx, sessionID, domain.ConversationGeneral)
	if err != nil {
		return domain.DataLink{}, err
	}
	return export.ConversationLink(messages)
}

// Entities returns the PDF's entity table as named_entities.csv
func (s *ExportService) Entities(ctx context.Context, sessionID string) (domain.DataLink, error) {
	entities, err := s.analysis.Entities(ctx, sessionID)
	if err != nil {
		return domain.DataLink{}, err
	}
	return export.EntitiesLink(entities)
}
