package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/liliang-cn/alfred/internal/llm"
	"github.com/liliang-cn/alfred/internal/repository"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// ChatService handles both conversations of a session
type ChatService struct {
	sessionRepo *repository.SessionRepository
	completer   llm.Completer
	logger      *zap.Logger

	debounce time.Duration
	recent   *cache.Cache
}

// NewChatService creates a new chat service. A positive debounce rejects
// an identical question repeated within that window.
func NewChatService(
	sessionRepo *repository.SessionRepository,
	completer llm.Completer,
	debounce time.Duration,
	logger *zap.Logger,
) *ChatService {
	s := &ChatService{
		sessionRepo: sessionRepo,
		completer:   completer,
		logger:      logger,
		debounce:    debounce,
	}
	if debounce > 0 {
		s.recent = cache.New(debounce, 2*debounce)
	}
	return s
}

// Ask sends question to the completion endpoint and records the exchange.
// The interaction counter is incremented even when the call fails.
func (s *ChatService) Ask(ctx context.Context, sessionID string, kind domain.ConversationKind, question string) (_ *domain.ChatResponse, retErr error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown conversation %q", domain.ErrInvalidRequest, kind)
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", domain.ErrInvalidRequest)
	}

	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}

	var pdfContext string
	if kind == domain.ConversationPDF {
		if !session.HasPDF() {
			return nil, domain.ErrNoPDF
		}
		pdfContext = session.PDFText
	}

	if s.recent != nil {
		key := strings.Join([]string{sessionID, string(kind), question}, "\x00")
		if err := s.recent.Add(key, struct{}{}, cache.DefaultExpiration); err != nil {
			return nil, domain.ErrDuplicateSubmission
		}
		// Only a recorded exchange counts as a submission; failures may be retried.
		defer func() {
			if retErr != nil {
				s.recent.Delete(key)
			}
		}()
	}

	count, err := s.sessionRepo.IncrementInteractions(sessionID)
	if err != nil {
		return nil, err
	}

	messages := domain.BuildCompletionMessages(session.ResponseTone, question, pdfContext)
	answer, err := s.completer.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("Completion failed",
			zap.String("session_id", sessionID),
			zap.String("conversation", string(kind)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}

	if err := s.sessionRepo.AppendExchange(sessionID, kind, question, answer); err != nil {
		return nil, err
	}

	return &domain.ChatResponse{
		SessionID:        sessionID,
		Conversation:     kind,
		Answer:           answer,
		InteractionCount: count,
	}, nil
}

// Messages returns a conversation, system message first
func (s *ChatService) Messages(ctx context.Context, sessionID string, kind domain.ConversationKind) ([]domain.Message, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown conversation %q", domain.ErrInvalidRequest, kind)
	}
	return s.sessionRepo.GetMessages(sessionID, kind)
}

// Clear resets a conversation to its system message. Clearing the general
// conversation also resets the interaction counter.
func (s *ChatService) Clear(ctx context.Context, sessionID string, kind domain.ConversationKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown conversation %q", domain.ErrInvalidRequest, kind)
	}
	if err := s.sessionRepo.ResetConversation(sessionID, kind); err != nil {
		return err
	}
	if kind == domain.ConversationGeneral {
		return s.sessionRepo.ResetInteractions(sessionID)
	}
	return nil
}
