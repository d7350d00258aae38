package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/liliang-cn/alfred/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	mu     sync.Mutex
	answer string
	err    error
	calls  [][]domain.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type stubRecognizer struct {
	entities []domain.Entity
	err      error
	calls    int
}

func (s *stubRecognizer) Entities(text string) ([]domain.Entity, error) {
	s.calls++
	return s.entities, s.err
}

type stubSentiment struct {
	result domain.Sentiment
	err    error
}

func (s *stubSentiment) Analyze(text string) (domain.Sentiment, error) {
	return s.result, s.err
}

var errBoom = errors.New("connection refused")

type fixture struct {
	repo      *repository.SessionRepository
	sessions  *SessionService
	chat      *ChatService
	analysis  *AnalysisService
	exports   *ExportService
	completer *fakeCompleter
	ner       *stubRecognizer
	sentiment *stubSentiment
}

func newFixture(t *testing.T, debounce time.Duration) *fixture {
	t.Helper()

	db, err := repository.NewDB(repository.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zap.NewNop()
	f := &fixture{
		repo:      repository.NewSessionRepository(db),
		completer: &fakeCompleter{answer: "At your service."},
		ner:       &stubRecognizer{},
		sentiment: &stubSentiment{},
	}
	f.sessions = NewSessionService(f.repo, log)
	f.chat = NewChatService(f.repo, f.completer, debounce, log)
	f.analysis = NewAnalysisService(f.repo, f.ner, f.sentiment, time.Hour, log)
	f.exports = NewExportService(f.chat, f.analysis)
	return f
}

func (f *fixture) newSession(t *testing.T) *domain.Session {
	t.Helper()
	session, created, err := f.sessions.Ensure(context.Background(), "")
	require.NoError(t, err)
	require.True(t, created)
	return session
}
