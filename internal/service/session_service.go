package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/liliang-cn/alfred/internal/repository"
	"go.uber.org/zap"
)

// SessionService owns per-browser session state
type SessionService struct {
	sessionRepo *repository.SessionRepository
	logger      *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo *repository.SessionRepository, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Ensure returns the session with the given ID, creating a fresh one with
// default state when id is empty or unknown. created reports the latter.
func (s *SessionService) Ensure(ctx context.Context, id string) (session *domain.Session, created bool, err error) {
	if id != "" {
		session, err = s.sessionRepo.Get(id)
		if err != nil {
			return nil, false, err
		}
		if session != nil {
			return session, false, nil
		}
	}

	session = domain.NewSession("")
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, false, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Debug("Session created", zap.String("session_id", session.ID))
	return session, true, nil
}

// Get returns a session or domain.ErrNotFound
func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.sessionRepo.Get(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

// SetUserName records the name entered on the welcome page
func (s *SessionService) SetUserName(ctx context.Context, id, name string) (*domain.Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}
	if err := s.sessionRepo.SetUserName(id, name); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// SetTone changes the response tone used for subsequent completions
func (s *SessionService) SetTone(ctx context.Context, id string, tone domain.Tone) (*domain.Session, error) {
	if !tone.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedTone, tone)
	}
	if err := s.sessionRepo.SetTone(id, tone); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// VisitPage records page as the session's current page
func (s *SessionService) VisitPage(ctx context.Context, id string, page domain.Page) error {
	if !page.Valid() {
		return fmt.Errorf("%w: unknown page %q", domain.ErrInvalidRequest, page)
	}
	return s.sessionRepo.SetCurrentPage(id, page)
}

// PurgeIdle deletes sessions not updated within idle
func (s *SessionService) PurgeIdle(ctx context.Context, idle time.Duration) (int64, error) {
	n, err := s.sessionRepo.DeleteIdle(time.Now().UTC().Add(-idle))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Purged idle sessions", zap.Int64("count", n))
	}
	return n, nil
}

// RunJanitor purges idle sessions every interval until ctx is done
func (s *SessionService) RunJanitor(ctx context.Context, idle, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PurgeIdle(ctx, idle); err != nil {
				s.logger.Warn("Failed to purge idle sessions", zap.Error(err))
			}
		}
	}
}
