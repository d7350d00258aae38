package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/liliang-cn/alfred/internal/nlp"
	"github.com/liliang-cn/alfred/internal/pdftext"
	"github.com/liliang-cn/alfred/internal/repository"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// DetectFileType detects file type from filename
func DetectFileType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return domain.FileTypePDF
	case "":
		return ""
	default:
		return ext[1:]
	}
}

// IsSupported checks if file type is supported
func IsSupported(fileType string) bool {
	return fileType == domain.FileTypePDF
}

// AnalysisService extracts and analyses the session's uploaded PDF
type AnalysisService struct {
	sessionRepo *repository.SessionRepository
	recognizer  nlp.Recognizer
	sentiment   nlp.SentimentAnalyzer
	entities    *cache.Cache
	logger      *zap.Logger
}

// NewAnalysisService creates a new analysis service. Entity lists are
// cached per upload for cacheTTL; a non-positive cacheTTL disables the cache.
func NewAnalysisService(
	sessionRepo *repository.SessionRepository,
	recognizer nlp.Recognizer,
	sentiment nlp.SentimentAnalyzer,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AnalysisService {
	s := &AnalysisService{
		sessionRepo: sessionRepo,
		recognizer:  recognizer,
		sentiment:   sentiment,
		logger:      logger,
	}
	if cacheTTL > 0 {
		s.entities = cache.New(cacheTTL, 10*time.Minute)
	}
	return s
}

// Upload extracts the text of an uploaded PDF and makes it the session's
// current document. The previous document is kept when extraction fails.
func (s *AnalysisService) Upload(ctx context.Context, sessionID string, file *multipart.FileHeader) (*domain.UploadResponse, error) {
	if file == nil {
		return nil, fmt.Errorf("%w: no file uploaded", domain.ErrInvalidRequest)
	}

	fileType := DetectFileType(file.Filename)
	if !IsSupported(fileType) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFile, fileType)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return s.UploadBytes(ctx, sessionID, file.Filename, data)
}

// UploadBytes is Upload for an already buffered file
func (s *AnalysisService) UploadBytes(ctx context.Context, sessionID, filename string, data []byte) (*domain.UploadResponse, error) {
	text, err := pdftext.ExtractBytes(data)
	if err != nil {
		s.logger.Warn("PDF extraction failed",
			zap.String("session_id", sessionID),
			zap.String("filename", filename),
			zap.Error(err),
		)
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("%w: no extractable text", domain.ErrUnreadablePDF)
	}

	pdfID := uuid.New().String()
	if err := s.sessionRepo.SetPDF(sessionID, pdfID, filename, text); err != nil {
		return nil, err
	}

	s.logger.Info("PDF extracted",
		zap.String("session_id", sessionID),
		zap.String("pdf_id", pdfID),
		zap.String("filename", filename),
		zap.Int("text_bytes", len(text)),
	)

	return &domain.UploadResponse{
		PDFID:     pdfID,
		Filename:  filename,
		TextBytes: len(text),
	}, nil
}

// Text returns the extracted text of the session's PDF
func (s *AnalysisService) Text(ctx context.Context, sessionID string) (string, error) {
	session, err := s.current(sessionID)
	if err != nil {
		return "", err
	}
	return session.PDFText, nil
}

// Search finds every case-insensitive occurrence of query in the PDF text
func (s *AnalysisService) Search(ctx context.Context, sessionID, query string) (*domain.SearchResponse, error) {
	session, err := s.current(sessionID)
	if err != nil {
		return nil, err
	}
	hits := pdftext.SearchHits(session.PDFText, query)
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	return &domain.SearchResponse{Query: query, Hits: hits}, nil
}

// Entities returns the colored named entities of the PDF in document order
func (s *AnalysisService) Entities(ctx context.Context, sessionID string) ([]domain.Entity, error) {
	session, err := s.current(sessionID)
	if err != nil {
		return nil, err
	}

	key := "entities:" + session.PDFID
	if s.entities != nil {
		if cached, ok := s.entities.Get(key); ok {
			return cached.([]domain.Entity), nil
		}
	}

	found, err := s.recognizer.Entities(session.PDFText)
	if err != nil {
		s.logger.Error("Entity extraction failed", zap.String("pdf_id", session.PDFID), zap.Error(err))
		return nil, err
	}

	annotated := nlp.Annotate(found)
	if s.entities != nil {
		s.entities.Set(key, annotated, cache.DefaultExpiration)
	}
	return annotated, nil
}

// Sentiment scores the PDF text
func (s *AnalysisService) Sentiment(ctx context.Context, sessionID string) (*domain.Sentiment, error) {
	session, err := s.current(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.sentiment.Analyze(session.PDFText)
	if err != nil {
		s.logger.Error("Sentiment analysis failed", zap.String("pdf_id", session.PDFID), zap.Error(err))
		return nil, err
	}
	return &result, nil
}

func (s *AnalysisService) current(sessionID string) (*domain.Session, error) {
	session, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	if !session.HasPDF() {
		return nil, domain.ErrNoPDF
	}
	return session, nil
}
