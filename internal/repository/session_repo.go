package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/liliang-cn/alfred/internal/domain"
)

// SessionRepository handles session and conversation persistence
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session together with the initial system message
// of each conversation
func (r *SessionRepository) Create(session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.ResponseTone == "" {
		session.ResponseTone = domain.ToneNeutral
	}
	if session.CurrentPage == "" {
		session.CurrentPage = domain.PageWelcome
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sessions (id, user_name, response_tone, interaction_count, current_page,
			pdf_id, pdf_filename, pdf_text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.UserName, string(session.ResponseTone), session.InteractionCount,
		string(session.CurrentPage), session.PDFID, session.PDFFilename, session.PDFText,
		session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return err
	}

	for _, kind := range []domain.ConversationKind{domain.ConversationGeneral, domain.ConversationPDF} {
		if err := insertMessages(tx, session.ID, domain.InitialConversation(kind)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(id string) (*domain.Session, error) {
	session := &domain.Session{}
	var tone, page string

	err := r.db.QueryRow(`
		SELECT id, user_name, response_tone, interaction_count, current_page,
			pdf_id, pdf_filename, pdf_text, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id).Scan(&session.ID, &session.UserName, &tone, &session.InteractionCount, &page,
		&session.PDFID, &session.PDFFilename, &session.PDFText, &session.CreatedAt, &session.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session.ResponseTone = domain.Tone(tone)
	session.CurrentPage = domain.Page(page)
	return session, nil
}

// SetUserName stores the name entered on the welcome page
func (r *SessionRepository) SetUserName(id, name string) error {
	return r.update(id, `UPDATE sessions SET user_name = ?, updated_at = ? WHERE id = ?`, name)
}

// SetTone stores the selected response tone
func (r *SessionRepository) SetTone(id string, tone domain.Tone) error {
	return r.update(id, `UPDATE sessions SET response_tone = ?, updated_at = ? WHERE id = ?`, string(tone))
}

// SetCurrentPage stores the last visited page
func (r *SessionRepository) SetCurrentPage(id string, page domain.Page) error {
	return r.update(id, `UPDATE sessions SET current_page = ?, updated_at = ? WHERE id = ?`, string(page))
}

// SetPDF replaces the session's extracted PDF
func (r *SessionRepository) SetPDF(id, pdfID, filename, text string) error {
	res, err := r.db.Exec(`
		UPDATE sessions SET pdf_id = ?, pdf_filename = ?, pdf_text = ?, updated_at = ?
		WHERE id = ?
	`, pdfID, filename, text, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// IncrementInteractions bumps the interaction counter and returns the new value
func (r *SessionRepository) IncrementInteractions(id string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		UPDATE sessions SET interaction_count = interaction_count + 1, updated_at = ?
		WHERE id = ? RETURNING interaction_count
	`, time.Now().UTC(), id).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, domain.ErrNotFound
	}
	return count, err
}

// ResetInteractions sets the interaction counter back to zero
func (r *SessionRepository) ResetInteractions(id string) error {
	return r.update(id, `UPDATE sessions SET interaction_count = ?, updated_at = ? WHERE id = ?`, 0)
}

// AppendExchange appends a user message and the assistant reply in one transaction
func (r *SessionRepository) AppendExchange(sessionID string, kind domain.ConversationKind, question, answer string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	msgs := []domain.Message{
		{Conversation: kind, Role: domain.RoleUser, Content: question},
		{Conversation: kind, Role: domain.RoleAssistant, Content: answer},
	}
	if err := insertMessages(tx, sessionID, msgs); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE sessions SET updated_at = ? WHERE id = ?`, time.Now().UTC(), sessionID); err != nil {
		return err
	}

	return tx.Commit()
}

// GetMessages retrieves a conversation in insertion order
func (r *SessionRepository) GetMessages(sessionID string, kind domain.ConversationKind) ([]domain.Message, error) {
	rows, err := r.db.Query(`
		SELECT id, session_id, conversation, role, content, created_at
		FROM messages WHERE session_id = ? AND conversation = ?
		ORDER BY seq ASC
	`, sessionID, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var message domain.Message
		var conversation string
		if err := rows.Scan(&message.ID, &message.SessionID, &conversation,
			&message.Role, &message.Content, &message.CreatedAt); err != nil {
			return nil, err
		}
		message.Conversation = domain.ConversationKind(conversation)
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

// ResetConversation drops every message of a conversation and restores its system message
func (r *SessionRepository) ResetConversation(sessionID string, kind domain.ConversationKind) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ? AND conversation = ?`,
		sessionID, string(kind)); err != nil {
		return err
	}
	if err := insertMessages(tx, sessionID, domain.InitialConversation(kind)); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteIdle removes sessions not updated since before and returns how many were removed
func (r *SessionRepository) DeleteIdle(before time.Time) (int64, error) {
	res, err := r.db.Exec(`DELETE FROM sessions WHERE updated_at < ?`, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SessionRepository) update(id, query string, value any) error {
	res, err := r.db.Exec(query, value, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func insertMessages(tx *sql.Tx, sessionID string, msgs []domain.Message) error {
	now := time.Now().UTC()
	for _, m := range msgs {
		if _, err := tx.Exec(`
			INSERT INTO messages (id, session_id, conversation, role, content, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), sessionID, string(m.Conversation), m.Role, m.Content, now); err != nil {
			return fmt.Errorf("insert %s message: %w", m.Role, err)
		}
	}
	return nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
