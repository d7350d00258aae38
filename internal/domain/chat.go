package domain

import (
	"fmt"
	"time"
)

// AssistantName is how Alfred introduces itself and labels its replies
const AssistantName = "Alfred AI"

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationKind selects one of the two conversations a session holds
type ConversationKind string

const (
	ConversationGeneral ConversationKind = "general"
	ConversationPDF     ConversationKind = "pdf"
)

// Valid reports whether k names a known conversation
func (k ConversationKind) Valid() bool {
	return k == ConversationGeneral || k == ConversationPDF
}

// SystemPrompt is the fixed first message of a conversation of kind k
func (k ConversationKind) SystemPrompt() string {
	if k == ConversationPDF {
		return "You are a helpful assistant named Alfred AI. Your task is to answer questions based on the provided PDF content."
	}
	return "You are a helpful assistant named Alfred AI."
}

// ParseConversationKind converts a path segment into a ConversationKind
func ParseConversationKind(s string) (ConversationKind, error) {
	k := ConversationKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown conversation %q", ErrInvalidRequest, s)
	}
	return k, nil
}

// Message represents a chat message.
// Only role and content are exported, so a conversation serialises
// to the same shape that is sent to the completion endpoint.
type Message struct {
	ID           string           `json:"-"`
	SessionID    string           `json:"-"`
	Conversation ConversationKind `json:"-"`
	Role         string           `json:"role"`
	Content      string           `json:"content"`
	CreatedAt    time.Time        `json:"-"`
}

// InitialConversation returns the single-message state of a conversation
func InitialConversation(kind ConversationKind) []Message {
	return []Message{{Conversation: kind, Role: RoleSystem, Content: kind.SystemPrompt()}}
}

// BuildCompletionMessages builds the two-message request sent for a question.
// When context is non-empty it is prepended to the question.
func BuildCompletionMessages(tone Tone, question, context string) []Message {
	userContent := question
	if context != "" {
		userContent = fmt.Sprintf("%s\n\nUser's question: %s", context, question)
	}
	return []Message{
		{Role: RoleSystem, Content: fmt.Sprintf("You are a helpful assistant named Alfred AI. %s", tone.Instruction())},
		{Role: RoleUser, Content: userContent},
	}
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatResponse is the response from a chat message
type ChatResponse struct {
	SessionID        string           `json:"session_id"`
	Conversation     ConversationKind `json:"conversation"`
	Answer           string           `json:"answer"`
	InteractionCount int              `json:"interaction_count"`
}

// ConversationResponse lists a conversation's messages
type ConversationResponse struct {
	Conversation ConversationKind `json:"conversation"`
	Messages     []Message        `json:"messages"`
}
