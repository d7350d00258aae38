package domain

import "time"

// Page is one of the four screens reachable from the sidebar
type Page string

const (
	PageWelcome  Page = "welcome"
	PageChat     Page = "chat"
	PagePDF      Page = "pdf"
	PageSettings Page = "settings"
)

// Pages lists the sidebar entries in display order
var Pages = []Page{PageWelcome, PageChat, PagePDF, PageSettings}

// Title returns the sidebar label for p
func (p Page) Title() string {
	switch p {
	case PageChat:
		return "General Chat"
	case PagePDF:
		return "PDF Analysis"
	case PageSettings:
		return "Settings"
	default:
		return "Welcome"
	}
}

// Valid reports whether p is a known page
func (p Page) Valid() bool {
	for _, known := range Pages {
		if p == known {
			return true
		}
	}
	return false
}

// Tone selects the register of Alfred's replies
type Tone string

const (
	ToneNeutral  Tone = "Neutral"
	ToneFriendly Tone = "Friendly"
	ToneFormal   Tone = "Formal"
	ToneCasual   Tone = "Casual"
)

// Tones lists the selectable tones in display order
var Tones = []Tone{ToneNeutral, ToneFriendly, ToneFormal, ToneCasual}

var toneInstructions = map[Tone]string{
	ToneNeutral:  "Respond in a neutral and balanced tone.",
	ToneFriendly: "Respond in a warm and friendly tone, as if talking to a close friend.",
	ToneFormal:   "Respond in a formal and professional tone, suitable for business communication.",
	ToneCasual:   "Respond in a casual and relaxed tone, using informal language.",
}

// Instruction returns the system-prompt suffix for t, or "" for an unknown tone
func (t Tone) Instruction() string {
	return toneInstructions[t]
}

// Valid reports whether t is one of the fixed tones
func (t Tone) Valid() bool {
	_, ok := toneInstructions[t]
	return ok
}

// Session is the state of one browser session
type Session struct {
	ID               string    `json:"id"`
	UserName         string    `json:"user_name"`
	ResponseTone     Tone      `json:"response_tone"`
	InteractionCount int       `json:"interaction_count"`
	CurrentPage      Page      `json:"current_page"`
	PDFID            string    `json:"pdf_id,omitempty"`
	PDFFilename      string    `json:"pdf_filename,omitempty"`
	PDFText          string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewSession returns a session with default values
func NewSession(id string) *Session {
	return &Session{
		ID:           id,
		ResponseTone: ToneNeutral,
		CurrentPage:  PageWelcome,
	}
}

// HasPDF reports whether a PDF was successfully extracted in this session
func (s *Session) HasPDF() bool {
	return s.PDFText != ""
}

// SessionSummary is the JSON view of a session
type SessionSummary struct {
	*Session
	HasPDF       bool `json:"has_pdf"`
	PDFTextBytes int  `json:"pdf_text_bytes"`
}

// Summarize returns the JSON view of s
func (s *Session) Summarize() SessionSummary {
	return SessionSummary{Session: s, HasPDF: s.HasPDF(), PDFTextBytes: len(s.PDFText)}
}

// SetNameRequest is the request to set the user's name
type SetNameRequest struct {
	Name string `json:"name"`
}

// SetToneRequest is the request to change the response tone
type SetToneRequest struct {
	Tone string `json:"tone" binding:"required"`
}
