// Package pages serves the server-rendered HTML screens.
package pages

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/alfred/internal/api/httpx"
	"github.com/liliang-cn/alfred/internal/api/middleware"
	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/liliang-cn/alfred/internal/service"
)

// Handler handles page requests
type Handler struct {
	sessions       *service.SessionService
	chat           *service.ChatService
	analysis       *service.AnalysisService
	exports        *service.ExportService
	maxUploadBytes int64
}

// NewHandler creates a new page handler
func NewHandler(
	sessions *service.SessionService,
	chat *service.ChatService,
	analysis *service.AnalysisService,
	exports *service.ExportService,
	maxUploadBytes int64,
) *Handler {
	return &Handler{
		sessions:       sessions,
		chat:           chat,
		analysis:       analysis,
		exports:        exports,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes registers page routes
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", h.Home)

	r.GET("/welcome", h.Welcome)
	r.POST("/welcome", h.SubmitName)

	r.GET("/chat", h.Chat)
	r.POST("/chat", h.SendChat)
	r.POST("/chat/clear", h.ClearChat)

	r.GET("/pdf", h.PDF)
	r.POST("/pdf/upload", h.UploadPDF)
	r.POST("/pdf/sentiment", h.AnalyzeSentiment)
	r.POST("/pdf/chat", h.SendPDFChat)
	r.POST("/pdf/chat/clear", h.ClearPDFChat)

	r.GET("/settings", h.Settings)
	r.POST("/settings/tone", h.SetTone)
}

// Home renders the page the session visited last
func (h *Handler) Home(c *gin.Context) {
	page := domain.PageWelcome
	if s := middleware.CurrentSession(c); s != nil && s.CurrentPage.Valid() {
		page = s.CurrentPage
	}

	switch page {
	case domain.PageChat:
		h.Chat(c)
	case domain.PagePDF:
		h.PDF(c)
	case domain.PageSettings:
		h.Settings(c)
	default:
		h.Welcome(c)
	}
}

// Welcome page handlers

// Welcome renders the welcome page
func (h *Handler) Welcome(c *gin.Context) {
	h.render(c, domain.PageWelcome, http.StatusOK, &view{})
}

// SubmitName stores the name entered on the welcome form
func (h *Handler) SubmitName(c *gin.Context) {
	v := &view{}
	status := http.StatusOK

	session, err := h.sessions.SetUserName(c.Request.Context(), middleware.SessionID(c), c.PostForm("name"))
	if err != nil {
		status = fail(v, err)
	} else {
		v.Notice = "Welcome, " + session.UserName + "! Please use the sidebar to navigate."
	}

	h.render(c, domain.PageWelcome, status, v)
}

// General chat handlers

// Chat renders the general chat page
func (h *Handler) Chat(c *gin.Context) {
	h.render(c, domain.PageChat, http.StatusOK, &view{})
}

// SendChat asks the general conversation a question
func (h *Handler) SendChat(c *gin.Context) {
	v := &view{}
	status := http.StatusOK

	if _, err := h.chat.Ask(c.Request.Context(), middleware.SessionID(c), domain.ConversationGeneral, c.PostForm("prompt")); err != nil {
		status = fail(v, err)
	}

	h.render(c, domain.PageChat, status, v)
}

// ClearChat resets the general conversation and the interaction counter
func (h *Handler) ClearChat(c *gin.Context) {
	v := &view{}
	status := http.StatusOK

	if err := h.clear(c, domain.ConversationGeneral); err != nil {
		status = fail(v, err)
	} else {
		v.Notice = "Chat cleared!"
	}

	h.render(c, domain.PageChat, status, v)
}

// PDF analysis handlers

// PDF renders the PDF analysis page on the tab named by ?tab
func (h *Handler) PDF(c *gin.Context) {
	v := &view{PDF: &pdfView{Tab: c.DefaultQuery("tab", TabEntities), Query: c.Query("q")}}
	h.render(c, domain.PagePDF, http.StatusOK, v)
}

// UploadPDF extracts an uploaded PDF and makes it the current document
func (h *Handler) UploadPDF(c *gin.Context) {
	v := &view{PDF: &pdfView{Tab: TabEntities}}
	status := http.StatusOK

	file, err := httpx.FormFile(c, "file", h.maxUploadBytes)
	if err == nil {
		_, err = h.analysis.Upload(c.Request.Context(), middleware.SessionID(c), file)
	}
	if err != nil {
		status = fail(v, err)
	} else {
		v.Notice = "PDF text extracted successfully!"
	}

	h.render(c, domain.PagePDF, status, v)
}

// AnalyzeSentiment scores the current document
func (h *Handler) AnalyzeSentiment(c *gin.Context) {
	v := &view{PDF: &pdfView{Tab: TabSentiment}}
	status := http.StatusOK

	sentiment, err := h.analysis.Sentiment(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		status = fail(v, err)
	} else {
		v.PDF.Sentiment = sentiment
	}

	h.render(c, domain.PagePDF, status, v)
}

// SendPDFChat asks a question about the current document
func (h *Handler) SendPDFChat(c *gin.Context) {
	v := &view{PDF: &pdfView{Tab: TabChat}}
	status := http.StatusOK

	if _, err := h.chat.Ask(c.Request.Context(), middleware.SessionID(c), domain.ConversationPDF, c.PostForm("prompt")); err != nil {
		status = fail(v, err)
	}

	h.render(c, domain.PagePDF, status, v)
}

// ClearPDFChat resets the PDF conversation
func (h *Handler) ClearPDFChat(c *gin.Context) {
	v := &view{PDF: &pdfView{Tab: TabChat}}
	status := http.StatusOK

	if err := h.clear(c, domain.ConversationPDF); err != nil {
		status = fail(v, err)
	} else {
		v.Notice = "PDF chat cleared!"
	}

	h.render(c, domain.PagePDF, status, v)
}

// Settings handlers

// Settings renders the settings page
func (h *Handler) Settings(c *gin.Context) {
	h.render(c, domain.PageSettings, http.StatusOK, &view{})
}

// SetTone changes the session's response tone
func (h *Handler) SetTone(c *gin.Context) {
	v := &view{}
	status := http.StatusOK

	session, err := h.sessions.SetTone(c.Request.Context(), middleware.SessionID(c), domain.Tone(c.PostForm("tone")))
	if err != nil {
		status = fail(v, err)
	} else {
		v.Notice = "Response tone set to " + string(session.ResponseTone) + "."
	}

	h.render(c, domain.PageSettings, status, v)
}

func (h *Handler) clear(c *gin.Context, kind domain.ConversationKind) error {
	if c.PostForm("confirm") == "" {
		return domain.ErrConfirmationRequired
	}
	return h.chat.Clear(c.Request.Context(), middleware.SessionID(c), kind)
}

// render records the visit, then draws page from the session's current state
func (h *Handler) render(c *gin.Context, page domain.Page, status int, v *view) {
	ctx := c.Request.Context()
	id := middleware.SessionID(c)

	if err := h.sessions.VisitPage(ctx, id, page); err != nil {
		c.Error(err)
	}

	session, err := h.sessions.Get(ctx, id)
	if err != nil {
		c.Error(err)
		session = middleware.CurrentSession(c)
	}
	if session == nil {
		session = domain.NewSession(id)
	}

	v.Title = page.Title()
	v.Heading = headings[page]
	v.Nav = navFor(page)
	v.Session = session

	switch page {
	case domain.PageChat:
		err = h.fillChat(ctx, session, v)
	case domain.PagePDF:
		err = h.fillPDF(ctx, session, v)
	case domain.PageSettings:
		err = h.fillSettings(ctx, session, v)
	default:
		err = nil
	}
	if err != nil && v.Error == "" {
		c.Error(err)
		v.Error = httpx.Message(err)
		if status < http.StatusBadRequest {
			status = httpx.Status(err)
		}
	}

	c.HTML(status, string(page)+".html", v)
}

func (h *Handler) fillChat(ctx context.Context, session *domain.Session, v *view) error {
	messages, err := h.chat.Messages(ctx, session.ID, domain.ConversationGeneral)
	if err != nil {
		return err
	}
	v.Messages = chatLines(messages, session.UserName)
	return nil
}

func (h *Handler) fillPDF(ctx context.Context, session *domain.Session, v *view) error {
	if !session.HasPDF() {
		v.PDF = nil
		return nil
	}

	p := v.PDF
	if p == nil {
		p = &pdfView{}
		v.PDF = p
	}
	if !validTab(p.Tab) {
		p.Tab = TabEntities
	}
	p.Filename = session.PDFFilename
	p.Tabs = tabsFor(p.Tab)

	switch p.Tab {
	case TabEntities:
		entities, err := h.analysis.Entities(ctx, session.ID)
		if err != nil {
			return err
		}
		p.Entities = entities
		if len(entities) > 0 {
			l, err := h.exports.Entities(ctx, session.ID)
			if err != nil {
				return err
			}
			p.EntitiesLink = toLink(l)
		}

	case TabText:
		p.Text = session.PDFText

	case TabSearch:
		if p.Query != "" {
			resp, err := h.analysis.Search(ctx, session.ID, p.Query)
			if err != nil {
				return err
			}
			p.Hits = resp.Hits
		}

	case TabChat:
		messages, err := h.chat.Messages(ctx, session.ID, domain.ConversationPDF)
		if err != nil {
			return err
		}
		p.Messages = chatLines(messages, session.UserName)
	}

	return nil
}

func (h *Handler) fillSettings(ctx context.Context, session *domain.Session, v *view) error {
	v.Tones = domain.Tones

	l, err := h.exports.Conversation(ctx, session.ID)
	if err != nil {
		return err
	}
	v.ConversationLink = toLink(l)
	return nil
}

func fail(v *view, err error) int {
	v.Error = httpx.Message(err)
	return httpx.Status(err)
}
