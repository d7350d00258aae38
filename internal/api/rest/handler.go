// Package rest exposes the page operations as a JSON API.
package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/alfred/internal/api/httpx"
	"github.com/liliang-cn/alfred/internal/api/middleware"
	"github.com/liliang-cn/alfred/internal/domain"
	"github.com/liliang-cn/alfred/internal/service"
)

// Handler handles JSON API requests
type Handler struct {
	sessions       *service.SessionService
	chat           *service.ChatService
	analysis       *service.AnalysisService
	exports        *service.ExportService
	maxUploadBytes int64
}

// NewHandler creates a new API handler
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

// RegisterRoutes registers API routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	session := r.Group("/session")
	{
		session.GET("", h.GetSession)
		session.PUT("/name", h.SetName)
		session.PUT("/tone", h.SetTone)
	}

	conversations := r.Group("/conversations")
	{
		conversations.GET("/:kind", h.GetConversation)
		conversations.POST("/:kind", h.SendMessage)
		conversations.DELETE("/:kind", h.ClearConversation)
	}

	pdf := r.Group("/pdf")
	{
		pdf.POST("", h.UploadPDF)
		pdf.GET("/text", h.GetText)
		pdf.GET("/search", h.Search)
		pdf.GET("/entities", h.GetEntities)
		pdf.GET("/sentiment", h.GetSentiment)
	}

	exports := r.Group("/export")
	{
		exports.GET("/conversation", h.ExportConversation)
		exports.GET("/entities", h.ExportEntities)
	}
}

// Session handlers

func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session.Summarize())
}

func (h *Handler) SetName(c *gin.Context) {
	var req domain.SetNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.SetUserName(c.Request.Context(), middleware.SessionID(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session.Summarize())
}

func (h *Handler) SetTone(c *gin.Context) {
	var req domain.SetToneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.SetTone(c.Request.Context(), middleware.SessionID(c), domain.Tone(req.Tone))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session.Summarize())
}

// Conversation handlers

func (h *Handler) GetConversation(c *gin.Context) {
	kind, err := domain.ParseConversationKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondConversation(c, kind)
}

func (h *Handler) SendMessage(c *gin.Context) {
	kind, err := domain.ParseConversationKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.chat.Ask(c.Request.Context(), middleware.SessionID(c), kind, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ClearConversation(c *gin.Context) {
	kind, err := domain.ParseConversationKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.chat.Clear(c.Request.Context(), middleware.SessionID(c), kind); err != nil {
		respondError(c, err)
		return
	}

	h.respondConversation(c, kind)
}

func (h *Handler) respondConversation(c *gin.Context, kind domain.ConversationKind) {
	messages, err := h.chat.Messages(c.Request.Context(), middleware.SessionID(c), kind)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.ConversationResponse{
		Conversation: kind,
		Messages:     messages,
	})
}

// PDF handlers

func (h *Handler) UploadPDF(c *gin.Context) {
	file, err := httpx.FormFile(c, "file", h.maxUploadBytes)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.analysis.Upload(c.Request.Context(), middleware.SessionID(c), file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) GetText(c *gin.Context) {
	text, err := h.analysis.Text(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	resp, err := h.analysis.Search(c.Request.Context(), middleware.SessionID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetEntities(c *gin.Context) {
	entities, err := h.analysis.Entities(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if entities == nil {
		entities = []domain.Entity{}
	}

	c.JSON(http.StatusOK, domain.EntitiesResponse{Entities: entities})
}

func (h *Handler) GetSentiment(c *gin.Context) {
	sentiment, err := h.analysis.Sentiment(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sentiment)
}

// Export handlers

func (h *Handler) ExportConversation(c *gin.Context) {
	link, err := h.exports.Conversation(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

func (h *Handler) ExportEntities(c *gin.Context) {
	link, err := h.exports.Entities(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

func respondError(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(httpx.Status(err), gin.H{"error": err.Error()})
}
