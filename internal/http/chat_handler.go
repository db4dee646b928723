package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"minichat/internal/domain"
	"minichat/internal/service"
)

// tsLayout es el formato ISO sin zona que usa el historial.
const tsLayout = "2006-01-02T15:04:05"

// ChatHandler atiende los dos endpoints que consume el cliente del chat.
type ChatHandler struct {
	logger   *zap.Logger
	messages *service.MessageService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, messages *service.MessageService) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		messages: messages,
	}
}

type historyEntry struct {
	Sender domain.Sender `json:"sender"`
	Text   string        `json:"text"`
	TS     string        `json:"ts"`
}

// PostMessage maneja POST /api/message.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
		UserID  string `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid JSON"})
		return
	}

	reply, err := h.messages.EchoReply(c.Request.Context(), req.UserID, req.Message)
	if errors.Is(err, service.ErrMessageInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Empty message"})
		return
	}
	if err != nil {
		h.logger.Error("store message failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not store message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "reply": reply})
}

// GetHistory maneja GET /api/history.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	messages, err := h.messages.ListByUser(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		h.logger.Error("list history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not load history"})
		return
	}

	history := make([]historyEntry, 0, len(messages))
	for _, m := range messages {
		history = append(history, historyEntry{
			Sender: m.Sender,
			Text:   m.Text,
			TS:     m.CreatedAt.Format(tsLayout),
		})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "history": history})
}

// Health maneja GET /healthz.
func (h *ChatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
