package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/RichardoC/shopchat/internal/conversation"
	"github.com/RichardoC/shopchat/internal/models"
)

const maxBodyBytes = 64 * 1024

// Conversations is what the handlers need from the conversation manager.
type Conversations interface {
	Chat(ctx context.Context, in conversation.ChatInput) (*conversation.ChatResult, error)
	ConversationsForUser(ctx context.Context, userID string) ([]models.ConversationWithMessages, error)
}

// Generator reports whether replies come from the text-generation provider.
type Generator interface {
	Online() bool
}

type Handler struct {
	conversations Conversations
	generator     Generator
	logger        *zap.Logger
}

func NewHandler(conversations Conversations, generator Generator, logger *zap.Logger) *Handler {
	return &Handler{
		conversations: conversations,
		generator:     generator,
		logger:        logger,
	}
}

// ChatRequest carries conversation_id as raw JSON because clients send it
// either as a string or as a number.
type ChatRequest struct {
	Message        string          `json:"message"`
	UserID         string          `json:"user_id"`
	ConversationID json.RawMessage `json:"conversation_id,omitempty"`
}

type ChatResponse struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
	MessageID      int64  `json:"message_id"`
}

type MessageResponse struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type ConversationResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	SessionID string            `json:"session_id"`
	Messages  []MessageResponse `json:"messages"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	LLM       string `json:"llm"`
}

var errBadConversationID = errors.New("conversation_id must be a string or an integer")

func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		h.Error(w, http.StatusBadRequest, "message is required")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		h.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}
	convID, err := parseConversationID(req.ConversationID)
	if err != nil {
		h.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.conversations.Chat(r.Context(), conversation.ChatInput{
		UserID:         req.UserID,
		Message:        req.Message,
		ConversationID: convID,
	})
	if err != nil {
		h.logger.Error("Failed to process chat message",
			zap.Error(err),
			zap.String("user_id", req.UserID))
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Debug("Chat turn completed",
		zap.Int64("conversation_id", res.ConversationID),
		zap.Int64("message_id", res.MessageID))

	h.JSON(w, http.StatusOK, ChatResponse{
		Response:       res.Reply,
		ConversationID: strconv.FormatInt(res.ConversationID, 10),
		MessageID:      res.MessageID,
	})
}

// parseConversationID accepts an integer, a numeric string, an empty string or
// null. A non-numeric string yields nil so the manager starts a new conversation.
func parseConversationID(raw json.RawMessage) (*int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var s string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errBadConversationID
		}
		s = strings.TrimSpace(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		s = string(raw)
	default:
		return nil, errBadConversationID
	}

	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, nil
	}
	return &id, nil
}

func (h *Handler) GetConversations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if strings.TrimSpace(userID) == "" {
		h.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	convs, err := h.conversations.ConversationsForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get conversations",
			zap.Error(err),
			zap.String("user_id", userID))
		h.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Debug("Retrieved conversations",
		zap.Int("count", len(convs)),
		zap.String("user_id", userID))

	resp := make([]ConversationResponse, 0, len(convs))
	for _, c := range convs {
		messages := make([]MessageResponse, 0, len(c.Messages))
		for _, m := range c.Messages {
			messages = append(messages, MessageResponse{
				ID:        m.ID,
				Role:      string(m.Role),
				Content:   m.Content,
				Timestamp: formatTime(m.CreatedAt),
			})
		}
		resp = append(resp, ConversationResponse{
			ID:        strconv.FormatInt(c.ID, 10),
			UserID:    c.UserID,
			SessionID: c.SessionID,
			Messages:  messages,
			CreatedAt: formatTime(c.CreatedAt),
			UpdatedAt: formatTime(c.UpdatedAt),
		})
	}
	h.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	mode := "offline"
	if h.generator != nil && h.generator.Online() {
		mode = "online"
	}
	h.JSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: formatTime(time.Now()),
		LLM:       mode,
	})
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
