// Package conversation owns conversation lifecycle and is the only writer of
// conversation and message rows.
package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RichardoC/shopchat/internal/db"
	"github.com/RichardoC/shopchat/internal/metrics"
	"github.com/RichardoC/shopchat/internal/models"
)

// Store is the conversation half of the database.
type Store interface {
	FindConversation(ctx context.Context, id int64, userID string) (*models.Conversation, error)
	CreateConversation(ctx context.Context, userID, sessionID string) (*models.Conversation, error)
	SaveMessage(ctx context.Context, msg *models.Message) error
	SaveMessages(ctx context.Context, conversationID int64, msgs ...*models.Message) error
	GetConversationHistory(ctx context.Context, conversationID int64) ([]models.Message, error)
	GetConversations(ctx context.Context, userID string) ([]models.Conversation, error)
}

// Responder produces the assistant's reply to a user message.
type Responder interface {
	Generate(ctx context.Context, userMessage string, history []models.Message) (string, error)
}

type Manager struct {
	store     Store
	responder Responder
	logger    *zap.Logger
}

func NewManager(store Store, responder Responder, logger *zap.Logger) *Manager {
	return &Manager{store: store, responder: responder, logger: logger}
}

// ResolveOrCreate returns the conversation identified by conversationID when it
// belongs to userID. Otherwise, including when conversationID is nil, a new
// conversation with a fresh session id is created.
func (m *Manager) ResolveOrCreate(ctx context.Context, userID string, conversationID *int64) (int64, string, error) {
	if conversationID != nil {
		conv, err := m.store.FindConversation(ctx, *conversationID, userID)
		if err == nil {
			return conv.ID, conv.SessionID, nil
		}
		if !errors.Is(err, db.ErrConversationNotFound) {
			return 0, "", fmt.Errorf("find conversation: %w", err)
		}
		m.logger.Info("conversation not found for user, starting a new one",
			zap.Int64("conversation_id", *conversationID),
			zap.String("user_id", userID))
	}

	conv, err := m.store.CreateConversation(ctx, userID, uuid.NewString())
	if err != nil {
		return 0, "", fmt.Errorf("create conversation: %w", err)
	}
	metrics.ConversationsCreated.Inc()
	return conv.ID, conv.SessionID, nil
}

func (m *Manager) AppendMessage(ctx context.Context, conversationID int64, role models.Role, content string) (int64, error) {
	msg := &models.Message{ConvID: conversationID, Role: role, Content: content}
	if err := m.store.SaveMessage(ctx, msg); err != nil {
		return 0, fmt.Errorf("save %s message: %w", role, err)
	}
	metrics.MessagesSaved.WithLabelValues(string(role)).Inc()
	return msg.ID, nil
}

func (m *Manager) History(ctx context.Context, conversationID int64) ([]models.Message, error) {
	history, err := m.store.GetConversationHistory(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return history, nil
}

// ConversationsForUser returns the user's conversations, most recently updated
// first, each with its full history.
func (m *Manager) ConversationsForUser(ctx context.Context, userID string) ([]models.ConversationWithMessages, error) {
	convs, err := m.store.GetConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	result := make([]models.ConversationWithMessages, 0, len(convs))
	for _, conv := range convs {
		history, err := m.History(ctx, conv.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.ConversationWithMessages{Conversation: conv, Messages: history})
	}
	return result, nil
}

type ChatInput struct {
	UserID  string
	Message string
	// ConversationID is nil when the client did not name a conversation or
	// named one that cannot be parsed.
	ConversationID *int64
}

type ChatResult struct {
	Reply          string
	ConversationID int64
	SessionID      string
	MessageID      int64
}

// Chat runs one turn: resolve the conversation, generate a reply from the
// existing history, then persist the user message and the reply together.
// No transaction is open while the reply is generated. Concurrent turns on
// one conversation never interleave their messages.
func (m *Manager) Chat(ctx context.Context, in ChatInput) (*ChatResult, error) {
	convID, sessionID, err := m.ResolveOrCreate(ctx, in.UserID, in.ConversationID)
	if err != nil {
		return nil, err
	}

	history, err := m.History(ctx, convID)
	if err != nil {
		return nil, err
	}

	reply, err := m.responder.Generate(ctx, in.Message, history)
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	userMsg := &models.Message{Role: models.RoleUser, Content: in.Message}
	replyMsg := &models.Message{Role: models.RoleAssistant, Content: reply}
	if err := m.store.SaveMessages(ctx, convID, userMsg, replyMsg); err != nil {
		return nil, fmt.Errorf("save turn: %w", err)
	}
	metrics.MessagesSaved.WithLabelValues(string(models.RoleUser)).Inc()
	metrics.MessagesSaved.WithLabelValues(string(models.RoleAssistant)).Inc()

	return &ChatResult{
		Reply:          reply,
		ConversationID: convID,
		SessionID:      sessionID,
		MessageID:      replyMsg.ID,
	}, nil
}
