package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RichardoC/shopchat/internal/models"
)

// FindConversation returns the conversation with id owned by userID, or
// ErrConversationNotFound when no such row exists.
func (db *Database) FindConversation(ctx context.Context, id int64, userID string) (*models.Conversation, error) {
	query := db.rebind(`
        SELECT id, user_id, session_id, created_at, updated_at
        FROM conversations
        WHERE id = ? AND user_id = ?`)

	conv := &models.Conversation{}
	err := db.db.QueryRowContext(ctx, query, id, userID).
		Scan(&conv.ID, &conv.UserID, &conv.SessionID, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return conv, nil
}

func (db *Database) CreateConversation(ctx context.Context, userID, sessionID string) (*models.Conversation, error) {
	query := db.rebind(`
        INSERT INTO conversations (user_id, session_id, created_at, updated_at)
        VALUES (?, ?, ?, ?)
        RETURNING id`)

	now := time.Now().UTC()
	conv := &models.Conversation{
		UserID:    userID,
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.db.QueryRowContext(ctx, query, userID, sessionID, now, now).Scan(&conv.ID); err != nil {
		return nil, err
	}
	return conv, nil
}

// SaveMessage inserts msg and touches its conversation's updated_at in one
// transaction. ID and CreatedAt are filled in on success.
func (db *Database) SaveMessage(ctx context.Context, msg *models.Message) error {
	return db.SaveMessages(ctx, msg.ConvID, msg)
}

// SaveMessages inserts msgs into conversationID, in order, and touches the
// conversation's updated_at, all in one transaction. The messages share one
// timestamp so their ids keep them adjacent and ordered in the history.
// Either every message is stored or none is.
func (db *Database) SaveMessages(ctx context.Context, conversationID int64, msgs ...*models.Message) error {
	for _, msg := range msgs {
		if !msg.Role.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidRole, msg.Role)
		}
		if strings.TrimSpace(msg.Content) == "" {
			return ErrEmptyContent
		}
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, db.rebind(`
        UPDATE conversations SET updated_at = ? WHERE id = ?`), now, conversationID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrConversationNotFound
	}

	insert := db.rebind(`
        INSERT INTO messages (conversation_id, role, content, created_at)
        VALUES (?, ?, ?, ?)
        RETURNING id`)
	ids := make([]int64, len(msgs))
	for i, msg := range msgs {
		err := tx.QueryRowContext(ctx, insert, conversationID, string(msg.Role), msg.Content, now).Scan(&ids[i])
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	for i, msg := range msgs {
		msg.ID = ids[i]
		msg.ConvID = conversationID
		msg.CreatedAt = now
	}
	return nil
}

// GetConversationHistory returns every message of the conversation, oldest first.
func (db *Database) GetConversationHistory(ctx context.Context, conversationID int64) ([]models.Message, error) {
	query := db.rebind(`
        SELECT id, conversation_id, role, content, created_at
        FROM messages
        WHERE conversation_id = ?
        ORDER BY created_at ASC, id ASC`)

	rows, err := db.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return []models.Message{}, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		var role string
		if err := rows.Scan(&msg.ID, &msg.ConvID, &role, &msg.Content, &msg.CreatedAt); err != nil {
			return []models.Message{}, err
		}
		msg.Role = models.Role(role)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// GetConversations lists the user's conversations, most recently updated first.
func (db *Database) GetConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := db.rebind(`
        SELECT id, user_id, session_id, created_at, updated_at
        FROM conversations
        WHERE user_id = ?
        ORDER BY updated_at DESC, id DESC`)

	rows, err := db.db.QueryContext(ctx, query, userID)
	if err != nil {
		return []models.Conversation{}, err
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.SessionID, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return []models.Conversation{}, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}
