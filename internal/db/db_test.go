package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RichardoC/shopchat/internal/models"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	database, err := New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestResolveDSN(t *testing.T) {
	tests := []struct {
		name       string
		dsn        string
		wantDriver string
		wantSource string
		wantErr    bool
	}{
		{
			name:       "postgres url",
			dsn:        "postgres://user:pw@localhost:5432/shop",
			wantDriver: "pgx",
			wantSource: "postgres://user:pw@localhost:5432/shop",
		},
		{
			name:       "postgresql url",
			dsn:        "postgresql://localhost/shop",
			wantDriver: "pgx",
			wantSource: "postgresql://localhost/shop",
		},
		{
			name:       "sqlite file gets default params",
			dsn:        "ecommerce.db",
			wantDriver: "sqlite3",
			wantSource: "ecommerce.db?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000",
		},
		{
			name:       "sqlite params kept",
			dsn:        "ecommerce.db?_foreign_keys=on",
			wantDriver: "sqlite3",
			wantSource: "ecommerce.db?_foreign_keys=on",
		},
		{
			name:    "empty",
			dsn:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver, source, _, err := resolveDSN(tt.dsn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestRebind(t *testing.T) {
	pg := &Database{dialect: dialectPostgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := &Database{dialect: dialectSQLite}
	assert.Equal(t, "SELECT ? ", lite.rebind("SELECT ? "))
}

func TestFindConversation(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	conv, err := database.CreateConversation(ctx, "alice", "session-1")
	require.NoError(t, err)
	assert.Positive(t, conv.ID)

	found, err := database.FindConversation(ctx, conv.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "session-1", found.SessionID)
	assert.Equal(t, "alice", found.UserID)

	_, err = database.FindConversation(ctx, conv.ID, "bob")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, err = database.FindConversation(ctx, conv.ID+100, "alice")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestSaveMessage(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	conv, err := database.CreateConversation(ctx, "alice", "s")
	require.NoError(t, err)

	first := &models.Message{ConvID: conv.ID, Role: models.RoleUser, Content: "hi"}
	require.NoError(t, database.SaveMessage(ctx, first))
	second := &models.Message{ConvID: conv.ID, Role: models.RoleAssistant, Content: "hello"}
	require.NoError(t, database.SaveMessage(ctx, second))

	assert.Greater(t, second.ID, first.ID)
	assert.False(t, second.CreatedAt.IsZero())

	touched, err := database.FindConversation(ctx, conv.ID, "alice")
	require.NoError(t, err)
	assert.False(t, touched.UpdatedAt.Before(second.CreatedAt))
	assert.True(t, touched.UpdatedAt.After(conv.CreatedAt) || touched.UpdatedAt.Equal(conv.CreatedAt))
}

func TestSaveMessageRejects(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	conv, err := database.CreateConversation(ctx, "alice", "s")
	require.NoError(t, err)

	err = database.SaveMessage(ctx, &models.Message{ConvID: conv.ID, Role: "system", Content: "x"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	err = database.SaveMessage(ctx, &models.Message{ConvID: conv.ID, Role: models.RoleUser, Content: "  "})
	assert.ErrorIs(t, err, ErrEmptyContent)

	err = database.SaveMessage(ctx, &models.Message{ConvID: conv.ID + 1, Role: models.RoleUser, Content: "x"})
	assert.ErrorIs(t, err, ErrConversationNotFound)

	history, err := database.GetConversationHistory(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSaveMessages(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	conv, err := database.CreateConversation(ctx, "alice", "s")
	require.NoError(t, err)

	question := &models.Message{Role: models.RoleUser, Content: "hi"}
	answer := &models.Message{Role: models.RoleAssistant, Content: "hello"}
	require.NoError(t, database.SaveMessages(ctx, conv.ID, question, answer))
	assert.Greater(t, answer.ID, question.ID)
	assert.Equal(t, conv.ID, answer.ConvID)
	assert.Equal(t, question.CreatedAt, answer.CreatedAt)

	t.Run("invalid message stores nothing", func(t *testing.T) {
		err := database.SaveMessages(ctx, conv.ID,
			&models.Message{Role: models.RoleUser, Content: "again"},
			&models.Message{Role: models.RoleAssistant, Content: " "})
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("unknown conversation stores nothing", func(t *testing.T) {
		err := database.SaveMessages(ctx, conv.ID+1,
			&models.Message{Role: models.RoleUser, Content: "x"},
			&models.Message{Role: models.RoleAssistant, Content: "y"})
		assert.ErrorIs(t, err, ErrConversationNotFound)
	})

	history, err := database.GetConversationHistory(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, question.ID, history[0].ID)
	assert.Equal(t, answer.ID, history[1].ID)
}

func TestRoleCheckConstraint(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	conv, err := database.CreateConversation(ctx, "alice", "s")
	require.NoError(t, err)

	_, err = database.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, 'system', 'x', CURRENT_TIMESTAMP)`, conv.ID)
	assert.Error(t, err)
}

func TestGetConversationHistoryOrder(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	conv, err := database.CreateConversation(ctx, "alice", "s")
	require.NoError(t, err)

	contents := []string{"one", "two", "three", "four"}
	for i, c := range contents {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		require.NoError(t, database.SaveMessage(ctx, &models.Message{ConvID: conv.ID, Role: role, Content: c}))
	}

	history, err := database.GetConversationHistory(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	for i, msg := range history {
		assert.Equal(t, contents[i], msg.Content)
		if i > 0 {
			assert.Greater(t, msg.ID, history[i-1].ID)
		}
	}
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, models.RoleAssistant, history[1].Role)

	empty, err := database.GetConversationHistory(ctx, 9999)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestGetConversationsOrder(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)

	older, err := database.CreateConversation(ctx, "alice", "a")
	require.NoError(t, err)
	newer, err := database.CreateConversation(ctx, "alice", "b")
	require.NoError(t, err)
	_, err = database.CreateConversation(ctx, "bob", "c")
	require.NoError(t, err)

	convs, err := database.GetConversations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, newer.ID, convs[0].ID)

	require.NoError(t, database.SaveMessage(ctx, &models.Message{ConvID: older.ID, Role: models.RoleUser, Content: "bump"}))

	convs, err = database.GetConversations(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, older.ID, convs[0].ID)
	assert.Equal(t, newer.ID, convs[1].ID)
}
