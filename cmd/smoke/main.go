// Command smoke exercises a running server end to end: health, a new
// conversation, a follow-up in the same conversation and the history listing.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/RichardoC/shopchat/internal/client"
)

var questions = []string{
	"Hello, what products do you have?",
	"What product categories are available?",
	"How many orders have been delivered?",
	"What's the total revenue?",
}

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "server base URL")
	userID := flag.String("user", "smoke_test_user", "user id to chat as")
	timeout := flag.Duration("timeout", 60*time.Second, "per-request timeout")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx := context.Background()
	c := client.New(*baseURL, *timeout)

	health, err := c.Health(ctx)
	if err != nil {
		logger.Fatal("health check failed", zap.Error(err))
	}
	logger.Info("health check passed", zap.String("status", health.Status), zap.String("llm", health.LLM))

	conversationID := ""
	for _, q := range questions {
		resp, err := c.Chat(ctx, *userID, q, conversationID)
		if err != nil {
			logger.Fatal("chat failed", zap.String("message", q), zap.Error(err))
		}
		if conversationID != "" && resp.ConversationID != conversationID {
			logger.Fatal("follow-up landed in a different conversation",
				zap.String("want", conversationID), zap.String("got", resp.ConversationID))
		}
		conversationID = resp.ConversationID
		logger.Info("chat passed",
			zap.String("message", q),
			zap.String("conversation_id", resp.ConversationID),
			zap.Int64("message_id", resp.MessageID),
			zap.String("response", resp.Response))
	}

	convs, err := c.Conversations(ctx, *userID)
	if err != nil {
		logger.Fatal("conversation listing failed", zap.Error(err))
	}
	logger.Info("conversation listing passed", zap.Int("conversations", len(convs)))
}
