// Package client is a small HTTP client for the chat API.
package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/RichardoC/shopchat/internal/api"
)

type Client struct {
	http *resty.Client
}

// New returns a client for the server at baseURL, e.g. http://localhost:8000.
func New(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{http: c}
}

// apiError is returned for any non-2xx response.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &apiError{Status: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var out api.HealthResponse
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/health")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends message as userID. An empty conversationID starts a new conversation.
func (c *Client) Chat(ctx context.Context, userID, message, conversationID string) (*api.ChatResponse, error) {
	body := map[string]string{"message": message, "user_id": userID}
	if conversationID != "" {
		body["conversation_id"] = conversationID
	}

	var out api.ChatResponse
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(&out).Post("/api/chat")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Conversations(ctx context.Context, userID string) ([]api.ConversationResponse, error) {
	var out []api.ConversationResponse
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).
		Get("/api/conversations/" + url.PathEscape(userID))
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}
