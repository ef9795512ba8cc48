package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/RichardoC/shopchat/internal/metrics"
	"github.com/RichardoC/shopchat/internal/models"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama3-8b-8192"
	DefaultTimeout = 30 * time.Second

	maxTokens   = 500
	temperature = 0.7

	offlinePreamble  = "I'm here to help with your e-commerce questions! "
	fallbackPreamble = "I'm experiencing some technical difficulties, but I can still help you with basic information: "
	databaseHeading  = "\n\nBased on our database: "
)

const systemPrompt = `You are an AI assistant for an e-commerce platform. You help users with:
1. Product information and recommendations
2. Order status and history
3. Customer support
4. Sales and analytics data

Always be helpful, friendly, and provide accurate information based on the available data.`

// triggerWords decide whether a generated reply is followed by a catalog summary.
var triggerWords = []string{"product", "order", "user", "revenue", "sales"}

var errEmptyCompletion = errors.New("provider returned no content")

// Model is the part of a langchaingo LLM the service calls.
type Model interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Router produces the deterministic catalog summary for a message.
type Router interface {
	Route(ctx context.Context, query string) (string, error)
}

type Config struct {
	BaseURL string
	Token   string
	Model   string
	Timeout time.Duration
}

// Service generates assistant replies. Without a provider token it runs
// offline and answers from the catalog router alone.
type Service struct {
	llm     Model
	router  Router
	timeout time.Duration
	logger  *zap.Logger
}

func New(cfg Config, router Router, logger *zap.Logger) (*Service, error) {
	s := &Service{router: router, timeout: cfg.Timeout, logger: logger}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if cfg.Token == "" {
		logger.Warn("no text-generation credential configured, replies come from the catalog only")
		return s, nil
	}

	baseURL, model := cfg.BaseURL, cfg.Model
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	llm, err := openai.New(
		openai.WithToken(cfg.Token),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	s.llm = llm
	return s, nil
}

// NewWithModel builds a Service around an already constructed model. A nil
// model yields an offline service.
func NewWithModel(model Model, router Router, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{llm: model, router: router, timeout: timeout, logger: logger}
}

// Online reports whether a text-generation provider is configured.
func (s *Service) Online() bool {
	return s.llm != nil
}

// Generate produces the assistant reply to userMessage given the prior
// history. Provider failures are never returned; they degrade to a catalog
// answer. Only catalog (storage) errors reach the caller.
func (s *Service) Generate(ctx context.Context, userMessage string, history []models.Message) (string, error) {
	if s.llm == nil {
		summary, err := s.router.Route(ctx, userMessage)
		if err != nil {
			return "", err
		}
		metrics.Generations.WithLabelValues("offline").Inc()
		return offlinePreamble + summary, nil
	}

	reply, err := s.complete(ctx, userMessage, history)
	if err != nil {
		s.logger.Error("text generation failed, answering from catalog", zap.Error(err))
		summary, rerr := s.router.Route(ctx, userMessage)
		if rerr != nil {
			return "", rerr
		}
		metrics.Generations.WithLabelValues("fallback").Inc()
		return fallbackPreamble + summary, nil
	}

	metrics.Generations.WithLabelValues("online").Inc()
	if containsTrigger(userMessage) {
		summary, err := s.router.Route(ctx, userMessage)
		if err != nil {
			return "", err
		}
		reply += databaseHeading + summary
	}
	return reply, nil
}

// complete makes a single provider attempt bounded by the service timeout.
func (s *Service) complete(ctx context.Context, userMessage string, history []models.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.llm.GenerateContent(ctx, buildMessages(userMessage, history),
		llms.WithMaxTokens(maxTokens),
		llms.WithTemperature(temperature),
	)
	metrics.ProviderLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", errEmptyCompletion
	}
	return resp.Choices[0].Content, nil
}

func buildMessages(userMessage string, history []models.Message) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt))
	for _, msg := range history {
		role := schema.ChatMessageTypeHuman
		if msg.Role == models.RoleAssistant {
			role = schema.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}
	return append(messages, llms.TextParts(schema.ChatMessageTypeHuman, userMessage))
}

func containsTrigger(message string) bool {
	lower := strings.ToLower(message)
	for _, w := range triggerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
