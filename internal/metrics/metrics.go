package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopchat_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopchat_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// Generations counts replies by how they were produced: "online", "offline" or "fallback".
	Generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopchat_generations_total",
			Help: "Assistant replies by generation mode",
		},
		[]string{"mode"},
	)

	ProviderLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shopchat_provider_latency_seconds",
			Help:    "Text-generation provider call latency",
			Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 30},
		},
	)

	MessagesSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopchat_messages_saved_total",
			Help: "Messages persisted",
		},
		[]string{"role"},
	)

	ConversationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shopchat_conversations_created_total",
			Help: "Conversations created",
		},
	)
)
