// Package catalog answers free-text questions with canned lookups against the
// read-only e-commerce catalog.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/RichardoC/shopchat/internal/models"
)

const (
	// DistinctSampleSize bounds category and brand listings.
	DistinctSampleSize = 10
	// ProductSampleSize bounds the product listing.
	ProductSampleSize = 5

	GenericReply   = "I can help you with information about products, orders, customers, and sales. What would you like to know?"
	NoRevenueReply = "No revenue data available"

	// CacheKeyPrefix namespaces cached summaries; the rule key follows it.
	CacheKeyPrefix = "catalog:"
)

// Catalog is the read-only view of the catalog tables the router needs.
type Catalog interface {
	ProductCategories(ctx context.Context, limit int) ([]string, error)
	ProductBrands(ctx context.Context, limit int) ([]string, error)
	SampleProducts(ctx context.Context, limit int) ([]models.Product, error)
	OrderStats(ctx context.Context) (models.OrderStats, error)
	CustomerCount(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, bool, error)
}

// Cache stores rendered summaries. Get reports ok=false on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Rule pairs a predicate over the lower-cased query with the lookup it selects.
// Key names the lookup's output and is used as the cache key, so two rules
// producing the same summary should share a key.
type Rule struct {
	Key     string
	Matches func(query string) bool
	Answer  func(ctx context.Context, c Catalog) (string, error)
}

// Router evaluates Rules in order; the first match wins.
type Router struct {
	catalog  Catalog
	rules    []Rule
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

type Option func(*Router)

// WithCache enables caching of rendered summaries for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(r *Router) {
		r.cache = cache
		r.cacheTTL = ttl
	}
}

// WithRules replaces the default rule table.
func WithRules(rules []Rule) Option {
	return func(r *Router) {
		r.rules = rules
	}
}

func NewRouter(c Catalog, logger *zap.Logger, opts ...Option) *Router {
	r := &Router{
		catalog: c,
		rules:   DefaultRules(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route returns the catalog summary for query, or GenericReply when no rule matches.
func (r *Router) Route(ctx context.Context, query string) (string, error) {
	q := strings.ToLower(query)
	for _, rule := range r.rules {
		if !rule.Matches(q) {
			continue
		}
		return r.answer(ctx, rule)
	}
	return GenericReply, nil
}

func (r *Router) answer(ctx context.Context, rule Rule) (string, error) {
	key := CacheKeyPrefix + rule.Key
	if r.cache != nil {
		v, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return v, nil
		}
	}

	summary, err := rule.Answer(ctx, r.catalog)
	if err != nil {
		return "", fmt.Errorf("catalog lookup %s: %w", rule.Key, err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, summary, r.cacheTTL); err != nil {
			r.logger.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return summary, nil
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// DefaultRules is the prioritized keyword table.
func DefaultRules() []Rule {
	isProduct := func(q string) bool { return containsAny(q, "product", "item") }
	return []Rule{
		{
			Key:     "categories",
			Matches: func(q string) bool { return isProduct(q) && strings.Contains(q, "categor") },
			Answer:  answerCategories,
		},
		{
			Key:     "brands",
			Matches: func(q string) bool { return isProduct(q) && strings.Contains(q, "brand") },
			Answer:  answerBrands,
		},
		{
			Key:     "products",
			Matches: isProduct,
			Answer:  answerProducts,
		},
		{
			Key:     "orders",
			Matches: func(q string) bool { return containsAny(q, "order", "purchase") },
			Answer:  answerOrders,
		},
		{
			Key:     "customers",
			Matches: func(q string) bool { return containsAny(q, "user", "customer") },
			Answer:  answerCustomers,
		},
		{
			Key:     "revenue",
			Matches: func(q string) bool { return containsAny(q, "revenue", "sales") },
			Answer:  answerRevenue,
		},
	}
}

func answerCategories(ctx context.Context, c Catalog) (string, error) {
	categories, err := c.ProductCategories(ctx, DistinctSampleSize)
	if err != nil {
		return "", err
	}
	return "Available product categories: " + strings.Join(categories, ", "), nil
}

func answerBrands(ctx context.Context, c Catalog) (string, error) {
	brands, err := c.ProductBrands(ctx, DistinctSampleSize)
	if err != nil {
		return "", err
	}
	return "Available brands: " + strings.Join(brands, ", "), nil
}

func answerProducts(ctx context.Context, c Catalog) (string, error) {
	products, err := c.SampleProducts(ctx, ProductSampleSize)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(products))
	for _, p := range products {
		parts = append(parts, fmt.Sprintf("%s by %s (%s) - %s", p.Name, p.Brand, p.Category, formatCurrency(p.Price)))
	}
	return "Sample products: " + strings.Join(parts, "; "), nil
}

func answerOrders(ctx context.Context, c Catalog) (string, error) {
	stats, err := c.OrderStats(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Total orders: %d, Delivered orders: %d", stats.Total, stats.Delivered), nil
}

func answerCustomers(ctx context.Context, c Catalog) (string, error) {
	n, err := c.CustomerCount(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Total customers: %d", n), nil
}

func answerRevenue(ctx context.Context, c Catalog) (string, error) {
	total, ok, err := c.TotalRevenue(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return NoRevenueReply, nil
	}
	return "Total revenue: " + formatCurrency(total), nil
}

var printer = message.NewPrinter(language.English)

// formatCurrency renders v as dollars with thousands separators, e.g. $1,234.56.
func formatCurrency(v float64) string {
	return printer.Sprintf("$%.2f", v)
}
