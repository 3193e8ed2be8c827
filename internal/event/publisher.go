// Package event publishes catalog lifecycle events to Kafka. Publishing
// is best-effort: a broker failure is logged and never fails the command
// that triggered it.
package event

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Costin94/LiveOn-Ecommerce/internal/domain"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/kafka"
	"github.com/Costin94/LiveOn-Ecommerce/pkg/logger"
)

// Topics per aggregate type.
const (
	TopicProducts   = "catalog.products"
	TopicCategories = "catalog.categories"
	TopicUsers      = "catalog.users"
)

const source = "liveon-ecommerce"

// Publisher emits domain events after successful commits. A Publisher
// with a nil producer is valid and publishes nothing, which keeps event
// emission optional in tests and local setups.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewPublisher creates a publisher. producer may be nil to disable
// event emission.
func NewPublisher(producer *kafka.Producer, log *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: log}
}

type productPayload struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	CategoryID    int64           `json:"categoryId"`
	Status        string          `json:"status"`
}

type categoryPayload struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Active bool   `json:"active"`
}

type userPayload struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

func (p *Publisher) ProductCreated(ctx context.Context, prod *domain.Product) {
	p.publish(ctx, TopicProducts, "product.created", prod.ID(), "product", newProductPayload(prod))
}

func (p *Publisher) ProductUpdated(ctx context.Context, prod *domain.Product) {
	p.publish(ctx, TopicProducts, "product.updated", prod.ID(), "product", newProductPayload(prod))
}

func (p *Publisher) ProductDeleted(ctx context.Context, id int64) {
	p.publish(ctx, TopicProducts, "product.deleted", id, "product", map[string]int64{"id": id})
}

func (p *Publisher) CategoryCreated(ctx context.Context, c *domain.Category) {
	p.publish(ctx, TopicCategories, "category.created", c.ID(), "category", newCategoryPayload(c))
}

func (p *Publisher) CategoryUpdated(ctx context.Context, c *domain.Category) {
	p.publish(ctx, TopicCategories, "category.updated", c.ID(), "category", newCategoryPayload(c))
}

func (p *Publisher) CategoryDeleted(ctx context.Context, id int64) {
	p.publish(ctx, TopicCategories, "category.deleted", id, "category", map[string]int64{"id": id})
}

func (p *Publisher) UserCreated(ctx context.Context, u *domain.User) {
	p.publish(ctx, TopicUsers, "user.created", u.ID(), "user", newUserPayload(u))
}

func (p *Publisher) UserUpdated(ctx context.Context, u *domain.User) {
	p.publish(ctx, TopicUsers, "user.updated", u.ID(), "user", newUserPayload(u))
}

func (p *Publisher) UserDeleted(ctx context.Context, id int64) {
	p.publish(ctx, TopicUsers, "user.deleted", id, "user", map[string]int64{"id": id})
}

func (p *Publisher) publish(ctx context.Context, topic, eventType string, aggregateID int64, aggregateType string, data any) {
	if p == nil || p.producer == nil {
		return
	}

	ev, err := kafka.NewEvent(eventType, strconv.FormatInt(aggregateID, 10), aggregateType, source, data)
	if err != nil {
		p.log(ctx).Warn("build event failed",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		ev = ev.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, topic, ev); err != nil {
		p.log(ctx).Warn("publish event failed",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()))
	}
}

func (p *Publisher) log(ctx context.Context) *slog.Logger {
	if p.logger != nil {
		return logger.WithContext(ctx, p.logger)
	}
	return logger.FromContext(ctx)
}

func newProductPayload(p *domain.Product) productPayload {
	return productPayload{
		ID:            p.ID(),
		Name:          p.Name(),
		SKU:           p.SKU(),
		Price:         p.Price(),
		StockQuantity: p.StockQuantity(),
		CategoryID:    p.CategoryID(),
		Status:        p.Status(),
	}
}

func newCategoryPayload(c *domain.Category) categoryPayload {
	return categoryPayload{
		ID:     c.ID(),
		Name:   c.Name(),
		Slug:   c.Slug(),
		Active: c.IsActive(),
	}
}

func newUserPayload(u *domain.User) userPayload {
	return userPayload{
		ID:     u.ID(),
		Email:  u.Email(),
		Role:   u.Role(),
		Active: u.IsActive(),
	}
}
