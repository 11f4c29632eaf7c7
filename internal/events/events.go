package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"production/internal/model"
)

// Event topic constants
const (
	TopicTemplateSaved    = "production.template.saved"
	TopicTemplateReset    = "production.template.reset"
	TopicOrderDataSaved   = "production.order_data.saved"
	TopicOrderDataRemoved = "production.order_data.removed"
)

// Envelope fields shared by every event.
type Meta struct {
	ID string    `json:"id"`
	At time.Time `json:"at"`
}

func NewMeta(at time.Time) Meta {
	return Meta{ID: uuid.NewString(), At: at.UTC()}
}

type TemplateSaved struct {
	Meta
	Template model.TemplateRecord `json:"template"`
}

type OrderDataSaved struct {
	Meta
	Order model.OrderRecord `json:"order"`
}

type OrderDataRemoved struct {
	Meta
	OrderID string `json:"orderId"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
