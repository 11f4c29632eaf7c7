package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"production/internal/events"
	"production/internal/model"
	"production/internal/production"
	"production/internal/storage"
)

// App ties the two stores to change events. HTTP handlers, the bus consumer
// and the CLI all go through it.
type App struct {
	Templates *production.TemplateStore
	Orders    *production.OrderStore
	Events    events.Publisher
	Log       *slog.Logger
	Now       func() time.Time
}

// New wires both stores onto kv. A nil pub disables events.
func New(kv storage.Storage, pub events.Publisher, log *slog.Logger) *App {
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	return &App{
		Templates: production.NewTemplateStore(kv, production.WithLogger(log)),
		Orders:    production.NewOrderStore(kv, production.WithLogger(log)),
		Events:    pub,
		Log:       log,
	}
}

func (a *App) logger() *slog.Logger {
	if a.Log == nil {
		return slog.Default()
	}
	return a.Log
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Warm loads the template (persisting the default on first run) and reports
// how many order records are stored.
func (a *App) Warm(ctx context.Context) {
	tpl := a.Templates.Load(ctx)
	n := len(a.Orders.GetAll(ctx))
	a.logger().Info("store ready", "template_id", tpl.ID, "stages", len(tpl.Stages), "orders", n)
}

func (a *App) Template(ctx context.Context) model.TemplateRecord {
	return a.Templates.Load(ctx)
}

func (a *App) SaveTemplate(ctx context.Context, rec model.TemplateRecord) (model.TemplateRecord, error) {
	saved, err := a.Templates.Save(ctx, rec)
	if err != nil {
		return model.TemplateRecord{}, err
	}
	a.publish(ctx, events.TopicTemplateSaved, events.TemplateSaved{Meta: events.NewMeta(a.now()), Template: saved})
	return saved, nil
}

func (a *App) ResetTemplate(ctx context.Context) (model.TemplateRecord, error) {
	saved, err := a.Templates.Reset(ctx)
	if err != nil {
		return model.TemplateRecord{}, err
	}
	a.publish(ctx, events.TopicTemplateReset, events.TemplateSaved{Meta: events.NewMeta(a.now()), Template: saved})
	return saved, nil
}

func (a *App) OrderData(ctx context.Context) model.OrderRecordTable {
	return a.Orders.GetAll(ctx)
}

func (a *App) OrderRecord(ctx context.Context, orderID string) (model.OrderRecord, bool) {
	return a.Orders.Get(ctx, orderID)
}

func (a *App) SaveOrderData(ctx context.Context, orderID string, stages []model.StageValue, supplierIDs []string) (model.OrderRecord, error) {
	rec, err := a.Orders.Upsert(ctx, orderID, stages, supplierIDs)
	if err != nil {
		return model.OrderRecord{}, err
	}
	a.publish(ctx, events.TopicOrderDataSaved, events.OrderDataSaved{Meta: events.NewMeta(a.now()), Order: rec})
	a.logger().Info("order data saved", "order_id", orderID, "stages", len(rec.Stages), "suppliers", len(rec.SelectedSupplierIDs))
	return rec, nil
}

// RemoveOrderData deletes the order's record. The removal event is published
// only when a record was actually stored.
func (a *App) RemoveOrderData(ctx context.Context, orderID string) (bool, error) {
	removed, err := a.Orders.Remove(ctx, orderID)
	if err != nil || !removed {
		return false, err
	}
	a.publish(ctx, events.TopicOrderDataRemoved, events.OrderDataRemoved{Meta: events.NewMeta(a.now()), OrderID: orderID})
	return true, nil
}

// EffectiveStages returns the order's own stages when it has a record,
// otherwise the template's stages.
func (a *App) EffectiveStages(ctx context.Context, orderID string) (stages []model.StageValue, overridden bool) {
	if rec, ok := a.Orders.Get(ctx, orderID); ok {
		return rec.Stages, true
	}
	return a.Templates.Current(ctx).StageValues(), false
}

func (a *App) publish(ctx context.Context, topic string, event any) {
	if a.Events == nil {
		return
	}
	if err := a.Events.Publish(ctx, topic, event); err != nil {
		a.logger().Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// IsBadInput reports whether err was caused by the caller's input rather
// than by storage.
func IsBadInput(err error) bool {
	return errors.Is(err, production.ErrEmptyOrderID) || errors.Is(err, ErrBadCommand)
}
