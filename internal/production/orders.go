package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"production/internal/model"
	"production/internal/storage"
)

var ErrEmptyOrderID = errors.New("production: empty order id")

// OrderStore owns the order-data table. Each write is a read-modify-write
// of the whole blob, serialized within the process.
type OrderStore struct {
	kv storage.Storage
	options

	mu sync.Mutex
}

func NewOrderStore(kv storage.Storage, opts ...Option) *OrderStore {
	return &OrderStore{kv: kv, options: buildOptions(opts)}
}

// GetAll returns every stored record. A missing or corrupt blob reads as an
// empty table.
func (s *OrderStore) GetAll(ctx context.Context) model.OrderRecordTable {
	return s.readTable(ctx)
}

func (s *OrderStore) Get(ctx context.Context, orderID string) (model.OrderRecord, bool) {
	rec, ok := s.readTable(ctx)[orderID]
	return rec, ok
}

// Upsert replaces the record for orderID with a freshly stamped one.
func (s *OrderStore) Upsert(ctx context.Context, orderID string, stages []model.StageValue, supplierIDs []string) (model.OrderRecord, error) {
	if orderID == "" {
		return model.OrderRecord{}, ErrEmptyOrderID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.readTable(ctx)
	rec := model.OrderRecord{
		OrderID:             orderID,
		Stages:              append([]model.StageValue{}, stages...),
		SelectedSupplierIDs: model.UniqueIDs(supplierIDs),
		UpdatedAt:           s.now().UTC(),
	}
	table[orderID] = rec

	if err := s.writeTable(ctx, table); err != nil {
		s.log.Error("save order data", "order_id", orderID, "error", err)
		return model.OrderRecord{}, err
	}
	return rec.Clone(), nil
}

// Remove deletes the record for orderID and reports whether one was stored.
// Unknown ids are a no-op and leave the blob untouched.
func (s *OrderStore) Remove(ctx context.Context, orderID string) (bool, error) {
	if orderID == "" {
		return false, ErrEmptyOrderID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.readTable(ctx)
	if _, ok := table[orderID]; !ok {
		return false, nil
	}
	delete(table, orderID)

	if err := s.writeTable(ctx, table); err != nil {
		s.log.Error("remove order data", "order_id", orderID, "error", err)
		return false, err
	}
	return true, nil
}

func (s *OrderStore) readTable(ctx context.Context) model.OrderRecordTable {
	b, err := s.kv.Get(ctx, OrderDataKey)
	if errors.Is(err, storage.ErrNotFound) {
		return model.OrderRecordTable{}
	}
	if err != nil {
		s.log.Warn("read order data, using empty table", "error", err)
		return model.OrderRecordTable{}
	}

	var table model.OrderRecordTable
	if err := json.Unmarshal(b, &table); err != nil {
		s.log.Warn("decode order data, using empty table", "error", err)
		return model.OrderRecordTable{}
	}
	if table == nil {
		table = model.OrderRecordTable{}
	}
	return table
}

func (s *OrderStore) writeTable(ctx context.Context, table model.OrderRecordTable) error {
	b, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode order data: %w", err)
	}
	if err := s.kv.Set(ctx, OrderDataKey, b); err != nil {
		return fmt.Errorf("write order data: %w", err)
	}
	return nil
}
