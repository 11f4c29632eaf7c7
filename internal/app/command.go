package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"production/internal/model"
)

const (
	OpUpsert = "upsert"
	OpRemove = "remove"
)

var ErrBadCommand = errors.New("bad order data command")

// Command is the bus message that changes one order's data.
type Command struct {
	Op                  string             `json:"op"`
	OrderID             string             `json:"orderId"`
	Stages              []model.StageValue `json:"stages,omitempty"`
	SelectedSupplierIDs []string           `json:"selectedSupplierIds,omitempty"`
}

func DecodeCommand(data []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrBadCommand, err)
	}
	if c.OrderID == "" {
		return Command{}, fmt.Errorf("%w: missing orderId", ErrBadCommand)
	}
	switch c.Op {
	case OpUpsert, OpRemove:
	default:
		return Command{}, fmt.Errorf("%w: unknown op %q", ErrBadCommand, c.Op)
	}
	return c, nil
}

// HandleMsg applies one order-data command from the bus.
func (a *App) HandleMsg(data []byte) error {
	c, err := DecodeCommand(data)
	if err != nil {
		return err
	}
	ctx := context.Background()
	switch c.Op {
	case OpRemove:
		_, err := a.RemoveOrderData(ctx, c.OrderID)
		return err
	default:
		_, err := a.SaveOrderData(ctx, c.OrderID, c.Stages, c.SelectedSupplierIDs)
		return err
	}
}
