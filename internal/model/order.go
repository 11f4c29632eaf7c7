package model

import "time"

// StageValue is the per-order value of one production stage.
type StageValue struct {
	StageID string `json:"stageId" yaml:"stageId"`
	Name    string `json:"name" yaml:"name"`
	Days    int    `json:"days" yaml:"days"`
	Status  string `json:"status,omitempty" yaml:"status,omitempty"`
	Notes   string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// OrderRecord holds per-order overrides: stage values and the suppliers
// selected for the order.
type OrderRecord struct {
	OrderID             string       `json:"orderId" yaml:"orderId"`
	Stages              []StageValue `json:"stages" yaml:"stages"`
	SelectedSupplierIDs []string     `json:"selectedSupplierIds" yaml:"selectedSupplierIds"`
	UpdatedAt           time.Time    `json:"updatedAt" yaml:"updatedAt"`
}

// OrderRecordTable maps order id to its record. It is persisted as one blob.
type OrderRecordTable map[string]OrderRecord

func (o OrderRecord) Clone() OrderRecord {
	out := o
	if o.Stages != nil {
		out.Stages = append([]StageValue(nil), o.Stages...)
	}
	if o.SelectedSupplierIDs != nil {
		out.SelectedSupplierIDs = append([]string(nil), o.SelectedSupplierIDs...)
	}
	return out
}

// UniqueIDs drops empty and repeated ids, keeping first-occurrence order.
// The result is never nil.
func UniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
