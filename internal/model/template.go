package model

import "time"

// DefaultTemplateID identifies the built-in production template.
const DefaultTemplateID = "default"

type StageDefinition struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Days int    `json:"days" yaml:"days"`
}

// TemplateRecord is the single production template shared by all orders
// unless an order overrides its stages.
type TemplateRecord struct {
	ID        string            `json:"id" yaml:"id"`
	Name      string            `json:"name" yaml:"name"`
	Stages    []StageDefinition `json:"stages" yaml:"stages"`
	UpdatedAt time.Time         `json:"updatedAt" yaml:"updatedAt"`
}

// DefaultTemplate returns a fresh copy of the built-in template. UpdatedAt is
// left zero; stores stamp it on save.
func DefaultTemplate() TemplateRecord {
	return TemplateRecord{
		ID:   DefaultTemplateID,
		Name: "Standard production",
		Stages: []StageDefinition{
			{ID: "design", Name: "Design approval", Days: 3},
			{ID: "sourcing", Name: "Material sourcing", Days: 7},
			{ID: "cutting", Name: "Cutting", Days: 2},
			{ID: "sewing", Name: "Sewing", Days: 5},
			{ID: "quality", Name: "Quality check", Days: 1},
			{ID: "packing", Name: "Packing", Days: 1},
			{ID: "shipping", Name: "Shipping", Days: 4},
		},
	}
}

// Clone returns a deep copy so callers can't mutate a cached record.
func (t TemplateRecord) Clone() TemplateRecord {
	out := t
	if t.Stages != nil {
		out.Stages = append([]StageDefinition(nil), t.Stages...)
	}
	return out
}

// TotalDays is the sum of all stage durations.
func (t TemplateRecord) TotalDays() int {
	n := 0
	for _, s := range t.Stages {
		n += s.Days
	}
	return n
}

// StageValues seeds per-order stage values from the template.
func (t TemplateRecord) StageValues() []StageValue {
	out := make([]StageValue, 0, len(t.Stages))
	for _, s := range t.Stages {
		out = append(out, StageValue{StageID: s.ID, Name: s.Name, Days: s.Days})
	}
	return out
}
