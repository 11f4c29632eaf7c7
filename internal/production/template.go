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

var errEmptyTemplate = errors.New("decode template: record has no id")

// TemplateStore owns the single production template.
type TemplateStore struct {
	kv storage.Storage
	options

	mu     sync.Mutex
	cached *model.TemplateRecord
}

func NewTemplateStore(kv storage.Storage, opts ...Option) *TemplateStore {
	return &TemplateStore{kv: kv, options: buildOptions(opts)}
}

// Load reads the stored template. When nothing is stored the default is
// persisted and returned. A failed read or a corrupt blob yields the default
// without touching storage.
func (s *TemplateStore) Load(ctx context.Context) model.TemplateRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.read(ctx)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		rec = s.stampedDefault()
		if err := s.write(ctx, rec); err != nil {
			s.log.Warn("persist default template", "error", err)
		}
	default:
		s.log.Warn("load template, using default", "error", err)
		rec = s.stampedDefault()
	}

	s.cached = &rec
	return rec.Clone()
}

// Current returns the in-memory copy, loading it on first use.
func (s *TemplateStore) Current(ctx context.Context) model.TemplateRecord {
	s.mu.Lock()
	if s.cached != nil {
		rec := s.cached.Clone()
		s.mu.Unlock()
		return rec
	}
	s.mu.Unlock()
	return s.Load(ctx)
}

// Save stamps rec and stores it as the only template.
func (s *TemplateStore) Save(ctx context.Context, rec model.TemplateRecord) (model.TemplateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec = rec.Clone()
	ts := s.now().UTC()
	if ts.Before(rec.UpdatedAt) {
		ts = rec.UpdatedAt
	}
	rec.UpdatedAt = ts

	if err := s.write(ctx, rec); err != nil {
		s.log.Error("save template", "template_id", rec.ID, "error", err)
		return model.TemplateRecord{}, err
	}
	s.cached = &rec
	return rec.Clone(), nil
}

// Reset stores the built-in default template.
func (s *TemplateStore) Reset(ctx context.Context) (model.TemplateRecord, error) {
	return s.Save(ctx, model.DefaultTemplate())
}

func (s *TemplateStore) read(ctx context.Context) (model.TemplateRecord, error) {
	b, err := s.kv.Get(ctx, TemplateKey)
	if err != nil {
		return model.TemplateRecord{}, err
	}
	var rec model.TemplateRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return model.TemplateRecord{}, fmt.Errorf("decode template: %w", err)
	}
	// "null" and "{}" decode cleanly but carry no template.
	if rec.ID == "" {
		return model.TemplateRecord{}, errEmptyTemplate
	}
	return rec, nil
}

func (s *TemplateStore) write(ctx context.Context, rec model.TemplateRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	if err := s.kv.Set(ctx, TemplateKey, b); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

func (s *TemplateStore) stampedDefault() model.TemplateRecord {
	rec := model.DefaultTemplate()
	rec.UpdatedAt = s.now().UTC()
	return rec
}
