package production

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"production/internal/cache"
	"production/internal/model"
)

func newTemplateStore(t *testing.T) (*TemplateStore, *faultyStorage) {
	t.Helper()
	kv := newFaulty()
	return NewTemplateStore(kv, WithLogger(quietLogger()), WithClock(testClock())), kv
}

func withoutTimestamp(r model.TemplateRecord) model.TemplateRecord {
	r.UpdatedAt = time.Time{}
	return r
}

func TestTemplateStore_LoadPersistsDefault(t *testing.T) {
	ctx := context.Background()
	s, kv := newTemplateStore(t)

	got := s.Load(ctx)
	assert.Equal(t, model.DefaultTemplate(), withoutTimestamp(got))
	assert.Equal(t, fixedNow, got.UpdatedAt)

	raw, err := kv.Get(ctx, TemplateKey)
	require.NoError(t, err)
	var stored model.TemplateRecord
	require.NoError(t, json.Unmarshal(raw, &stored))
	assert.Equal(t, got, stored)
}

func TestTemplateStore_LoadReturnsStored(t *testing.T) {
	ctx := context.Background()
	s, kv := newTemplateStore(t)

	rec := model.TemplateRecord{ID: "custom", Name: "Rush", Stages: []model.StageDefinition{{ID: "a", Name: "A", Days: 1}}}
	b, _ := json.Marshal(rec)
	require.NoError(t, kv.Set(ctx, TemplateKey, b))
	kv.sets = 0

	assert.Equal(t, rec, s.Load(ctx))
	assert.Zero(t, kv.sets)
}

func TestTemplateStore_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	s, _ := newTemplateStore(t)

	rec := model.TemplateRecord{
		ID:        "custom",
		Name:      "Rush",
		Stages:    []model.StageDefinition{{ID: "sewing", Name: "Sewing", Days: 2}},
		UpdatedAt: fixedNow.Add(-time.Hour),
	}
	saved, err := s.Save(ctx, rec)
	require.NoError(t, err)

	got := s.Load(ctx)
	assert.Equal(t, saved, got)
	assert.Equal(t, withoutTimestamp(rec), withoutTimestamp(got))
	assert.False(t, got.UpdatedAt.Before(rec.UpdatedAt))
}

func TestTemplateStore_SaveNeverMovesTimestampBack(t *testing.T) {
	s, _ := newTemplateStore(t)
	future := fixedNow.Add(24 * time.Hour)

	saved, err := s.Save(context.Background(), model.TemplateRecord{ID: "x", UpdatedAt: future})
	require.NoError(t, err)
	assert.Equal(t, future, saved.UpdatedAt)
}

func TestTemplateStore_ResetThenLoad(t *testing.T) {
	ctx := context.Background()
	s, _ := newTemplateStore(t)

	_, err := s.Save(ctx, model.TemplateRecord{ID: "custom", Name: "Rush"})
	require.NoError(t, err)

	_, err = s.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultTemplate(), withoutTimestamp(s.Load(ctx)))
}

func TestTemplateStore_CorruptBlobFallsBackWithoutPersisting(t *testing.T) {
	ctx := context.Background()
	s, kv := newTemplateStore(t)
	require.NoError(t, kv.Set(ctx, TemplateKey, []byte("{not json")))
	kv.sets = 0

	got := s.Load(ctx)
	assert.Equal(t, model.DefaultTemplate(), withoutTimestamp(got))
	assert.Zero(t, kv.sets)

	raw, err := kv.Get(ctx, TemplateKey)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))
}

func TestTemplateStore_NullBlobFallsBack(t *testing.T) {
	for _, blob := range []string{`null`, `{}`} {
		t.Run(blob, func(t *testing.T) {
			ctx := context.Background()
			s, kv := newTemplateStore(t)
			require.NoError(t, kv.Set(ctx, TemplateKey, []byte(blob)))
			kv.sets = 0

			assert.Equal(t, model.DefaultTemplate(), withoutTimestamp(s.Load(ctx)))
			assert.Equal(t, model.DefaultTemplate(), withoutTimestamp(s.Current(ctx)))
			assert.Zero(t, kv.sets)
		})
	}
}

func TestTemplateStore_ReadErrorFallsBackWithoutPersisting(t *testing.T) {
	s, kv := newTemplateStore(t)
	kv.getErr = errors.New("storage unavailable")

	got := s.Load(context.Background())
	assert.Equal(t, model.DefaultTemplate(), withoutTimestamp(got))
	assert.Zero(t, kv.sets)
}

func TestTemplateStore_LoadSurvivesFailedDefaultWrite(t *testing.T) {
	s, kv := newTemplateStore(t)
	kv.setErr = errors.New("quota exceeded")

	got := s.Load(context.Background())
	assert.Equal(t, model.DefaultTemplate(), withoutTimestamp(got))
	assert.Equal(t, 1, kv.sets)
}

func TestTemplateStore_SavePropagatesWriteError(t *testing.T) {
	ctx := context.Background()
	s, kv := newTemplateStore(t)
	before := s.Load(ctx)

	kv.setErr = errors.New("quota exceeded")
	_, err := s.Save(ctx, model.TemplateRecord{ID: "custom"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	_, err = s.Reset(ctx)
	require.Error(t, err)

	// cache untouched by the failed writes
	assert.Equal(t, before, s.Current(ctx))
}

func TestTemplateStore_CurrentUsesCache(t *testing.T) {
	ctx := context.Background()
	s, kv := newTemplateStore(t)

	saved, err := s.Save(ctx, model.TemplateRecord{ID: "custom", Name: "Rush"})
	require.NoError(t, err)

	kv.getErr = errors.New("storage unavailable")
	assert.Equal(t, saved, s.Current(ctx))
}

func TestTemplateStore_CurrentLoadsOnFirstUse(t *testing.T) {
	s := NewTemplateStore(cache.NewMem(), WithLogger(quietLogger()), WithClock(testClock()))
	assert.Equal(t, model.DefaultTemplate(), withoutTimestamp(s.Current(context.Background())))
}

func TestTemplateStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s, _ := newTemplateStore(t)

	got := s.Current(ctx)
	got.Stages[0].Name = "mutated"
	assert.Equal(t, "Design approval", s.Current(ctx).Stages[0].Name)
}
