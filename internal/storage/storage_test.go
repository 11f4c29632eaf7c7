package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStorageContract exercises the behaviour every backend must share.
func runStorageContract(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "template", []byte(`{"id":"a"}`)))
	got, err := s.Get(ctx, "template")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a"}`, string(got))

	require.NoError(t, s.Set(ctx, "template", []byte(`{"id":"b"}`)))
	got, err = s.Get(ctx, "template")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"b"}`, string(got))

	require.NoError(t, s.Set(ctx, "order-data", []byte(`{}`)))
	require.NoError(t, s.Delete(ctx, "template"))
	_, err = s.Get(ctx, "template")
	require.ErrorIs(t, err, ErrNotFound)

	// other keys survive, deleting twice is fine
	require.NoError(t, s.Delete(ctx, "template"))
	got, err = s.Get(ctx, "order-data")
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(got))
}
