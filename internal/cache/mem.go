package cache

import (
	"context"
	"sync"

	"production/internal/storage"
)

// Mem is a process-local storage.Storage over sync.Map. Values are copied on
// the way in and out.
type Mem struct{ m sync.Map }

func NewMem() *Mem { return &Mem{} }

func (c *Mem) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(v.([]byte)), nil
}

func (c *Mem) Set(_ context.Context, key string, value []byte) error {
	c.m.Store(key, clone(value))
	return nil
}

func (c *Mem) Delete(_ context.Context, key string) error {
	c.m.Delete(key)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return append([]byte(nil), b...)
}
