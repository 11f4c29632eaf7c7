// Package cache holds the in-memory key-value backend used for tests and for
// running the service without a durable store.
package cache

import "production/internal/storage"

var _ storage.Storage = (*Mem)(nil)
