// Package visitor resolves the anonymous id of the visitor using this client.
package visitor

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khanglvm/calc-hub/internal/storage"
)

const idKey = "id"

// Resolve returns the visitor id to use.
//
// A non-empty override wins and is not persisted. Otherwise the persisted id
// is returned, or a new random id is generated and persisted best-effort. When
// storage is unavailable every call yields a fresh id, which re-buckets the
// visitor the same way an unpersisted assignment does.
func Resolve(kv storage.KV, override string, logger *zap.Logger) string {
	if logger == nil {
		logger = zap.NewNop()
	}
	if id := strings.TrimSpace(override); id != "" {
		return id
	}

	if id, ok, err := kv.Get(storage.ScopeVisitor, idKey); err == nil && ok && id != "" {
		return id
	}

	id := uuid.NewString()
	if err := kv.Set(storage.ScopeVisitor, idKey, id); err != nil {
		logger.Debug("visitor id not persisted", zap.Error(err))
	}
	return id
}

// Reset forgets the persisted visitor id.
func Reset(kv storage.KV) error {
	return kv.Remove(storage.ScopeVisitor, idKey)
}
