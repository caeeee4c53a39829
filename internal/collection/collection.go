// Package collection loads and saves JSON-encoded values through a kv.Storage.
//
// Neither direction ever fails from the caller's point of view: a missing,
// unreadable or corrupt entry yields the default, and write errors are logged
// and dropped.
package collection

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/MrSnakeDoc/startpage/internal/kv"
	"github.com/MrSnakeDoc/startpage/internal/logger"
)

type status int

const (
	found status = iota
	absent
	corrupt
	unreadable
)

// Load decodes the value stored under key, or returns def when the entry is
// absent, blank, JSON null, or not valid JSON for T.
func Load[T any](ctx context.Context, s kv.Storage, key string, def T, log logger.Logger) T {
	v, _ := load(ctx, s, key, def, log)
	return v
}

// LoadOrSeed behaves like Load and additionally writes def back when the
// entry was absent or corrupt, so generated values (ids) become stable. A
// backend read error never triggers a write: it could clobber real data.
func LoadOrSeed[T any](ctx context.Context, s kv.Storage, key string, def T, log logger.Logger) T {
	v, st := load(ctx, s, key, def, log)
	if st == absent || st == corrupt {
		Save(ctx, s, key, def, log)
	}
	return v
}

func load[T any](ctx context.Context, s kv.Storage, key string, def T, log logger.Logger) (T, status) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		log.Warn("storage read failed, using defaults",
			logger.String("key", key),
			logger.Error(err))
		return def, unreadable
	}
	if !ok {
		log.Debug("storage entry absent, using defaults", logger.String("key", key))
		return def, absent
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return def, absent
	}

	var v T
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		log.Warn("storage entry is not valid JSON, using defaults",
			logger.String("key", key),
			logger.Error(err))
		return def, corrupt
	}
	return v, found
}

// Save encodes v and writes it under key. Failures are logged only.
func Save[T any](ctx context.Context, s kv.Storage, key string, v T, log logger.Logger) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Warn("failed to encode collection", logger.String("key", key), logger.Error(err))
		return
	}
	if err := s.Set(ctx, key, string(data)); err != nil {
		log.Warn("storage write failed", logger.String("key", key), logger.Error(err))
	}
}
