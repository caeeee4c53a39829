// Package kv defines the key-value storage capability the registries persist
// through, plus an in-memory implementation and a key-prefixing wrapper.
package kv

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
)

// Well-known keys. They match the layout the start page has always used so
// that exported blobs stay interchangeable.
const (
	KeyEngines        = "engines"
	KeySelectedEngine = "selectedEngine"
	KeyPinnedSites    = "pinnedWebsites"

	// The defaults each list was last seeded from. A list still equal to
	// them follows later changes of the defaults.
	KeyEngineDefaults = "engineDefaults"
	KeyPinDefaults    = "pinnedWebsiteDefaults"
)

// Storage is a flat string key-value store. Get reports ok=false when the key
// is absent; err is reserved for backend failures.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Pinger is implemented by backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Lister is implemented by backends that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// ErrUnavailable is returned by Memory when failures are switched on.
var ErrUnavailable = errors.New("storage unavailable")

// Memory is an in-memory Storage safe for concurrent use.
type Memory struct {
	mu        sync.RWMutex
	data      map[string]string
	failRead  bool
	failWrite bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failRead {
		return "", false, ErrUnavailable
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWrite {
		return ErrUnavailable
	}
	m.data[key] = value
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failRead {
		return nil, ErrUnavailable
	}
	out := make([]string, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	slices.Sort(out)
	return out, nil
}

func (m *Memory) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failRead {
		return ErrUnavailable
	}
	return nil
}

// FailReads makes every subsequent Get return ErrUnavailable.
func (m *Memory) FailReads(fail bool) {
	m.mu.Lock()
	m.failRead = fail
	m.mu.Unlock()
}

// FailWrites makes every subsequent Set return ErrUnavailable (quota exceeded,
// storage disabled, ...).
func (m *Memory) FailWrites(fail bool) {
	m.mu.Lock()
	m.failWrite = fail
	m.mu.Unlock()
}

// Namespace returns a Storage that prefixes every key with prefix + ":".
// An empty prefix returns s unchanged.
func Namespace(s Storage, prefix string) Storage {
	if prefix == "" {
		return s
	}
	return &namespaced{inner: s, prefix: prefix + ":"}
}

type namespaced struct {
	inner  Storage
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Ping(ctx context.Context) error {
	if p, ok := n.inner.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Keys lists the inner keys under the prefix, with the prefix stripped.
// Backends that cannot list report no keys.
func (n *namespaced) Keys(ctx context.Context) ([]string, error) {
	l, ok := n.inner.(Lister)
	if !ok {
		return nil, nil
	}
	all, err := l.Keys(ctx)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, k := range all {
		if rest, found := strings.CutPrefix(k, n.prefix); found {
			out = append(out, rest)
		}
	}
	return out, nil
}
