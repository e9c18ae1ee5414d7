package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests and when Redis is unreachable
// in development. Expired keys are dropped lazily on read.
type Memory struct {
	mu   sync.Mutex
	now  func() time.Time
	data map[string]memoryEntry
}

type memoryEntry struct {
	value   string
	expires time.Time // zero means no expiry
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{now: time.Now, data: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.getLocked(key)
	if !ok {
		return "", ErrMiss
	}
	return e.value, nil
}

func (m *Memory) SetEx(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.data[key] = e
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// IncrWindow starts the expiry clock only when it creates the key
func (m *Memory) IncrWindow(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.getLocked(key)
	if !ok {
		e = memoryEntry{value: "0"}
		if ttl > 0 {
			e.expires = m.now().Add(ttl)
		}
	}
	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, err
	}
	n++
	e.value = strconv.FormatInt(n, 10)
	m.data[key] = e
	return n, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Len returns the number of live keys
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.data {
		if _, ok := m.getLocked(k); ok {
			n++
		}
	}
	return n
}

func (m *Memory) getLocked(key string) (memoryEntry, bool) {
	e, ok := m.data[key]
	if !ok {
		return e, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.data, key)
		return e, false
	}
	return e, true
}
