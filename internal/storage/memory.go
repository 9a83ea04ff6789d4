package storage

import (
	"context"
	"sync"

	"github.com/sushantdwivedi/Frame-io/internal/state"
)

// Memory keeps the encoded lists in a map. Values go through the same JSON
// encoding as the sqlite store so callers never share slices with it.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) get(key string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key]
}

func (m *Memory) put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *Memory) LoadComments(ctx context.Context) ([]state.Comment, error) {
	return decodeList[state.Comment](CommentsKey, m.get(CommentsKey))
}

func (m *Memory) LoadDrawings(ctx context.Context) ([]state.Stroke, error) {
	return decodeList[state.Stroke](DrawingsKey, m.get(DrawingsKey))
}

func (m *Memory) SaveComments(ctx context.Context, comments []state.Comment) error {
	data, err := encodeList(CommentsKey, comments)
	if err != nil {
		return err
	}
	m.put(CommentsKey, data)
	return nil
}

func (m *Memory) SaveDrawings(ctx context.Context, drawings []state.Stroke) error {
	data, err := encodeList(DrawingsKey, drawings)
	if err != nil {
		return err
	}
	m.put(DrawingsKey, data)
	return nil
}

func (m *Memory) ClearAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, CommentsKey)
	delete(m.data, DrawingsKey)
	return nil
}
