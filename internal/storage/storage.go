// Package storage persists comments and drawings as two flat JSON lists under
// fixed, versioned keys.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/sushantdwivedi/Frame-io/internal/state"
)

const (
	CommentsKey = "comments_v1"
	DrawingsKey = "drawings_v1"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Store is the persistence collaborator. Save calls replace the whole list.
type Store interface {
	LoadComments(ctx context.Context) ([]state.Comment, error)
	LoadDrawings(ctx context.Context) ([]state.Stroke, error)
	SaveComments(ctx context.Context, comments []state.Comment) error
	SaveDrawings(ctx context.Context, drawings []state.Stroke) error
	ClearAll(ctx context.Context) error
}

// LoadAll loads both lists concurrently.
func LoadAll(ctx context.Context, s Store) ([]state.Comment, []state.Stroke, error) {
	var comments []state.Comment
	var drawings []state.Stroke

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		comments, err = s.LoadComments(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		drawings, err = s.LoadDrawings(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return comments, drawings, nil
}

// Open builds the store named by backend. path is only used by sqlite.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "sqlite":
		return OpenSQLite(path)
	case "memory", "":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

func decodeList[T any](key string, raw []byte) ([]T, error) {
	if len(raw) == 0 {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func encodeList[T any](key string, list []T) ([]byte, error) {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return data, nil
}
