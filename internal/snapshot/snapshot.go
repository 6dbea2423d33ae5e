// Package snapshot loads and saves the whole store as one JSON document.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vvakame/foodexpress/internal/store"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

type Backend interface {
	Load(ctx context.Context) (*store.Snapshot, error)
	Save(ctx context.Context, snap *store.Snapshot) error
	Close() error
}

func Encode(snap *store.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func Decode(b []byte) (*store.Snapshot, error) {
	var snap store.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

var _ Backend = None{}

// None disables persistence.
type None struct{}

func (None) Load(ctx context.Context) (*store.Snapshot, error)     { return nil, ErrNoSnapshot }
func (None) Save(ctx context.Context, snap *store.Snapshot) error { return nil }
func (None) Close() error                                         { return nil }
