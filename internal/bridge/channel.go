// Package bridge implements the filesystem mailbox that lets the editor
// and visualizer processes observe and command each other without a
// shared memory space or a network server. Each direction is a one-slot
// channel at a well-known path with a single writer and a single reader;
// atomic temp-file-then-rename replacement is the only synchronization
// primitive.
package bridge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Channel is a one-slot file mailbox for values of type T. TryWrite
// replaces the slot atomically; a reader at any instant sees either the
// previous complete value or the new one, never a partial write. Roles
// are fixed by convention: exactly one process writes a given channel
// and exactly one reads it.
type Channel[T any] struct {
	path string
}

func NewChannel[T any](path string) *Channel[T] {
	return &Channel[T]{path: path}
}

func (c *Channel[T]) Path() string {
	return c.path
}

// TryWrite marshals v and atomically replaces the slot. On marshal
// failure nothing is written and any previous value stays intact. The
// temp file carries a random suffix so a crashed writer's leftover can
// never be renamed over by mistake.
func (c *Channel[T]) TryWrite(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(c.path), err)
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(c.path), err)
		}
	}

	tmp := fmt.Sprintf("%s.tmp.%s", c.path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(c.path), err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", filepath.Base(c.path), err)
	}
	return nil
}

// TryRead returns the current slot value. An absent or empty slot
// yields ok=false with no error. A decode failure is returned to the
// caller, which treats it as transient and retries next interval.
func (c *Channel[T]) TryRead() (T, bool, error) {
	var v T
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return v, false, nil
		}
		return v, false, fmt.Errorf("reading %s: %w", filepath.Base(c.path), err)
	}
	if len(data) == 0 {
		return v, false, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, fmt.Errorf("decoding %s: %w", filepath.Base(c.path), err)
	}
	return v, true, nil
}

// Clear empties the slot. Clearing an already-empty slot is a no-op.
func (c *Channel[T]) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing %s: %w", filepath.Base(c.path), err)
	}
	return nil
}
