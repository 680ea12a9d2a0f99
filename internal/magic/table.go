// Package magic provides a static command table: named cell commands that
// take a label and a block of executable content.
package magic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownCommand is returned when dispatching a name that was never registered.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrDuplicateCommand is returned when registering a name twice.
	ErrDuplicateCommand = errors.New("command already registered")
)

// Handler runs a cell command for a label and its attached block.
type Handler func(ctx context.Context, label, block string) error

// Table maps command names to handlers.
type Table struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewTable creates an empty command table.
func NewTable() *Table {
	return &Table{handlers: make(map[string]Handler)}
}

// Register adds a handler under name.
func (t *Table) Register(name string, h Handler) error {
	if name == "" {
		return errors.New("command name must not be empty")
	}
	if h == nil {
		return fmt.Errorf("command %q: nil handler", name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.handlers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	t.handlers[name] = h
	return nil
}

// Lookup returns the handler registered under name.
func (t *Table) Lookup(name string) (Handler, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.handlers[name]
	return h, ok
}

// Names returns the registered command names in sorted order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.handlers))
	for name := range t.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the handler registered under name.
// Errors returned by the handler are passed through unchanged.
func (t *Table) Dispatch(ctx context.Context, name, label, block string) error {
	h, ok := t.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return h(ctx, label, block)
}
