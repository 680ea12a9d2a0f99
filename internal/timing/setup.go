package timing

import (
	"context"
	"strings"

	"github.com/MeKo-Tech/celltime/internal/magic"
)

// CommandName is the cell command registered by Setup.
const CommandName = "record-time"

// Executor runs a block of host-executable content.
type Executor interface {
	Run(ctx context.Context, block string) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, block string) error

// Run calls f(ctx, block).
func (f ExecutorFunc) Run(ctx context.Context, block string) error {
	return f(ctx, block)
}

// Setup registers the record-time command. The command label is the record
// name and the block is run through exec while the recorder times it.
func Setup(table *magic.Table, rec *Recorder, exec Executor) error {
	return table.Register(CommandName, func(ctx context.Context, label, block string) error {
		name := strings.TrimSpace(label)
		_, err := rec.Record(ctx, name, func(ctx context.Context) error {
			return exec.Run(ctx, block)
		})
		return err
	})
}
