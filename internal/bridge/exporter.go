package bridge

import (
	"time"

	"go.uber.org/zap"

	"storyloom/internal/story"
)

// Exporter publishes state snapshots for the visualizer. It owns the
// version counter; the editor process constructs exactly one.
type Exporter struct {
	channel *StateChannel
	log     *zap.Logger
	version uint64
	now     func() time.Time
}

func NewExporter(channel *StateChannel, log *zap.Logger) *Exporter {
	e := &Exporter{channel: channel, log: log, now: time.Now}
	// Resume numbering from a prior session's envelope so a reader that
	// outlives an editor restart still sees versions advance. An
	// unreadable envelope just restarts the counter.
	if env, ok, err := channel.TryRead(); err == nil && ok {
		e.version = env.Version
	}
	return e
}

// Version returns the version of the last successful export.
func (e *Exporter) Version() uint64 {
	return e.version
}

// Export atomically publishes a snapshot of the graph and bumps the
// version. On failure the previously exported envelope remains valid
// and the error is surfaced to the caller, since it means the
// visualizer will keep rendering stale content.
func (e *Exporter) Export(meta story.Metadata, graph story.Graph) error {
	env := StateEnvelope{
		Schema:   SchemaVersion,
		Version:  e.version + 1,
		SavedAt:  e.now(),
		Metadata: meta,
		Graph:    graph.Clone(),
	}
	if err := e.channel.TryWrite(env); err != nil {
		e.log.Error("state export failed", zap.Error(err))
		return err
	}
	e.version = env.Version
	e.log.Debug("state exported",
		zap.Uint64("version", e.version),
		zap.Int("nodes", len(graph)))
	return nil
}
