package bridge

import (
	"go.uber.org/zap"

	"storyloom/internal/story"
)

// Snapshot is the visualizer's read-only view of the editor's state.
type Snapshot struct {
	Version  uint64
	Metadata story.Metadata
	Graph    story.Graph
}

// Reader polls the state channel for new snapshots. A snapshot is
// returned exactly once per version change; everything that can go
// wrong at poll time (absent file, torn external corruption, schema
// mismatch) degrades to "no update" so the UI never sees a bridge
// error.
type Reader struct {
	channel     *StateChannel
	log         *zap.Logger
	lastVersion uint64
	seen        bool
}

func NewReader(channel *StateChannel, log *zap.Logger) *Reader {
	return &Reader{channel: channel, log: log}
}

// Poll returns the latest snapshot and true when the envelope's version
// differs from the last one observed. "Differs" rather than "exceeds":
// an editor restarted after external cleanup restarts its counter, and
// the visualizer should converge on whatever the editor now publishes.
func (r *Reader) Poll() (*Snapshot, bool) {
	env, ok, err := r.channel.TryRead()
	if err != nil {
		r.log.Debug("state poll skipped", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if env.Schema != SchemaVersion {
		r.log.Warn("state envelope schema mismatch",
			zap.Int("got", env.Schema),
			zap.Int("want", SchemaVersion))
		return nil, false
	}
	if r.seen && env.Version == r.lastVersion {
		return nil, false
	}
	r.lastVersion = env.Version
	r.seen = true
	r.log.Debug("state updated", zap.Uint64("version", env.Version))
	return &Snapshot{Version: env.Version, Metadata: env.Metadata, Graph: env.Graph}, true
}

// Current returns the latest complete envelope regardless of whether it
// was already observed, without advancing the reader's change cursor.
// Inspection surfaces use it; the render loop uses Poll.
func (r *Reader) Current() (*Snapshot, bool) {
	env, ok, err := r.channel.TryRead()
	if err != nil || !ok || env.Schema != SchemaVersion {
		return nil, false
	}
	return &Snapshot{Version: env.Version, Metadata: env.Metadata, Graph: env.Graph}, true
}
