package bridge

import (
	"context"
	"time"

	"go.uber.org/zap"

	"storyloom/internal/story"
)

// Dispatcher receives commands the poller accepts. Implemented by the
// editor shell; OpenNode corresponds to opening the node's edit view.
type Dispatcher interface {
	OpenNode(id story.NodeID)
	SaveProject()
}

// GraphSource yields the editor's current graph so the poller can
// reject commands whose target no longer exists.
type GraphSource func() story.Graph

// Poller is the editor-side background task that consumes remote
// commands. The slot's lifecycle is Empty -> Pending (written by the
// visualizer) -> Acknowledged (cleared here) -> Empty; acknowledgment
// is the clear plus an in-process token memory, so re-observing the
// same token never dispatches twice even if the clear raced a rewrite.
type Poller struct {
	channel   *CommandChannel
	dispatch  Dispatcher
	graph     GraphSource
	staleness time.Duration
	log       *zap.Logger
	now       func() time.Time

	ackedToken string
}

func NewPoller(channel *CommandChannel, dispatch Dispatcher, graph GraphSource, staleness time.Duration, log *zap.Logger) *Poller {
	return &Poller{
		channel:   channel,
		dispatch:  dispatch,
		graph:     graph,
		staleness: staleness,
		log:       log,
		now:       time.Now,
	}
}

// PollOnce checks the command slot and dispatches at most one command.
// Every failure mode is recovered locally: decode failures and missing
// files retry next interval, stale or already-acknowledged tokens are
// dropped, dangling targets are dropped with a warning.
func (p *Poller) PollOnce() {
	env, ok, err := p.channel.TryRead()
	if err != nil {
		p.log.Debug("command poll skipped", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if env.Schema != SchemaVersion {
		p.log.Warn("command envelope schema mismatch",
			zap.Int("got", env.Schema),
			zap.Int("want", SchemaVersion))
		p.acknowledge(env.Token)
		return
	}
	if env.Token == "" || env.Token == p.ackedToken {
		return
	}
	if p.staleness > 0 && env.Age(p.now()) > p.staleness {
		p.log.Debug("stale command dropped",
			zap.String("token", env.Token),
			zap.Duration("age", env.Age(p.now())))
		p.acknowledge(env.Token)
		return
	}

	switch env.Kind {
	case CommandEditNode:
		if _, exists := p.graph()[env.Target]; !exists {
			p.log.Warn("command targets unknown node",
				zap.String("node", string(env.Target)),
				zap.String("token", env.Token))
			p.acknowledge(env.Token)
			return
		}
		// Acknowledge before dispatching: a dispatch that blocks or
		// panics must not cause the same token to fire again.
		p.acknowledge(env.Token)
		p.log.Info("opening node on remote request",
			zap.String("node", string(env.Target)),
			zap.String("token", env.Token))
		p.dispatch.OpenNode(env.Target)
	case CommandSave:
		p.acknowledge(env.Token)
		p.log.Info("saving project on remote request", zap.String("token", env.Token))
		p.dispatch.SaveProject()
	default:
		p.log.Warn("unknown command kind dropped",
			zap.String("kind", string(env.Kind)),
			zap.String("token", env.Token))
		p.acknowledge(env.Token)
	}
}

func (p *Poller) acknowledge(token string) {
	p.ackedToken = token
	if err := p.channel.Clear(); err != nil {
		// The token memory still suppresses redispatch; the leftover
		// file is overwritten by the next submission.
		p.log.Debug("command clear failed", zap.Error(err))
	}
}

// Run drives PollOnce on a fixed interval until ctx is done. It is the
// cooperative background task of the editor process: each tick does one
// non-blocking check and yields, so the hosting loop never freezes.
func (p *Poller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PollOnce()
		}
	}
}
