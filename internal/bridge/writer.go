package bridge

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storyloom/internal/story"
)

// CommandWriter submits remote commands to the editor. At most one
// command is ever pending; submitting while one is unconsumed replaces
// it, so only the newest request is ever dispatched.
type CommandWriter struct {
	channel *CommandChannel
	log     *zap.Logger
	now     func() time.Time
}

func NewCommandWriter(channel *CommandChannel, log *zap.Logger) *CommandWriter {
	return &CommandWriter{channel: channel, log: log, now: time.Now}
}

// Submit requests that the editor open the target node for editing. The
// returned token identifies this submission; callers can surface it as
// a "command sent" indicator and correlate acknowledgment.
func (w *CommandWriter) Submit(target story.NodeID) (string, error) {
	return w.write(CommandEnvelope{Kind: CommandEditNode, Target: target})
}

// SubmitSave requests that the editor persist the project archive.
func (w *CommandWriter) SubmitSave() (string, error) {
	return w.write(CommandEnvelope{Kind: CommandSave})
}

func (w *CommandWriter) write(env CommandEnvelope) (string, error) {
	env.Schema = SchemaVersion
	env.Token = uuid.NewString()
	env.IssuedAt = w.now()
	if err := w.channel.TryWrite(env); err != nil {
		return "", err
	}
	w.log.Debug("command submitted",
		zap.String("kind", string(env.Kind)),
		zap.String("node", string(env.Target)),
		zap.String("token", env.Token))
	return env.Token, nil
}
