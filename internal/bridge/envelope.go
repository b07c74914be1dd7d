package bridge

import (
	"time"

	"storyloom/internal/story"
)

// SchemaVersion tags every envelope on the wire. A reader that finds a
// different tag declines to update rather than guessing at the layout.
const SchemaVersion = 1

// CommandKind names the remote actions the visualizer can request of
// the editor.
type CommandKind string

const (
	// CommandEditNode asks the editor to open a node for editing.
	CommandEditNode CommandKind = "edit-node"
	// CommandSave asks the editor to persist the project archive.
	CommandSave CommandKind = "save"
)

// StateEnvelope is the snapshot the editor exports after every content
// change. Version increases monotonically within a session; the reader
// uses it for change detection.
type StateEnvelope struct {
	Schema   int            `json:"schema"`
	Version  uint64         `json:"version"`
	SavedAt  time.Time      `json:"saved_at"`
	Metadata story.Metadata `json:"metadata"`
	Graph    story.Graph    `json:"storymap"`
}

// CommandEnvelope is a single pending remote command. At most one is
// outstanding; a newer submission supersedes an unconsumed older one.
type CommandEnvelope struct {
	Schema   int          `json:"schema"`
	Kind     CommandKind  `json:"command"`
	Target   story.NodeID `json:"node_id,omitempty"`
	Token    string       `json:"token"`
	IssuedAt time.Time    `json:"issued_at"`
}

// Age reports how long ago the command was issued.
func (c CommandEnvelope) Age(now time.Time) time.Duration {
	return now.Sub(c.IssuedAt)
}

// StateChannel and CommandChannel are the two directions of the bridge.
// The editor is sole writer of state and sole reader of commands; the
// visualizer is the reverse.
type (
	StateChannel   = Channel[StateEnvelope]
	CommandChannel = Channel[CommandEnvelope]
)
