package story

import "sort"

// NodeID identifies a story node. IDs are stable for the lifetime of an
// authoring session and never reused.
type NodeID string

// NodeKind classifies a node by its outgoing choices. The visualizer's
// color scheme maps directly onto this.
type NodeKind string

const (
	KindEnding    NodeKind = "ending"
	KindLinear    NodeKind = "linear"
	KindBranching NodeKind = "branching"
)

type Choice struct {
	Text   string `json:"text"`
	Target NodeID `json:"id,omitempty"`
	Ending bool   `json:"ending,omitempty"`
}

type Node struct {
	Text    string   `json:"description"`
	Choices []Choice `json:"choices,omitempty"`
}

func (n *Node) Kind() NodeKind {
	switch {
	case n == nil || len(n.Choices) == 0:
		return KindEnding
	case len(n.Choices) == 1:
		return KindLinear
	default:
		return KindBranching
	}
}

// Graph is the authoritative story content, owned by the editor process.
// The visualizer only ever holds a read-only snapshot of it.
type Graph map[NodeID]*Node

type Metadata struct {
	Author      string   `json:"Author"`
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Start       NodeID   `json:"start"`
	Tags        []string `json:"tag,omitempty"`
	Footer      string   `json:"footer,omitempty"`
}

// IDs returns the graph's node IDs in sorted order.
func (g Graph) IDs() []NodeID {
	ids := make([]NodeID, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ReferencedIDs returns every node ID that exists or is targeted by a
// choice, sorted. Targets of ending-tagged choices are excluded; a
// referenced-but-absent ID renders as a placeholder in the visualizer.
func (g Graph) ReferencedIDs() []NodeID {
	seen := make(map[NodeID]struct{}, len(g))
	for id, node := range g {
		seen[id] = struct{}{}
		if node == nil {
			continue
		}
		for _, choice := range node.Choices {
			if choice.Ending || choice.Target == "" {
				continue
			}
			seen[choice.Target] = struct{}{}
		}
	}
	ids := make([]NodeID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone returns a deep copy of the graph. Snapshots handed across the
// bridge must not alias editor-owned nodes.
func (g Graph) Clone() Graph {
	if g == nil {
		return nil
	}
	out := make(Graph, len(g))
	for id, node := range g {
		if node == nil {
			out[id] = nil
			continue
		}
		copied := &Node{Text: node.Text}
		if node.Choices != nil {
			copied.Choices = make([]Choice, len(node.Choices))
			copy(copied.Choices, node.Choices)
		}
		out[id] = copied
	}
	return out
}
