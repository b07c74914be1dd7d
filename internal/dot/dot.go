// Package dot renders a story graph as Graphviz DOT source. It is a
// pure function of the graph: layout itself is Graphviz's job, the
// bridge only supplies structure and the node color scheme.
package dot

import (
	"fmt"
	"strings"

	"storyloom/internal/story"
)

const labelLimit = 17

func fillColor(kind story.NodeKind) string {
	switch kind {
	case story.KindEnding:
		return "lightcoral"
	case story.KindLinear:
		return "lightyellow"
	default:
		return "lightblue"
	}
}

// Render produces DOT source for the graph. Nodes are colored by kind,
// referenced-but-missing targets render as dashed gray placeholders,
// and labels are truncated to keep the diagram legible.
func Render(graph story.Graph) string {
	if len(graph) == 0 {
		return `digraph empty_graph {
	bgcolor="transparent"
	label="No story data available\nStart the editor to create your story"
	labelloc="c"
	fontsize="16"
	fontcolor="gray"
}`
	}

	var b strings.Builder
	b.WriteString("digraph story {\n")
	b.WriteString("\trankdir=\"TB\"\n")
	b.WriteString("\tbgcolor=\"transparent\"\n")
	b.WriteString("\tfontname=\"Arial\"\n")
	b.WriteString("\tnodesep=\"0.5\"\n")
	b.WriteString("\tranksep=\"0.8\"\n")
	b.WriteString("\tnode [shape=\"box\" style=\"filled\" fontname=\"Arial\" fontsize=\"10\"]\n")
	b.WriteString("\tedge [fontname=\"Arial\" fontsize=\"9\"]\n")

	for _, id := range graph.ReferencedIDs() {
		node, exists := graph[id]
		if !exists {
			label := fmt.Sprintf("%s\\n(missing)", escape(string(id)))
			fmt.Fprintf(&b, "\t%s [label=\"%s\" fillcolor=\"lightgray\" style=\"filled,dashed\"]\n",
				quote(string(id)), label)
			continue
		}
		label := escape(string(id))
		text := ""
		if node != nil {
			text = node.Text
		}
		if summary := truncate(firstLine(text)); summary != "" {
			label += "\\n" + escape(summary)
		}
		fmt.Fprintf(&b, "\t%s [label=\"%s\" fillcolor=\"%s\"]\n",
			quote(string(id)), label, fillColor(node.Kind()))
	}

	for _, id := range graph.IDs() {
		node := graph[id]
		if node == nil {
			continue
		}
		for _, choice := range node.Choices {
			if choice.Ending || choice.Target == "" {
				continue
			}
			label := truncate(choice.Text)
			if label == "" {
				label = "Choice"
			}
			fmt.Fprintf(&b, "\t%s -> %s [label=\"%s\" fontcolor=\"lightblue\"]\n",
				quote(string(id)), quote(string(choice.Target)), escape(label))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= labelLimit {
		return s
	}
	return string(runes[:labelLimit])
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func quote(s string) string {
	return `"` + escape(s) + `"`
}
