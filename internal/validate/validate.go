package validate

import (
	"fmt"
	"sort"

	"storyloom/internal/story"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeDanglingTarget  = "dangling_choice_target"
	codeMissingStart    = "missing_start_node"
	codeUnreachableNode = "unreachable_node"
	codeEmptyNodeText   = "empty_node_text"
	codeEmptyChoiceText = "empty_choice_text"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Node     story.NodeID
}

type Report struct {
	Issues []Issue
}

func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Run checks the structural invariants of a story graph: the start node
// exists, every choice target resolves to a node or is tagged as an
// ending, every node is reachable from the start, and nodes and choices
// carry text. The bridge never blocks on these issues (the visualizer
// renders missing targets as placeholders); this is the author-facing
// lint surface.
func Run(meta story.Metadata, graph story.Graph) *Report {
	issues := make([]Issue, 0)

	if meta.Start != "" {
		if _, exists := graph[meta.Start]; !exists {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeMissingStart,
				Message:  fmt.Sprintf("start node %q does not exist", meta.Start),
				Node:     meta.Start,
			})
		}
	}

	for _, id := range graph.IDs() {
		node := graph[id]
		if node == nil {
			continue
		}
		if node.Text == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeEmptyNodeText,
				Message:  "node has no text",
				Node:     id,
			})
		}
		for i, choice := range node.Choices {
			if choice.Text == "" {
				issues = append(issues, Issue{
					Severity: SeverityWarn,
					Code:     codeEmptyChoiceText,
					Message:  fmt.Sprintf("choice %d has no text", i),
					Node:     id,
				})
			}
			if choice.Ending {
				continue
			}
			if _, exists := graph[choice.Target]; !exists {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Code:     codeDanglingTarget,
					Message:  fmt.Sprintf("choice %d targets missing node %q", i, choice.Target),
					Node:     id,
				})
			}
		}
	}

	issues = append(issues, unreachableIssues(meta.Start, graph)...)

	return &Report{Issues: issues}
}

func unreachableIssues(start story.NodeID, graph story.Graph) []Issue {
	if start == "" {
		return nil
	}
	if _, exists := graph[start]; !exists {
		return nil
	}

	reachable := map[story.NodeID]struct{}{start: {}}
	frontier := []story.NodeID{start}
	for len(frontier) > 0 {
		id := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		node := graph[id]
		if node == nil {
			continue
		}
		for _, choice := range node.Choices {
			if choice.Ending || choice.Target == "" {
				continue
			}
			if _, exists := graph[choice.Target]; !exists {
				continue
			}
			if _, seen := reachable[choice.Target]; seen {
				continue
			}
			reachable[choice.Target] = struct{}{}
			frontier = append(frontier, choice.Target)
		}
	}

	var orphans []story.NodeID
	for id := range graph {
		if _, ok := reachable[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })

	issues := make([]Issue, 0, len(orphans))
	for _, id := range orphans {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeUnreachableNode,
			Message:  "node is unreachable from the start node",
			Node:     id,
		})
	}
	return issues
}
