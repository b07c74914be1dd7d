package dot

import (
	"strings"
	"testing"

	"storyloom/internal/story"
)

func TestRender(t *testing.T) {
	t.Run("empty graph renders placeholder", func(t *testing.T) {
		out := Render(story.Graph{})
		if !strings.Contains(out, "digraph empty_graph") {
			t.Fatalf("expected placeholder digraph, got:\n%s", out)
		}
	})

	t.Run("color codes by node kind", func(t *testing.T) {
		graph := story.Graph{
			"A": {Text: "Crossroads", Choices: []story.Choice{
				{Text: "North", Target: "B"},
				{Text: "South", Target: "C"},
			}},
			"B": {Text: "The end."},
			"C": {Text: "A corridor.", Choices: []story.Choice{{Text: "On", Target: "A"}}},
		}
		out := Render(graph)

		if !strings.Contains(out, `"A" [label="A\nCrossroads" fillcolor="lightblue"]`) {
			t.Fatalf("expected branching A in lightblue, got:\n%s", out)
		}
		if !strings.Contains(out, `"B" [label="B\nThe end." fillcolor="lightcoral"]`) {
			t.Fatalf("expected ending B in lightcoral, got:\n%s", out)
		}
		if !strings.Contains(out, `"C" [label="C\nA corridor." fillcolor="lightyellow"]`) {
			t.Fatalf("expected linear C in lightyellow, got:\n%s", out)
		}
	})

	t.Run("missing target renders as dashed placeholder", func(t *testing.T) {
		graph := story.Graph{
			"A": {Text: "Start", Choices: []story.Choice{{Text: "Go", Target: "ghost"}}},
		}
		out := Render(graph)
		if !strings.Contains(out, `"ghost" [label="ghost\n(missing)" fillcolor="lightgray" style="filled,dashed"]`) {
			t.Fatalf("expected missing placeholder, got:\n%s", out)
		}
	})

	t.Run("edges carry truncated choice text", func(t *testing.T) {
		graph := story.Graph{
			"A": {Text: "Start", Choices: []story.Choice{
				{Text: "This choice text is far too long for a label", Target: "B"},
			}},
			"B": {Text: "End"},
		}
		out := Render(graph)
		if !strings.Contains(out, `"A" -> "B" [label="This choice text "`) {
			t.Fatalf("expected truncated edge label, got:\n%s", out)
		}
	})

	t.Run("ending choices produce no edge", func(t *testing.T) {
		graph := story.Graph{
			"A": {Text: "Start", Choices: []story.Choice{{Text: "Die", Ending: true}}},
		}
		out := Render(graph)
		if strings.Contains(out, "->") {
			t.Fatalf("expected no edges, got:\n%s", out)
		}
	})

	t.Run("quotes are escaped", func(t *testing.T) {
		graph := story.Graph{
			"A": {Text: `He said "run"`},
		}
		out := Render(graph)
		if !strings.Contains(out, `He said \"run\"`) {
			t.Fatalf("expected escaped quotes, got:\n%s", out)
		}
	})
}
