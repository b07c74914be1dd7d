package mcp

import (
	"context"
	"strings"
	"testing"

	"storyloom/internal/bridge"
	"storyloom/internal/story"
)

type mockView struct {
	snap *bridge.Snapshot
}

func (m *mockView) Current() (*bridge.Snapshot, bool) {
	return m.snap, m.snap != nil
}

type mockSubmitter struct {
	token      string
	err        error
	lastTarget story.NodeID
}

func (m *mockSubmitter) Submit(target story.NodeID) (string, error) {
	m.lastTarget = target
	return m.token, m.err
}

func fixtureSnapshot() *bridge.Snapshot {
	return &bridge.Snapshot{
		Version:  7,
		Metadata: story.Metadata{Name: "Fixture", Author: "tester", Start: "A"},
		Graph: story.Graph{
			"A": {Text: "Crossroads", Choices: []story.Choice{
				{Text: "North", Target: "B"},
				{Text: "South", Target: "C"},
			}},
			"B": {Text: "The end."},
			"C": {Text: "Corridor", Choices: []story.Choice{{Text: "Back", Target: "A"}}},
		},
	}
}

func TestGetNode(t *testing.T) {
	server := NewServer(&mockView{snap: fixtureSnapshot()}, &mockSubmitter{}, "test")

	_, out, err := server.handleGetNode(context.Background(), nil, GetNodeInput{ID: "A"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Kind != "branching" || len(out.Choices) != 2 {
		t.Fatalf("unexpected output: %+v", out)
	}

	if _, _, err := server.handleGetNode(context.Background(), nil, GetNodeInput{ID: "missing"}); err == nil {
		t.Fatalf("expected error for missing node")
	}
	if _, _, err := server.handleGetNode(context.Background(), nil, GetNodeInput{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestListNodes(t *testing.T) {
	server := NewServer(&mockView{snap: fixtureSnapshot()}, &mockSubmitter{}, "test")

	_, out, err := server.handleListNodes(context.Background(), nil, ListNodesInput{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Version != 7 || len(out.Nodes) != 3 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.Nodes[0].ID != "A" || out.Nodes[1].ID != "B" {
		t.Fatalf("expected sorted ids, got %+v", out.Nodes)
	}
}

func TestGraphStats(t *testing.T) {
	server := NewServer(&mockView{snap: fixtureSnapshot()}, &mockSubmitter{}, "test")

	_, out, err := server.handleGraphStats(context.Background(), nil, GraphStatsInput{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Nodes != 3 || out.Choices != 3 || out.Endings != 1 || out.Branching != 1 {
		t.Fatalf("unexpected stats: %+v", out)
	}
	if out.Title != "Fixture" {
		t.Fatalf("expected title from metadata, got %q", out.Title)
	}
}

func TestRenderGraph(t *testing.T) {
	server := NewServer(&mockView{snap: fixtureSnapshot()}, &mockSubmitter{}, "test")

	_, out, err := server.handleRenderGraph(context.Background(), nil, RenderGraphInput{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out.DOT, "digraph story") {
		t.Fatalf("expected DOT source, got %q", out.DOT)
	}
}

func TestRequestEdit(t *testing.T) {
	submitter := &mockSubmitter{token: "tok-1"}
	server := NewServer(&mockView{snap: fixtureSnapshot()}, submitter, "test")

	_, out, err := server.handleRequestEdit(context.Background(), nil, RequestEditInput{ID: "B"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.Token != "tok-1" || submitter.lastTarget != "B" {
		t.Fatalf("unexpected submission: %+v target=%q", out, submitter.lastTarget)
	}

	if _, _, err := server.handleRequestEdit(context.Background(), nil, RequestEditInput{ID: "missing"}); err == nil {
		t.Fatalf("expected error for missing node")
	}
}

func TestNoStateAvailable(t *testing.T) {
	server := NewServer(&mockView{}, &mockSubmitter{}, "test")

	if _, _, err := server.handleListNodes(context.Background(), nil, ListNodesInput{}); err == nil {
		t.Fatalf("expected error when no state exported yet")
	}
}
