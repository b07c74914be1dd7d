package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"storyloom/internal/dot"
	"storyloom/internal/story"
)

type GetNodeInput struct {
	ID string `json:"id" jsonschema:"node identifier"`
}

type ListNodesInput struct{}

type GraphStatsInput struct{}

type RenderGraphInput struct{}

type RequestEditInput struct {
	ID string `json:"id" jsonschema:"identifier of the node to open in the editor"`
}

type ChoiceOutput struct {
	Text   string `json:"text"`
	Target string `json:"target,omitempty"`
	Ending bool   `json:"ending,omitempty"`
}

type NodeOutput struct {
	ID      string         `json:"id"`
	Kind    string         `json:"kind"`
	Text    string         `json:"text"`
	Choices []ChoiceOutput `json:"choices"`
}

type NodeSummaryOutput struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

type ListNodesOutput struct {
	Version uint64              `json:"version"`
	Nodes   []NodeSummaryOutput `json:"nodes"`
}

type GraphStatsOutput struct {
	Version   uint64 `json:"version"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Nodes     int    `json:"nodes"`
	Choices   int    `json:"choices"`
	Endings   int    `json:"endings"`
	Branching int    `json:"branching"`
}

type RenderGraphOutput struct {
	Version uint64 `json:"version"`
	DOT     string `json:"dot"`
}

type RequestEditOutput struct {
	Token string `json:"token"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_node",
		Description: "Retrieve a story node with its text and choices",
	}, s.handleGetNode)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_nodes",
		Description: "List all story node ids with their kind",
	}, s.handleListNodes)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "graph_stats",
		Description: "Summarize the current story graph",
	}, s.handleGraphStats)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "render_graph",
		Description: "Render the story graph as Graphviz DOT source",
	}, s.handleRenderGraph)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "request_edit",
		Description: "Ask the editor process to open a node for editing",
	}, s.handleRequestEdit)
}

func (s *Server) snapshot() (*storySnapshot, error) {
	snap, ok := s.view.Current()
	if !ok {
		return nil, fmt.Errorf("no story state available; is the editor running?")
	}
	return &storySnapshot{version: snap.Version, meta: snap.Metadata, graph: snap.Graph}, nil
}

type storySnapshot struct {
	version uint64
	meta    story.Metadata
	graph   story.Graph
}

func (s *Server) handleGetNode(ctx context.Context, req *sdk.CallToolRequest, input GetNodeInput) (*sdk.CallToolResult, NodeOutput, error) {
	if input.ID == "" {
		return nil, NodeOutput{}, fmt.Errorf("id is required")
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, NodeOutput{}, err
	}
	node, exists := snap.graph[story.NodeID(input.ID)]
	if !exists {
		return nil, NodeOutput{}, fmt.Errorf("node not found")
	}

	out := NodeOutput{
		ID:      input.ID,
		Kind:    string(node.Kind()),
		Text:    node.Text,
		Choices: make([]ChoiceOutput, 0, len(node.Choices)),
	}
	for _, choice := range node.Choices {
		out.Choices = append(out.Choices, ChoiceOutput{
			Text:   choice.Text,
			Target: string(choice.Target),
			Ending: choice.Ending,
		})
	}
	return nil, out, nil
}

func (s *Server) handleListNodes(ctx context.Context, req *sdk.CallToolRequest, input ListNodesInput) (*sdk.CallToolResult, ListNodesOutput, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, ListNodesOutput{}, err
	}
	out := ListNodesOutput{Version: snap.version, Nodes: make([]NodeSummaryOutput, 0, len(snap.graph))}
	for _, id := range snap.graph.IDs() {
		out.Nodes = append(out.Nodes, NodeSummaryOutput{ID: string(id), Kind: string(snap.graph[id].Kind())})
	}
	return nil, out, nil
}

func (s *Server) handleGraphStats(ctx context.Context, req *sdk.CallToolRequest, input GraphStatsInput) (*sdk.CallToolResult, GraphStatsOutput, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, GraphStatsOutput{}, err
	}
	out := GraphStatsOutput{
		Version: snap.version,
		Title:   snap.meta.Name,
		Author:  snap.meta.Author,
		Nodes:   len(snap.graph),
	}
	for _, node := range snap.graph {
		if node == nil {
			continue
		}
		out.Choices += len(node.Choices)
		switch node.Kind() {
		case story.KindEnding:
			out.Endings++
		case story.KindBranching:
			out.Branching++
		}
	}
	return nil, out, nil
}

func (s *Server) handleRenderGraph(ctx context.Context, req *sdk.CallToolRequest, input RenderGraphInput) (*sdk.CallToolResult, RenderGraphOutput, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, RenderGraphOutput{}, err
	}
	return nil, RenderGraphOutput{Version: snap.version, DOT: dot.Render(snap.graph)}, nil
}

func (s *Server) handleRequestEdit(ctx context.Context, req *sdk.CallToolRequest, input RequestEditInput) (*sdk.CallToolResult, RequestEditOutput, error) {
	if input.ID == "" {
		return nil, RequestEditOutput{}, fmt.Errorf("id is required")
	}
	snap, err := s.snapshot()
	if err != nil {
		return nil, RequestEditOutput{}, err
	}
	if _, exists := snap.graph[story.NodeID(input.ID)]; !exists {
		return nil, RequestEditOutput{}, fmt.Errorf("node not found")
	}
	token, err := s.writer.Submit(story.NodeID(input.ID))
	if err != nil {
		return nil, RequestEditOutput{}, err
	}
	return nil, RequestEditOutput{Token: token}, nil
}
