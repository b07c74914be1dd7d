// Package mcp exposes the visualizer side of the bridge to MCP clients:
// read-only story queries plus the remote edit request. It is a peer of
// the web visualizer, not of the editor — it never touches the state
// channel's write side.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"storyloom/internal/bridge"
	"storyloom/internal/story"
)

// BridgeView is the read/command surface the server needs. Satisfied by
// bridge.Reader plus bridge.CommandWriter; tests install mocks.
type BridgeView interface {
	Current() (*bridge.Snapshot, bool)
}

type CommandSubmitter interface {
	Submit(target story.NodeID) (string, error)
}

type Server struct {
	view   BridgeView
	writer CommandSubmitter
	mcp    *sdk.Server
}

func NewServer(view BridgeView, writer CommandSubmitter, version string) *Server {
	s := &Server{
		view:   view,
		writer: writer,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "storyloom",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
