package main

import (
	"context"

	"github.com/spf13/cobra"

	"storyloom/internal/bridge"
	"storyloom/internal/config"
	"storyloom/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Long: `Start the MCP server over stdio. It joins the bridge on the
visualizer side: story queries read the editor's latest state export,
and request_edit submits a remote command the same way the web UI does.`,
		RunE: runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(config.DefaultPath)
	if err != nil {
		return err
	}
	log, err := newLogger(false)
	if err != nil {
		return err
	}
	defer log.Sync()

	reader := bridge.NewReader(stateChannel(cfg), log.Named("reader"))
	writer := bridge.NewCommandWriter(commandChannel(cfg), log.Named("writer"))

	server := mcp.NewServer(reader, writer, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
