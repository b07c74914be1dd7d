package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"storyloom/internal/config"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the current bridge status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect()
		},
	}
	return cmd
}

func runInspect() error {
	cfg, err := config.LoadProjectConfig(config.DefaultPath)
	if err != nil {
		return err
	}

	state, ok, err := stateChannel(cfg).TryRead()
	switch {
	case err != nil:
		fmt.Printf("state:   unreadable (%v)\n", err)
	case !ok:
		fmt.Println("state:   absent (editor has not exported yet)")
	default:
		fmt.Printf("state:   version %d, %d nodes, saved %s ago\n",
			state.Version, len(state.Graph), time.Since(state.SavedAt).Round(time.Millisecond))
	}

	command, ok, err := commandChannel(cfg).TryRead()
	switch {
	case err != nil:
		fmt.Printf("command: unreadable (%v)\n", err)
	case !ok:
		fmt.Println("command: empty")
	default:
		fmt.Printf("command: %s pending (token %s, node %q, issued %s ago)\n",
			command.Kind, command.Token, command.Target, time.Since(command.IssuedAt).Round(time.Millisecond))
	}

	return nil
}
