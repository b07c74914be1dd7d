package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storyloom/internal/bridge"
	"storyloom/internal/config"
	"storyloom/internal/story"
)

func sendCmd() *cobra.Command {
	var nodeID string
	var save bool
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Submit a remote command to the editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !save && nodeID == "" {
				return fmt.Errorf("either --node or --save is required")
			}
			return runSend(nodeID, save)
		},
	}
	cmd.Flags().StringVar(&nodeID, "node", "", "Node to open for editing")
	cmd.Flags().BoolVar(&save, "save", false, "Ask the editor to save the project archive")
	return cmd
}

func runSend(nodeID string, save bool) error {
	cfg, err := config.LoadProjectConfig(config.DefaultPath)
	if err != nil {
		return err
	}
	log, err := newLogger(false)
	if err != nil {
		return err
	}
	defer log.Sync()

	writer := bridge.NewCommandWriter(commandChannel(cfg), log.Named("writer"))

	var token string
	if save {
		token, err = writer.SubmitSave()
	} else {
		token, err = writer.Submit(story.NodeID(nodeID))
	}
	if err != nil {
		return err
	}
	fmt.Printf("command sent (token %s)\n", token)
	return nil
}
