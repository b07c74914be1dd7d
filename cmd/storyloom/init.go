package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"storyloom/internal/config"
)

func initCmd() *cobra.Command {
	var projectName string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new storyloom project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	return cmd
}

func runInit(projectName string) error {
	if _, err := os.Stat(config.DefaultPath); err == nil {
		return fmt.Errorf("%s already exists", config.DefaultPath)
	}

	contents := fmt.Sprintf(`project: %s
version: 1

bridge:
  dir: .storyloom
  state_file: state.json
  command_file: commands.json
  state_poll: 2s
  command_poll: 500ms
  staleness_window: 30s

story:
  archive: stories/%s.cy
  start: start
`, projectName, projectName)

	if err := os.WriteFile(config.DefaultPath, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", config.DefaultPath, err)
	}
	return nil
}
