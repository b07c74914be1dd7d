package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"storyloom/internal/bridge"
	"storyloom/internal/config"
	"storyloom/internal/editor"
	"storyloom/internal/story"
)

func editCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Run the editor process",
		Long: `Run the editor process. It owns the story content, exports a state
snapshot on every change, and polls for remote commands from the
visualizer in the background.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func runEdit(verbose bool) error {
	cfg, err := config.LoadProjectConfig(config.DefaultPath)
	if err != nil {
		return err
	}
	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	project, err := loadOrCreateProject(cfg)
	if err != nil {
		return err
	}

	exporter := bridge.NewExporter(stateChannel(cfg), log.Named("exporter"))
	session := editor.NewSession(project, cfg.Story.Archive, exporter, log.Named("session"))
	if err := session.Export(); err != nil {
		return err
	}

	poller := bridge.NewPoller(
		commandChannel(cfg),
		session,
		session.Graph,
		cfg.Bridge.StalenessWindow.Std(),
		log.Named("poller"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx, cfg.Bridge.CommandPoll.Std())

	return editor.NewREPL(session, os.Stdin, os.Stdout).Run()
}

func loadOrCreateProject(cfg *config.ProjectConfig) (*story.Project, error) {
	if cfg.Story.Archive != "" {
		if _, err := os.Stat(cfg.Story.Archive); err == nil {
			return story.LoadArchive(cfg.Story.Archive)
		}
	}
	start := story.NodeID(cfg.Story.Start)
	return &story.Project{
		Metadata: story.Metadata{Name: cfg.Project, ID: cfg.Project, Start: start},
		Graph:    story.Graph{start: &story.Node{Text: "Your story begins here."}},
	}, nil
}
