package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storyloom/internal/bridge"
	"storyloom/internal/config"
	"storyloom/internal/dot"
	"storyloom/internal/watch"
)

func viewCmd() *cobra.Command {
	var output string
	var once bool
	var verbose bool
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Run the visualizer process",
		Long: `Run the visualizer process. It polls the editor's state exports and
rewrites the rendered DOT graph whenever the story changes. Filesystem
notifications wake it early; polling remains the fallback.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(output, once, verbose)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write DOT to this file instead of stdout")
	cmd.Flags().BoolVar(&once, "once", false, "Render the current state once and exit")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func runView(output string, once, verbose bool) error {
	cfg, err := config.LoadProjectConfig(config.DefaultPath)
	if err != nil {
		return err
	}
	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	reader := bridge.NewReader(stateChannel(cfg), log.Named("reader"))

	if once {
		snap, ok := reader.Current()
		if !ok {
			return fmt.Errorf("no story state available; is the editor running?")
		}
		return emit(output, dot.Render(snap.Graph))
	}

	watcher, err := watch.New(cfg.Bridge.Dir, cfg.Bridge.StateFile, log.Named("watch"))
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	render := func() {
		snap, ok := reader.Poll()
		if !ok {
			return
		}
		if err := emit(output, dot.Render(snap.Graph)); err != nil {
			log.Error("render failed", zap.Error(err))
			return
		}
		log.Info("story updated",
			zap.Uint64("version", snap.Version),
			zap.Int("nodes", len(snap.Graph)))
	}

	render()
	ticker := time.NewTicker(cfg.Bridge.StatePoll.Std())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-watcher.C:
			render()
		case <-ticker.C:
			render()
		}
	}
}

func emit(output, source string) error {
	if output == "" {
		fmt.Println(source)
		return nil
	}
	return os.WriteFile(output, []byte(source), 0o644)
}
