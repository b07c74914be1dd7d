package main

import (
	"go.uber.org/zap"

	"storyloom/internal/bridge"
	"storyloom/internal/config"
)

// Shared wiring for the subcommands: every process builds its channels
// from the same config so both sides agree on the mailbox paths.

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func stateChannel(cfg *config.ProjectConfig) *bridge.StateChannel {
	return bridge.NewChannel[bridge.StateEnvelope](cfg.Bridge.StatePath())
}

func commandChannel(cfg *config.ProjectConfig) *bridge.CommandChannel {
	return bridge.NewChannel[bridge.CommandEnvelope](cfg.Bridge.CommandPath())
}
