package main

import (
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/devserve/internal/config"
	"github.com/urfave/cli/v3"
)

const (
	flagConfig     = "config"
	flagListen     = "listen"
	flagRoot       = "root"
	flagEnvFile    = "env-file"
	flagNoCache    = "no-cache"
	flagTokenKey   = "token-key"
	flagEntryPath  = "entry-path"
	flagEntryFile  = "entry-file"
	flagLogLevel   = "log-level"
	flagLogFormat  = "log-format"
	flagLogOutput  = "log-output"
	flagAccessLog  = "access-log"
	configFileDesc = "Path to TOML configuration file"
)

func newConfigFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    flagConfig,
		Aliases: []string{"c"},
		Usage:   configFileDesc,
	}
}

func newLogLevelFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  flagLogLevel,
		Usage: "Log level (trace, debug, info, warn, error)",
	}
}

// newServeFlags returns fresh flags; cli flags hold their parse state.
func newServeFlags() []cli.Flag {
	return []cli.Flag{
		newConfigFlag(),
		&cli.StringFlag{
			Name:    flagListen,
			Aliases: []string{"l"},
			Usage:   "Address to listen on",
		},
		&cli.StringFlag{
			Name:    flagRoot,
			Aliases: []string{"r"},
			Usage:   "Document root to serve",
		},
		&cli.StringFlag{
			Name:    flagEnvFile,
			Aliases: []string{"e"},
			Usage:   "Env file holding the access token (empty disables token loading)",
		},
		&cli.BoolFlag{
			Name:  flagNoCache,
			Usage: "Send no-store headers so browsers always refetch assets",
		},
		&cli.StringFlag{
			Name:  flagTokenKey,
			Usage: "Env file key holding the access token",
		},
		&cli.StringFlag{
			Name:  flagEntryPath,
			Usage: "Request path of the JavaScript file that receives the token",
		},
		&cli.StringFlag{
			Name:  flagEntryFile,
			Usage: "File read for the entry path, relative to the document root",
		},
		newLogLevelFlag(),
		&cli.StringFlag{
			Name:  flagLogFormat,
			Usage: "Log format (text, json)",
		},
		&cli.StringFlag{
			Name:  flagLogOutput,
			Usage: "Log output (stderr, stdout, or a file path)",
		},
		&cli.BoolFlag{
			Name:  flagAccessLog,
			Usage: "Log every HTTP request",
		},
	}
}

// loadConfig reads the config file named by --config, or the defaults when none is given.
func loadConfig(cmd *cli.Command, logger *slog.Logger) (*config.Config, error) {
	path := cmd.String(flagConfig)
	if path == "" {
		logger.Debug("No config file given, using defaults")
		return config.NewDefault(), nil
	}

	cfg, err := config.NewConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("Loaded config file", "path", path)
	return cfg, nil
}

// applyFlags overrides config values with the flags the user set explicitly.
func applyFlags(cmd *cli.Command, cfg *config.Config, logger *slog.Logger) {
	strs := []struct {
		name   string
		target *string
	}{
		{flagListen, &cfg.Listen},
		{flagRoot, &cfg.Root},
		{flagEnvFile, &cfg.EnvFile},
		{flagTokenKey, &cfg.Token.Key},
		{flagEntryPath, &cfg.Entry.Path},
		{flagEntryFile, &cfg.Entry.File},
		{flagLogLevel, &cfg.Log.Level},
		{flagLogFormat, &cfg.Log.Format},
		{flagLogOutput, &cfg.Log.Output},
	}
	for _, f := range strs {
		if cmd.IsSet(f.name) {
			*f.target = cmd.String(f.name)
			logger.Debug("Flag override", "flag", f.name, "value", *f.target)
		}
	}

	bools := []struct {
		name   string
		target *bool
	}{
		{flagNoCache, &cfg.NoCache},
		{flagAccessLog, &cfg.Log.Access},
	}
	for _, f := range bools {
		if cmd.IsSet(f.name) {
			*f.target = cmd.Bool(f.name)
			logger.Debug("Flag override", "flag", f.name, "value", *f.target)
		}
	}
}
