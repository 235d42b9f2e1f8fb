package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atlanticdynamic/devserve/internal/config"
	"github.com/atlanticdynamic/devserve/internal/fancy"
	"github.com/atlanticdynamic/devserve/internal/logging"
	"github.com/urfave/cli/v3"
)

func newValidateCmd() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"lint"},
		Usage:   "Validate a configuration file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "tree",
				Aliases: []string{"t"},
				Usage:   "Show detailed tree view of the validated configuration",
			},
			newConfigFlag(),
			newLogLevelFlag(),
		},
		Suggest: true,
		Action:  validateAction,
	}
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String(flagConfig)
	if configPath == "" {
		if cmd.Args().Len() < 1 {
			return fmt.Errorf(
				"config file path required (use the --config flag, or provide the config file as positional argument)",
			)
		}
		configPath = cmd.Args().Get(0)
	}

	logger := logging.SetupLogger(cmd.String(flagLogLevel), logging.FormatText, nil)
	logger.Debug("Validating config", "path", configPath)

	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "Configuration file %s %s\n", fancy.PathText(configPath), fancy.OKText("is valid"))

	if cmd.Bool("tree") {
		fmt.Fprintln(w, cfg)
		return nil
	}

	fmt.Fprintln(w, renderConfigSummary(configPath, cfg))
	return nil
}

// renderConfigSummary creates a formatted summary string for the configuration
func renderConfigSummary(path string, cfg *config.Config) string {
	var summary strings.Builder

	summary.WriteString("\nConfig Summary:\n")
	fmt.Fprintf(&summary, "- Path: %s\n", path)
	fmt.Fprintf(&summary, "- URL: %s\n", cfg.ListenURL())
	fmt.Fprintf(&summary, "- Root: %s\n", cfg.Root)
	fmt.Fprintf(&summary, "- No-cache: %t\n", cfg.NoCache)
	fmt.Fprintf(&summary, "- Entry: %s -> %s\n", cfg.Entry.Path, cfg.Entry.File)
	summary.WriteString("\nUse --tree for a more detailed view of the config.")

	return summary.String()
}
