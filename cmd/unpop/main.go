package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"unpop/internal/app"
	"unpop/internal/config"
	"unpop/internal/logging"
)

func main() {
	cliApp := &cli.App{
		Name:   "unpop",
		Usage:  "Explore UN population, life expectancy and fertility series by country and year",
		Flags:  flags(),
		Action: realMain,
	}

	if err := cliApp.Run(os.Args); err != nil {
		slog.Error("Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML configuration file"},
		&cli.StringFlag{Name: "population-a", Usage: "First population series workbook"},
		&cli.StringFlag{Name: "population-b", Usage: "Second population series workbook"},
		&cli.StringFlag{Name: "metadata", Usage: "UN M49 country metadata workbook"},
		&cli.StringFlag{Name: "output-dir", Usage: "Directory the exports are written under"},
		&cli.StringFlag{Name: "log-level", Usage: "Log level (debug, info, warn, error)"},
		&cli.StringFlag{Name: "log-format", Usage: "Log format (text, json)"},
		&cli.BoolFlag{Name: "no-charts", Usage: "Skip rendering the PNG charts"},
	}
}

func realMain(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	applyFlags(ctx, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Init(cfg.Logging)
	slog.Debug("Configuration loaded",
		slog.String("population_a", cfg.Inputs.PopulationA),
		slog.String("population_b", cfg.Inputs.PopulationB),
		slog.String("metadata", cfg.Inputs.Metadata),
		slog.String("output_dir", cfg.Outputs.Dir))

	return app.New(cfg, os.Stdin, os.Stdout).Run()
}

// applyFlags overrides configuration values with the flags that were set.
func applyFlags(ctx *cli.Context, cfg *config.Config) {
	overrides := map[string]*string{
		"population-a": &cfg.Inputs.PopulationA,
		"population-b": &cfg.Inputs.PopulationB,
		"metadata":     &cfg.Inputs.Metadata,
		"output-dir":   &cfg.Outputs.Dir,
		"log-level":    &cfg.Logging.Level,
		"log-format":   &cfg.Logging.Format,
	}
	for name, target := range overrides {
		if ctx.IsSet(name) {
			*target = ctx.String(name)
		}
	}
	if ctx.Bool("no-charts") {
		cfg.Outputs.Charts = false
	}
}
