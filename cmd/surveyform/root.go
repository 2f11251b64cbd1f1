package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-surveyform/internal/logging"
	"github.com/goliatone/go-surveyform/pkg/config"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/questions"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	racePolicy string
	urlTmpl    string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "surveyform",
		Short:         "Multi-section survey form",
		Long:          `surveyform serves the survey over HTTP, fills it in a terminal, or validates answer files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format (console, json)")
	pf.StringVar(&flags.racePolicy, "race-policy", "", "fetch race policy (tagged, last-resolved)")
	pf.StringVar(&flags.urlTmpl, "questions-url", "", "additional questions URL template containing {topic}")

	cmd.AddCommand(
		newServeCmd(flags),
		newFillCmd(flags),
		newValidateCmd(),
		newVersionCmd(),
	)
	return cmd
}

// load reads the configuration file and applies flag overrides.
func (f *globalFlags) load() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if f.racePolicy != "" {
		cfg.Orchestrator.RacePolicy = f.racePolicy
	}
	if f.urlTmpl != "" {
		cfg.Questions.URLTemplate = f.urlTmpl
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// app bundles what every command builds from the configuration.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	client *questions.Client
}

func (f *globalFlags) build() (*app, error) {
	cfg, err := f.load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	client, err := questions.NewClient(
		questions.WithURLTemplate(cfg.Questions.URLTemplate),
		questions.WithLogger(logger.Named("questions")),
	)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, client: client}, nil
}

func (rt *app) orchestratorOptions(fetcher questions.Fetcher) []orchestrator.Option {
	return []orchestrator.Option{
		orchestrator.WithFetcher(fetcher),
		orchestrator.WithRacePolicy(rt.cfg.RacePolicy()),
		orchestrator.WithFetchTimeout(rt.cfg.Questions.Timeout),
	}
}
