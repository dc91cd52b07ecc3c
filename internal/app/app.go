package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/weather-cli/internal/config"
	"github.com/Nazarious-ucu/weather-cli/internal/handlers/cli"
	loggerT "github.com/Nazarious-ucu/weather-cli/internal/services/logger"
	metricsSvc "github.com/Nazarious-ucu/weather-cli/internal/services/metrics"
	"github.com/Nazarious-ucu/weather-cli/internal/services/report"
	serviceWeather "github.com/Nazarious-ucu/weather-cli/internal/services/weather"
	fLogger "github.com/Nazarious-ucu/weather-cli/pkg/logger"
)

const serviceName = "weather_cli"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// ServiceContainer holds the dependencies of one invocation.
type ServiceContainer struct {
	Fetcher   *serviceWeather.MetricsDecorator
	Presenter *report.Presenter
	Metrics   *metricsSvc.Metrics

	fileLogger *zap.Logger
}

// App ties together config and the standard streams for one command run.
type App struct {
	loadConfig func() (*config.Config, error)
	cfg        config.Config
	stdout     io.Writer
	stderr     io.Writer
}

func New(cfg config.Config, stdout, stderr io.Writer) *App {
	return NewWithLoader(func() (*config.Config, error) { return &cfg, nil }, stdout, stderr)
}

// NewFromEnv reads the configuration from the environment when Run is called.
func NewFromEnv(stdout, stderr io.Writer) *App {
	return NewWithLoader(config.NewConfig, stdout, stderr)
}

func NewWithLoader(load func() (*config.Config, error), stdout, stderr io.Writer) *App {
	return &App{
		loadConfig: load,
		stdout:     stdout,
		stderr:     stderr,
	}
}

// Run executes the command line and returns the process exit code. Exactly one
// diagnostic line is written to stderr when a fetch or report fails. A broken
// environment does not prevent --help; any other invocation then fails as a
// usage error.
func (a *App) Run(ctx context.Context, args []string) int {
	var (
		defaults cli.Defaults
		run      = a.report
	)

	cfg, err := a.loadConfig()
	if err != nil {
		cfgErr := err
		run = func(context.Context, cli.Input) error {
			return &cli.UsageError{Err: fmt.Errorf("invalid environment: %w", cfgErr)}
		}
	} else {
		a.cfg = *cfg
		defaults = cli.Defaults{
			APIKey: a.cfg.OpenWeatherMapAPIKey,
			Units:  a.cfg.Units,
		}
	}

	cmd := cli.NewCommand(defaults, run)
	cmd.SetArgs(args)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	return a.exitCode(cmd.ExecuteContext(ctx))
}

// report runs Fetching -> Presenting -> Done; any error aborts the run.
func (a *App) report(ctx context.Context, in cli.Input) error {
	l, err := a.newLogger(in.Verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	srvContainer := a.init(l, in)
	defer a.shutdown(l, srvContainer)

	l.Debug().
		Str("city", in.City).
		Str("units", string(in.Units)).
		Str("api_url", a.cfg.OpenWeatherMapURL).
		Msg("fetching weather")

	payload, err := srvContainer.Fetcher.Fetch(ctx, in.City)
	if err != nil {
		l.Error().Err(err).Msg("aborted while fetching")
		return err
	}

	if err := srvContainer.Presenter.Present(payload, in.Units); err != nil {
		l.Error().Err(err).Msg("aborted while presenting")
		return err
	}

	l.Debug().Msg("done")
	return nil
}

func (a *App) newLogger(verbose bool) (zerolog.Logger, error) {
	opts := fLogger.Options{
		ServiceName: serviceName,
		Level:       a.cfg.Log.Level,
		FilePath:    a.cfg.Log.Path,
	}
	if verbose {
		opts.Console = a.stderr
	}

	l, err := fLogger.NewLogger(opts)
	if err != nil {
		return l, err
	}
	return l.With().Str("request_id", uuid.NewString()).Logger(), nil
}

// init wires the HTTP client, fetcher, presenter and metrics without calling the provider.
func (a *App) init(l zerolog.Logger, in cli.Input) ServiceContainer {
	fileLogger, err := fLogger.NewFileLogger(a.cfg.Log.HTTPPath)
	if err != nil {
		l.Warn().Err(err).Str("path", a.cfg.Log.HTTPPath).Msg("failed to create HTTP file logger")
		fileLogger = zap.NewNop()
	}

	// HTTP client logging
	httpLogClient := &http.Client{
		Timeout:   a.cfg.HTTP.Timeout,
		Transport: loggerT.NewRoundTripper(fileLogger),
	}

	met := metricsSvc.NewMetrics(serviceName)

	fetcher := serviceWeather.NewMetricsDecorator(
		serviceWeather.NewClientOpenWeatherMap(in.APIKey, a.cfg.OpenWeatherMapURL, in.Units, httpLogClient, l),
		met,
	)

	return ServiceContainer{
		Fetcher:    fetcher,
		Presenter:  report.NewPresenter(a.stdout, l, met),
		Metrics:    met,
		fileLogger: fileLogger,
	}
}

// shutdown flushes the HTTP log and writes the metrics textfile if configured.
func (a *App) shutdown(l zerolog.Logger, srvContainer ServiceContainer) {
	if err := srvContainer.fileLogger.Sync(); err != nil {
		l.Debug().Err(err).Msg("failed to sync file logger")
	}

	if a.cfg.MetricsTextfile == "" {
		return
	}
	if err := srvContainer.Metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
		l.Warn().Err(err).Str("path", a.cfg.MetricsTextfile).Msg("failed to write metrics textfile")
	}
}

func (a *App) exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var (
		usageErr   *cli.UsageError
		fetchErr   *serviceWeather.FetchError
		presentErr *report.PresentError
	)

	switch {
	case errors.As(err, &usageErr):
		fmt.Fprintf(a.stderr, "Error: %v\nRun 'weather --help' for usage.\n", usageErr)
		return exitUsage
	case errors.As(err, &presentErr):
		fmt.Fprintln(a.stderr, report.Message)
	case errors.As(err, &fetchErr):
		fmt.Fprintf(a.stderr, "Error fetching weather data: %v\n", fetchErr)
	default:
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
	return exitFailure
}
