package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nazarious-ucu/weather-cli/internal/models"
)

// Input is a validated invocation.
type Input struct {
	City    string
	APIKey  string
	Units   models.Units
	Verbose bool
}

// Defaults come from the environment and fill in flags left unset.
type Defaults struct {
	APIKey string
	Units  string
}

// UsageError marks a problem with the command line itself.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

type runFunc func(ctx context.Context, in Input) error

// NewCommand builds the root command. run is called once with the validated input.
func NewCommand(defaults Defaults, run runFunc) *cobra.Command {
	var (
		apiKey  string
		units   string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "weather <city>",
		Short: "Print the current weather for a city",
		Long: `Print the current weather for a city using the OpenWeatherMap API.

The API key can be passed with --api-key or through OPEN_WEATHER_MAP_API_KEY,
which keeps it out of process listings.`,
		Example: `  weather London --api-key KEY
  weather "New York" --api-key KEY --units imperial`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &UsageError{Err: fmt.Errorf("expected exactly one city, got %d arguments", len(args))}
			}
			if args[0] == "" {
				return &UsageError{Err: errors.New("city must not be empty")}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := apiKey
			if key == "" {
				key = defaults.APIKey
			}
			if key == "" {
				return &UsageError{Err: errors.New(`required flag "api-key" not set`)}
			}

			u := units
			if !cmd.Flags().Changed("units") && defaults.Units != "" {
				u = defaults.Units
			}
			parsed, err := models.ParseUnits(u)
			if err != nil {
				return &UsageError{Err: err}
			}

			return run(cmd.Context(), Input{
				City:    args[0],
				APIKey:  key,
				Units:   parsed,
				Verbose: verbose,
			})
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "OpenWeatherMap API key (env OPEN_WEATHER_MAP_API_KEY)")
	cmd.Flags().StringVar(&units, "units", string(models.UnitsMetric), "unit system: metric or imperial")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "write logs to stderr")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	return cmd
}
