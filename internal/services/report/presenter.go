package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-cli/internal/models"
)

const (
	outcomePresented = "presented"
	outcomeInvalid   = "invalid"
)

type metricsCollector interface {
	ObserveReport(outcome string)
}

// Presenter turns provider payloads into the three-line summary.
type Presenter struct {
	out       io.Writer
	logger    zerolog.Logger
	collector metricsCollector
}

func NewPresenter(out io.Writer, logger zerolog.Logger, collector metricsCollector) *Presenter {
	return &Presenter{out: out, logger: logger, collector: collector}
}

// Present validates payload and writes the report. Nothing is written when the
// payload is invalid.
func (p *Presenter) Present(payload models.RawPayload, units models.Units) error {
	report, err := Parse(payload, units)
	if err != nil {
		p.collector.ObserveReport(outcomeInvalid)
		p.logger.Error().
			Err(err).
			Msg("weather report rejected")
		return err
	}

	if err := Render(p.out, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	p.collector.ObserveReport(outcomePresented)
	p.logger.Info().
		Str("city", report.City).
		Str("country", report.Country).
		Msg("weather report presented")
	return nil
}

// Render writes r in a single call.
func Render(w io.Writer, r models.WeatherReport) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Weather in %s, %s:\n", r.City, r.Country)
	fmt.Fprintf(&buf, "Temperature: %s%s\n", r.Temperature, r.Units.Symbol())
	fmt.Fprintf(&buf, "Condition: %s\n", r.Condition)

	_, err := w.Write(buf.Bytes())
	return err
}
