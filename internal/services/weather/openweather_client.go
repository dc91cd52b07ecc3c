package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-cli/internal/models"
)

// errBodyLimit caps how much of an error body is kept for the log.
const errBodyLimit = 1024

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOpenWeatherMap fetches current weather from the OpenWeatherMap API.
type ClientOpenWeatherMap struct {
	APIKey string
	apiURL string
	units  models.Units
	client HTTPClient
	logger zerolog.Logger
}

// NewClientOpenWeatherMap constructs a new OpenWeatherMap client.
func NewClientOpenWeatherMap(apiKey, apiURL string, units models.Units,
	httpClient HTTPClient, logger zerolog.Logger,
) *ClientOpenWeatherMap {
	return &ClientOpenWeatherMap{APIKey: apiKey, apiURL: apiURL, units: units, client: httpClient, logger: logger}
}

// Fetch sends one GET for city and returns the decoded body. The embedded
// "cod" field is not interpreted here. Failures are never retried.
func (s *ClientOpenWeatherMap) Fetch(ctx context.Context, city string) (models.RawPayload, error) {
	if city == "" {
		return nil, ErrEmptyCity
	}
	if s.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	start := time.Now()

	reqURL, err := s.buildURL(city)
	if err != nil {
		return nil, &FetchError{City: city, Kind: KindTransport, Err: fmt.Errorf("build request url: %w", err)}
	}

	s.logger.Debug().
		Ctx(ctx).
		Str("city", city).
		Str("units", string(s.units)).
		Msg("starting OpenWeatherMap request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("city", city).
			Msg("failed to create HTTP request")
		return nil, &FetchError{City: city, Kind: KindTransport, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		err = redactURLError(err)
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("city", city).
			Msg("error sending HTTP request to OpenWeatherMap")
		return nil, &FetchError{City: city, Kind: KindTransport, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error().
				Ctx(ctx).
				Err(cerr).
				Str("city", city).
				Msg("failed to close response body")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyLimit))
		s.logger.Error().
			Ctx(ctx).
			Str("city", city).
			Int("status_code", resp.StatusCode).
			Bytes("body", body).
			Msg("OpenWeatherMap API returned non-2xx status")
		return nil, &FetchError{
			City:       city,
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	payload, err := decodePayload(resp.Body)
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("city", city).
			Msg("failed to decode OpenWeatherMap response")
		return nil, &FetchError{City: city, Kind: KindDecode, StatusCode: resp.StatusCode, Err: err}
	}

	s.logger.Info().
		Ctx(ctx).
		Str("city", city).
		Dur("duration_ms", time.Since(start)).
		Msg("successfully fetched weather data")

	return payload, nil
}

func (s *ClientOpenWeatherMap) buildURL(city string) (string, error) {
	u, err := url.Parse(s.apiURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("q", city)
	q.Set("appid", s.APIKey)
	q.Set("units", string(s.units))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func decodePayload(body io.Reader) (models.RawPayload, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var payload models.RawPayload
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty response body")
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode response: unexpected data after JSON object")
	}
	return payload, nil
}

// redactURLError hides the API key that *url.Error carries in its URL.
func redactURLError(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}

	u, perr := url.Parse(uerr.URL)
	if perr != nil {
		return &url.Error{Op: uerr.Op, URL: "<redacted>", Err: uerr.Err}
	}
	q := u.Query()
	if q.Has("appid") {
		q.Set("appid", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return &url.Error{Op: uerr.Op, URL: u.String(), Err: uerr.Err}
}
