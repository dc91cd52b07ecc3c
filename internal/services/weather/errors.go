package weather

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCity     = errors.New("city name is required")
	ErrMissingAPIKey = errors.New("API key is required")
)

// FetchError kinds, also used as the metrics result label.
const (
	KindTransport = "transport"
	KindStatus    = "status"
	KindDecode    = "decode"
)

// FetchError reports that no usable response was obtained from the provider.
type FetchError struct {
	City       string
	Kind       string
	StatusCode int
	Status     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("OpenWeatherMap API error: status %s", e.Status)
	}
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }
