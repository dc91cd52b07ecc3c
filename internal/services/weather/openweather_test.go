package weather_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/weather-cli/internal/models"
	"github.com/Nazarious-ucu/weather-cli/internal/services/weather"
)

const (
	testAPIKey = "secret-key-open-weather"
	testAPIURL = "http://api.openweathermap.org/data/2.5/weather"

	londonBody = `{"cod":200,"name":"London","sys":{"country":"GB"},"main":{"temp":15.5},` +
		`"weather":[{"description":"light rain"}]}`
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, ok := args.Get(0).(*http.Response)
	if !ok {
		return nil, args.Error(1)
	}
	return resp, args.Error(1)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newClient(m *mockHTTPClient, units models.Units) *weather.ClientOpenWeatherMap {
	return weather.NewClientOpenWeatherMap(testAPIKey, testAPIURL, units, m, zerolog.Nop())
}

func Test_OpenWeather_Fetch_Success(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		q := req.URL.Query()
		return req.Method == http.MethodGet &&
			req.URL.Host == "api.openweathermap.org" &&
			req.URL.Path == "/data/2.5/weather" &&
			q.Get("q") == "London" &&
			q.Get("appid") == testAPIKey &&
			q.Get("units") == "metric"
	})).Return(jsonResponse(http.StatusOK,
		`{"cod":200,"name":"London","sys":{"country":"GB"},"main":{"temp":15.5},
		  "weather":[{"description":"light rain"}]}`), nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	payload, err := newClient(m, models.UnitsMetric).Fetch(context.Background(), "London")
	require.NoError(t, err)

	assert.Equal(t, json.Number("200"), payload["cod"])
	assert.Equal(t, "London", payload["name"])
	mainBlock, ok := payload["main"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("15.5"), mainBlock["temp"])
}

func Test_OpenWeather_Fetch_SendsImperialUnits(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.Query().Get("units") == "imperial"
	})).Return(jsonResponse(http.StatusOK, `{"cod":200}`), nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	_, err := newClient(m, models.UnitsImperial).Fetch(context.Background(), "New York")
	require.NoError(t, err)
}

func Test_OpenWeather_Fetch_EscapesCity(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.Query().Get("q") == "São Paulo,BR" &&
			!strings.Contains(req.URL.RawQuery, " ")
	})).Return(jsonResponse(http.StatusOK, `{}`), nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	_, err := newClient(m, models.UnitsMetric).Fetch(context.Background(), "São Paulo,BR")
	require.NoError(t, err)
}

// A body carrying an error "cod" with HTTP 200 is still a transport success.
func Test_OpenWeather_Fetch_EmbeddedErrorIsNotFetchError(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).
		Return(jsonResponse(http.StatusOK, `{"cod":"404","message":"city not found"}`), nil).Once()

	payload, err := newClient(m, models.UnitsMetric).Fetch(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Equal(t, "404", payload["cod"])
	m.AssertExpectations(t)
}

func Test_OpenWeather_Fetch_Failures(t *testing.T) {
	testCases := []struct {
		name       string
		resp       *http.Response
		doErr      error
		wantKind   string
		wantStatus int
	}{
		{
			name:       "city not found",
			resp:       jsonResponse(http.StatusNotFound, `{"cod":"404","message":"city not found"}`),
			wantKind:   weather.KindStatus,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid api key",
			resp:       jsonResponse(http.StatusUnauthorized, `{"cod":401,"message":"Invalid API key"}`),
			wantKind:   weather.KindStatus,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "server error",
			resp:       jsonResponse(http.StatusInternalServerError, `{"error": "Internal server error"}`),
			wantKind:   weather.KindStatus,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:     "connection refused",
			doErr:    errors.New("dial tcp 127.0.0.1:1: connect: connection refused"),
			wantKind: weather.KindTransport,
		},
		{
			name:       "not json",
			resp:       jsonResponse(http.StatusOK, `<html>maintenance</html>`),
			wantKind:   weather.KindDecode,
			wantStatus: http.StatusOK,
		},
		{
			name:       "trailing data",
			resp:       jsonResponse(http.StatusOK, londonBody+`{"cod":"404"} garbage`),
			wantKind:   weather.KindDecode,
			wantStatus: http.StatusOK,
		},
		{
			name:       "trailing brace",
			resp:       jsonResponse(http.StatusOK, londonBody+`}`),
			wantKind:   weather.KindDecode,
			wantStatus: http.StatusOK,
		},
		{
			name:       "json array",
			resp:       jsonResponse(http.StatusOK, `[1,2,3]`),
			wantKind:   weather.KindDecode,
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty body",
			resp:       jsonResponse(http.StatusOK, ``),
			wantKind:   weather.KindDecode,
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockHTTPClient{}
			m.On("Do", mock.Anything).Return(tc.resp, tc.doErr).Once()

			payload, err := newClient(m, models.UnitsMetric).Fetch(context.Background(), "London")
			require.Error(t, err)
			assert.Nil(t, payload)

			var fetchErr *weather.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tc.wantKind, fetchErr.Kind)
			assert.Equal(t, tc.wantStatus, fetchErr.StatusCode)
			assert.Equal(t, "London", fetchErr.City)

			// no retry
			m.AssertNumberOfCalls(t, "Do", 1)
		})
	}
}

func Test_OpenWeather_Fetch_StatusErrorMessage(t *testing.T) {
	m := &mockHTTPClient{}
	resp := jsonResponse(http.StatusNotFound, `{}`)
	resp.Status = "404 Not Found"
	m.On("Do", mock.Anything).Return(resp, nil).Once()

	_, err := newClient(m, models.UnitsMetric).Fetch(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Equal(t, "OpenWeatherMap API error: status 404 Not Found", err.Error())
}

func Test_OpenWeather_Fetch_InvalidInput(t *testing.T) {
	m := &mockHTTPClient{}

	_, err := newClient(m, models.UnitsMetric).Fetch(context.Background(), "")
	assert.ErrorIs(t, err, weather.ErrEmptyCity)

	noKey := weather.NewClientOpenWeatherMap("", testAPIURL, models.UnitsMetric, m, zerolog.Nop())
	_, err = noKey.Fetch(context.Background(), "London")
	assert.ErrorIs(t, err, weather.ErrMissingAPIKey)

	m.AssertNumberOfCalls(t, "Do", 0)
}

func Test_OpenWeather_Fetch_Cancelled(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(nil, context.Canceled).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(m, models.UnitsMetric).Fetch(ctx, "London")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_OpenWeather_Fetch_TransportErrorHidesKey(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(nil, &url.Error{
		Op:  "Get",
		URL: testAPIURL + "?appid=" + testAPIKey + "&q=London&units=metric",
		Err: errors.New("dial tcp: connection refused"),
	}).Once()

	_, err := newClient(m, models.UnitsMetric).Fetch(context.Background(), "London")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testAPIKey)
	assert.Contains(t, err.Error(), "connection refused")
}

func Test_OpenWeather_Fetch_TrailingWhitespace(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK, londonBody+"\n\t \n"), nil).Once()

	payload, err := newClient(m, models.UnitsMetric).Fetch(context.Background(), "London")

	require.NoError(t, err)
	assert.Equal(t, "London", payload["name"])
	m.AssertExpectations(t)
}
