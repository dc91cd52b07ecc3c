package logger

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// secretParams are query parameters never written to the log.
var secretParams = []string{"appid"}

type RoundTripper struct {
	Logger *zap.Logger
	Proxy  http.RoundTripper
}

func NewRoundTripper(logger *zap.Logger) *RoundTripper {
	return &RoundTripper{
		Logger: logger,
		Proxy:  http.DefaultTransport,
	}
}

func (l *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := l.Proxy.RoundTrip(req)
	duration := time.Since(start)
	logURL := redactURL(req.URL)

	if err != nil {
		l.Logger.Error("HTTP request failed",
			zap.String("method", req.Method),
			zap.String("url", logURL),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		l.Logger.Error("Failed to read response body",
			zap.String("method", req.Method),
			zap.String("url", logURL),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	l.Logger.Info("HTTP request completed",
		zap.String("method", req.Method),
		zap.String("url", logURL),
		zap.ByteString("body_snipped", bodyBytes),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

func redactURL(u *url.URL) string {
	clean := *u
	q := clean.Query()
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
		}
	}
	clean.RawQuery = q.Encode()
	return clean.String()
}
