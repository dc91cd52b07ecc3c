package models

import "encoding/json"

// RawPayload is the provider's response body decoded as a JSON object.
// Numbers are kept as json.Number.
type RawPayload map[string]any

type WeatherReport struct {
	City    string `json:"city"`
	Country string `json:"country"`
	// Temperature keeps the provider's literal so it prints exactly as sent.
	Temperature json.Number `json:"temperature"`
	Condition   string      `json:"condition"`
	StatusCode  int         `json:"status_code"`
	Units       Units       `json:"units"`
}
