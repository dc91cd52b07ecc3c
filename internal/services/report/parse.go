package report

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Nazarious-ucu/weather-cli/internal/models"
)

const statusOK = 200

// Parse validates payload and extracts the display fields. The payload is
// accepted only when "cod" is the number 200 and name, sys.country, main.temp
// and weather[0].description are all present with the expected types.
func Parse(payload models.RawPayload, units models.Units) (models.WeatherReport, error) {
	if len(payload) == 0 {
		return models.WeatherReport{}, invalid("empty payload")
	}

	cod, ok := payload["cod"].(json.Number)
	if !ok {
		return models.WeatherReport{}, invalid("cod is %s", describe(payload["cod"]))
	}
	if f, err := cod.Float64(); err != nil || f != statusOK {
		return models.WeatherReport{}, invalid("cod is %s", cod)
	}

	city, ok := payload["name"].(string)
	if !ok {
		return models.WeatherReport{}, invalid("name is %s", describe(payload["name"]))
	}

	sys, ok := payload["sys"].(map[string]any)
	if !ok {
		return models.WeatherReport{}, invalid("sys is %s", describe(payload["sys"]))
	}
	country, ok := sys["country"].(string)
	if !ok {
		return models.WeatherReport{}, invalid("sys.country is %s", describe(sys["country"]))
	}

	mainBlock, ok := payload["main"].(map[string]any)
	if !ok {
		return models.WeatherReport{}, invalid("main is %s", describe(payload["main"]))
	}
	temp, ok := mainBlock["temp"].(json.Number)
	if !ok {
		return models.WeatherReport{}, invalid("main.temp is %s", describe(mainBlock["temp"]))
	}
	temp, err := plainNumber(temp)
	if err != nil {
		return models.WeatherReport{}, invalid("main.temp is %s", temp)
	}

	conditions, ok := payload["weather"].([]any)
	if !ok || len(conditions) == 0 {
		return models.WeatherReport{}, invalid("weather is %s", describe(payload["weather"]))
	}
	first, ok := conditions[0].(map[string]any)
	if !ok {
		return models.WeatherReport{}, invalid("weather[0] is %s", describe(conditions[0]))
	}
	description, ok := first["description"].(string)
	if !ok {
		return models.WeatherReport{}, invalid("weather[0].description is %s", describe(first["description"]))
	}

	return models.WeatherReport{
		City:        city,
		Country:     country,
		Temperature: temp,
		Condition:   capitalize(description),
		StatusCode:  statusOK,
		Units:       units,
	}, nil
}

// plainNumber rewrites exponent literals in fixed notation ("1.55E1" becomes
// "15.5", "1e1" becomes "10.0"). Other literals are returned unchanged.
func plainNumber(n json.Number) (json.Number, error) {
	if !strings.ContainsAny(n.String(), "eE") {
		return n, nil
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return n, err
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return json.Number(s), nil
}

// capitalize upper-cases the first letter and lower-cases the rest,
// "light RAIN" becomes "Light rain".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "missing"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	case []any:
		return "an empty or invalid list"
	case map[string]any:
		return "an object"
	default:
		return "of an unexpected type"
	}
}
