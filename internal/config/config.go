package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type HTTP struct {
	Timeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"0s"`
}

type Log struct {
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	Path     string `envconfig:"LOGS_PATH"`
	HTTPPath string `envconfig:"HTTP_LOGS_PATH"`
}

type Config struct {
	OpenWeatherMapAPIKey string `envconfig:"OPEN_WEATHER_MAP_API_KEY"`
	OpenWeatherMapURL    string `envconfig:"OPEN_WEATHER_MAP_URL" default:"http://api.openweathermap.org/data/2.5/weather"`
	Units                string `envconfig:"WEATHER_UNITS" default:"metric"`

	HTTP HTTP
	Log  Log

	MetricsTextfile string `envconfig:"METRICS_TEXTFILE"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
