package models

import "fmt"

type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

func ParseUnits(s string) (Units, error) {
	switch Units(s) {
	case "":
		return UnitsMetric, nil
	case UnitsMetric, UnitsImperial:
		return Units(s), nil
	default:
		return "", fmt.Errorf("unknown unit system %q (want %s or %s)", s, UnitsMetric, UnitsImperial)
	}
}

// Symbol is the temperature unit printed after the value.
func (u Units) Symbol() string {
	if u == UnitsImperial {
		return "°F"
	}
	return "°C"
}
