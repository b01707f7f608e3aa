package pallet

import (
	"fmt"
	"strings"
)

const centimetersPerInch = 2.54

// ConvertToInches converts value from unit to inches. Only centimeters are
// converted; every other unit is assumed to be inches already.
func ConvertToInches(value float64, unit Unit) float64 {
	if unit == Centimeters {
		return value / centimetersPerInch
	}
	return value
}

// ConvertFromInches is the inverse of ConvertToInches.
func ConvertFromInches(value float64, unit Unit) float64 {
	if unit == Centimeters {
		return value * centimetersPerInch
	}
	return value
}

// ParseUnit normalises a user supplied unit tag. An empty tag resolves to fallback.
func ParseUnit(raw string, fallback Unit) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return fallback, nil
	case "cm", "centimeter", "centimeters":
		return Centimeters, nil
	case "in", "inch", "inches":
		return Inches, nil
	default:
		return "", fmt.Errorf("%w, got %q", ErrInvalidUnit, raw)
	}
}
