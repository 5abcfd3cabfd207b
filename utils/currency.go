package utils

import "math"

// Payment gateways speak in integer minor units (kobo, cents); the rest of
// the system works in major units. Conversion happens only at the gateway
// boundary.

// ToMinorUnit converts a major-unit amount to the gateway's integer minor
// unit, e.g. 25.97 -> 2597. Rounding absorbs float representation error.
func ToMinorUnit(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromMinorUnit converts a gateway minor-unit amount back to major units.
func FromMinorUnit(minor int64) float64 {
	return float64(minor) / 100
}
