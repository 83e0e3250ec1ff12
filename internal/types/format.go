// Package types provides type definitions for structured data used throughout the resume-refiner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// Format selects one of the supported output styles.
type Format string

// Supported formats.
const (
	FormatClassic Format = "classic"
	FormatModern  Format = "modern"
)

// DisplayName returns the user-facing style name.
func (f Format) DisplayName() string {
	switch f {
	case FormatModern:
		return "Modern Executive"
	default:
		return "Classic Professional"
	}
}

// ParseFormat accepts the short names and the display names, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "classic", "classic professional", "classic_professional":
		return FormatClassic, nil
	case "modern", "modern executive", "modern_executive":
		return FormatModern, nil
	default:
		return "", fmt.Errorf("unknown format %q (supported: classic, modern)", s)
	}
}
