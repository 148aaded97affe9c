package utils

import "os"

// ParseWithFallback reads an environment variable, returning fallback when
// the variable is unset or empty.
func ParseWithFallback(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}

	return fallback
}
