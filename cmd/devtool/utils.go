package main

import (
	"os"
)

// getEnv returns the environment value or a fallback when unset.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
