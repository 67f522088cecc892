// Package env reads configuration defaults from the environment, with
// optional .env file support.
package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads a .env file from the working directory into the process
// environment. A missing file is not an error; real environment
// variables always win.
func Load() {
	_ = godotenv.Load()
}

// String returns the named variable or fallback when unset or empty.
func String(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Int returns the named variable parsed as an int, or fallback when
// unset or unparseable.
func Int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Float returns the named variable parsed as a float64, or fallback
// when unset or unparseable.
func Float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// Bool returns the named variable parsed as a bool, or fallback when
// unset or unparseable.
func Bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
