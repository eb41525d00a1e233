// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"os"
	"strconv"
	"time"
)

// CoalesceString returns the first non-empty string from the given arguments.
func CoalesceString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// GetEnv returns the value of the environment variable, or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	return CoalesceString(os.Getenv(key), fallback)
}

// GetEnvBool reports whether the environment variable holds a truthy value ("true", "t" or "1").
func GetEnvBool(key string) bool {
	v := os.Getenv(key)
	return v == "true" || v == "t" || v == "1"
}

// GetEnvDuration parses the environment variable as a time.Duration, returning fallback
// when it is unset or unparsable.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// GetEnvInt parses the environment variable as an int, returning fallback when it is
// unset or unparsable.
func GetEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
