package util

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// EnvironmentString returns the value of key in env or fallback when unset or blank
func EnvironmentString(env map[string]string, key string, fallback string) string {
	if value := strings.TrimSpace(env[key]); value != "" {
		return value
	}

	return fallback
}

func EnvironmentInt(env map[string]string, key string, fallback int) int {
	value := strings.TrimSpace(env[key])
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		log.Warn().Str("variable", key).Str("value", value).Int("default", fallback).Msg("Invalid integer in environment, using default")
		return fallback
	}

	return parsed
}

func EnvironmentDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(env[key])
	if value == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		log.Warn().Str("variable", key).Str("value", value).Str("default", fallback.String()).Msg("Invalid duration in environment, using default")
		return fallback
	}

	return parsed
}
