// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/utils"
)

// Store and job backends selectable through the environment.
const (
	storeBackendNATS = "nats"
	jobBackendNATS   = "nats"
	jobBackendRedis  = "redis"

	defaultShutdownTimeout = 25 * time.Second
)

// flags are the command line flags for the meeting assistant.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the meeting assistant.
type environment struct {
	Port                 string
	NatsURL              string
	StoreBackend         string
	DatabaseURL          string
	JobBackend           string
	RedisURL             string
	RedisKeyPrefix       string
	AvatarBaseURL        string
	SkipWebhookSignature bool
	ChatHistoryLimit     int
	ShutdownTimeout      time.Duration
	Stream               streamConfig
	OpenAI               openAIConfig
}

// streamConfig holds the video and chat platform configuration
type streamConfig struct {
	APIKey       string
	APISecret    string
	VideoBaseURL string
	ChatBaseURL  string
	RealtimeURL  string
}

// openAIConfig holds the language model configuration
type openAIConfig struct {
	APIKey    string
	BaseURL   string
	ChatModel string
}

// parseFlags parses command line flags for the meeting assistant
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// loadDotEnv loads a .env file from the working directory when one exists.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.With(logging.ErrKey, err).Warn("error loading .env file")
	}
}

// parseEnv parses environment variables for the meeting assistant. Missing
// required secrets terminate the process.
func parseEnv() environment {
	env, err := readEnv()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("invalid configuration")
		os.Exit(1)
	}
	return env
}

// readEnv builds the environment from the process environment and validates it.
func readEnv() (environment, error) {
	env := environment{
		Port:                 utils.GetEnv("PORT", "8080"),
		NatsURL:              utils.GetEnv("NATS_URL", nats.DefaultURL),
		StoreBackend:         strings.ToLower(utils.GetEnv("STORE_BACKEND", storeBackendNATS)),
		DatabaseURL:          utils.GetEnv("DATABASE_URL", ""),
		JobBackend:           strings.ToLower(utils.GetEnv("JOB_BACKEND", jobBackendNATS)),
		RedisURL:             utils.GetEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisKeyPrefix:       utils.GetEnv("REDIS_KEY_PREFIX", "meeting-assistant:"),
		AvatarBaseURL:        utils.GetEnv("AVATAR_BASE_URL", ""),
		SkipWebhookSignature: utils.GetEnvBool("SKIP_WEBHOOK_SIGNATURE"),
		ChatHistoryLimit:     utils.GetEnvInt("CHAT_HISTORY_LIMIT", constants.ChatHistoryLimit),
		ShutdownTimeout:      utils.GetEnvDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		Stream: streamConfig{
			APIKey:       utils.GetEnv("STREAM_API_KEY", ""),
			APISecret:    utils.GetEnv("STREAM_API_SECRET", ""),
			VideoBaseURL: utils.GetEnv("STREAM_VIDEO_BASE_URL", ""),
			ChatBaseURL:  utils.GetEnv("STREAM_CHAT_BASE_URL", ""),
			RealtimeURL:  utils.GetEnv("STREAM_REALTIME_URL", ""),
		},
		OpenAI: openAIConfig{
			APIKey:    utils.GetEnv("OPENAI_API_KEY", ""),
			BaseURL:   utils.GetEnv("OPENAI_BASE_URL", ""),
			ChatModel: utils.GetEnv("OPENAI_CHAT_MODEL", constants.DefaultChatModel),
		},
	}

	required := []struct{ key, value string }{
		{"STREAM_API_KEY", env.Stream.APIKey},
		{"STREAM_API_SECRET", env.Stream.APISecret},
		{"OPENAI_API_KEY", env.OpenAI.APIKey},
	}
	for _, r := range required {
		if r.value == "" {
			return environment{}, fmt.Errorf("%s environment variable is required but not set", r.key)
		}
	}

	switch env.StoreBackend {
	case storeBackendNATS, store.DriverSQLite:
	case store.DriverPostgres:
		if env.DatabaseURL == "" {
			return environment{}, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is %s", env.StoreBackend)
		}
	default:
		return environment{}, fmt.Errorf("unsupported STORE_BACKEND %q", env.StoreBackend)
	}

	switch env.JobBackend {
	case jobBackendNATS, jobBackendRedis:
	default:
		return environment{}, fmt.Errorf("unsupported JOB_BACKEND %q", env.JobBackend)
	}

	return env, nil
}

// needsNATS reports whether any configured backend uses the NATS server.
func (e environment) needsNATS() bool {
	return e.StoreBackend == storeBackendNATS || e.JobBackend == jobBackendNATS
}
