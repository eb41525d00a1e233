// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/infrastructure/avatar"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/infrastructure/openai"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/infrastructure/stream"
)

// repositories are the storage ports selected by STORE_BACKEND.
type repositories struct {
	Meeting domain.MeetingRepository
	Agent   domain.AgentRepository
	// Close releases the backing connection. Nil for NATS, whose connection is drained separately.
	Close func() error
}

// setupRepositories opens the configured store backend.
func setupRepositories(ctx context.Context, env environment, natsConn *nats.Conn) (*repositories, error) {
	if env.StoreBackend == storeBackendNATS {
		kv, err := getKeyValueStores(ctx, natsConn)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "using NATS key-value store", "meetings_bucket", store.KVStoreNameMeetings)
		return &repositories{
			Meeting: store.NewNatsMeetingRepository(kv.Meetings),
			Agent:   store.NewNatsAgentRepository(kv.Agents),
		}, nil
	}

	db, err := store.OpenGorm(env.StoreBackend, env.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", env.StoreBackend, err)
	}
	slog.InfoContext(ctx, "using relational store", "driver", env.StoreBackend)
	return &repositories{
		Meeting: store.NewGormMeetingRepository(db),
		Agent:   store.NewGormAgentRepository(db),
		Close:   func() error { return store.CloseGorm(db) },
	}, nil
}

// jobDispatcher is the dispatcher selected by JOB_BACKEND.
type jobDispatcher struct {
	domain.JobDispatcher
	// Close releases the backing connection. Nil for NATS.
	Close func() error
}

// setupJobDispatcher creates the configured job dispatcher.
func setupJobDispatcher(ctx context.Context, env environment, natsConn *nats.Conn) (*jobDispatcher, error) {
	if env.JobBackend == jobBackendRedis {
		dispatcher, err := messaging.NewRedisJobDispatcher(ctx, env.RedisURL, env.RedisKeyPrefix)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "dispatching jobs to redis", "prefix", env.RedisKeyPrefix)
		return &jobDispatcher{JobDispatcher: dispatcher, Close: dispatcher.Close}, nil
	}

	slog.InfoContext(ctx, "dispatching jobs to NATS")
	return &jobDispatcher{JobDispatcher: messaging.NewMessageBuilder(natsConn)}, nil
}

// setupStreamClient creates the video and chat platform client.
func setupStreamClient(env environment) *stream.Client {
	return stream.NewClient(stream.Config{
		APIKey:       env.Stream.APIKey,
		APISecret:    env.Stream.APISecret,
		OpenAIAPIKey: env.OpenAI.APIKey,
		VideoBaseURL: env.Stream.VideoBaseURL,
		ChatBaseURL:  env.Stream.ChatBaseURL,
		RealtimeURL:  env.Stream.RealtimeURL,
	})
}

// setupWebhookValidator returns the signature validator, or a pass-through one
// when SKIP_WEBHOOK_SIGNATURE is set.
func setupWebhookValidator(env environment) domain.WebhookValidator {
	if env.SkipWebhookSignature {
		slog.Warn("SKIP_WEBHOOK_SIGNATURE is set, webhook signatures will not be verified")
		return stream.NoopWebhookValidator{}
	}
	return stream.NewWebhookValidator(env.Stream.APISecret)
}

// setupLanguageModel creates the chat completion client.
func setupLanguageModel(env environment) *openai.ChatClient {
	return openai.NewChatClient(openai.Config{
		APIKey:  env.OpenAI.APIKey,
		BaseURL: env.OpenAI.BaseURL,
		Model:   env.OpenAI.ChatModel,
	})
}

// setupAvatarGenerator creates the avatar URI generator.
func setupAvatarGenerator(env environment) *avatar.DiceBearGenerator {
	return avatar.NewDiceBearGenerator(env.AvatarBaseURL)
}
