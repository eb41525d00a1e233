// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the meeting assistant, which receives video and chat platform
// webhooks and drives the meeting lifecycle and post-meeting chat.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/infrastructure/stream"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/service"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/utils"
)

func main() {
	loadDotEnv()
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry SDK")
		return
	}

	// Setup NATS connection when a backend needs it
	var natsConn *nats.Conn
	if env.needsNATS() {
		natsConn, err = setupNATS(ctx, env, &gracefulCloseWG, done)
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting up NATS")
			return
		}
	}

	repos, err := setupRepositories(ctx, env, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up repositories")
		return
	}

	jobs, err := setupJobDispatcher(ctx, env, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up job dispatcher")
		return
	}

	streamClient := setupStreamClient(env)

	// Initialize services
	serviceConfig := service.ServiceConfig{
		ChatHistoryLimit: env.ChatHistoryLimit,
	}
	lifecycleService := service.NewMeetingLifecycleService(
		repos.Meeting,
		repos.Agent,
		streamClient,
		jobs,
		serviceConfig,
	)
	chatResponderService := service.NewChatResponderService(
		repos.Meeting,
		repos.Agent,
		streamClient,
		setupLanguageModel(env),
		setupAvatarGenerator(env),
		serviceConfig,
	)
	webhookService := service.NewWebhookService(
		setupWebhookValidator(env),
		lifecycleService,
		chatResponderService,
	)

	// Initialize handlers
	router := newRouter(
		handlers.NewWebhookHandler(webhookService),
		handlers.NewHealthHandler(webhookService),
	)

	httpServer := setupHTTPServer(flags, router, &gracefulCloseWG)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(shutdownResources{
		httpServer:   httpServer,
		natsConn:     natsConn,
		sessions:     streamClient.Sessions(),
		closers:      []func() error{repos.Close, jobs.Close},
		otelShutdown: otelShutdown,
		timeout:      env.ShutdownTimeout,
	}, &gracefulCloseWG, cancel)
}

// shutdownResources are the long-lived resources released at shutdown.
type shutdownResources struct {
	httpServer   interface{ Shutdown(context.Context) error }
	natsConn     *nats.Conn
	sessions     *stream.SessionRegistry
	closers      []func() error
	otelShutdown func(context.Context) error
	timeout      time.Duration
}

// gracefulShutdown stops accepting requests, closes realtime sessions and drains
// NATS before releasing the stores.
func gracefulShutdown(res shutdownResources, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("graceful shutdown started")
	shuttingDown.Store(true)

	ctx, shutdownCancel := context.WithTimeout(context.Background(), res.timeout)
	defer shutdownCancel()

	// Stop accepting new requests, then let in-flight ones finish.
	go func() {
		defer gracefulCloseWG.Done()
		if err := res.httpServer.Shutdown(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("http shutdown error")
		}
	}()

	if err := res.sessions.CloseAll(ctx); err != nil {
		slog.With(logging.ErrKey, err).Warn("error closing realtime sessions")
	}

	if res.natsConn != nil && !res.natsConn.IsClosed() && !res.natsConn.IsDraining() {
		slog.Info("draining NATS connection")
		// This is asynchronous, so gracefulCloseWG.Done() is called by the ClosedHandler.
		if err := res.natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
		}
	}

	// Wait for the HTTP server and NATS connection to close, or the timeout.
	waited := make(chan struct{})
	go func() {
		gracefulCloseWG.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-ctx.Done():
		slog.Warn("graceful shutdown timed out")
	}

	for _, closer := range res.closers {
		if closer == nil {
			continue
		}
		if err := closer(); err != nil {
			slog.With(logging.ErrKey, err).Warn("error closing resource")
		}
	}

	// Flush telemetry with a fresh deadline.
	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := res.otelShutdown(flushCtx); err != nil {
		slog.With(logging.ErrKey, err).Warn("error shutting down OpenTelemetry SDK")
	}

	// Cancel the background context.
	cancel()
	slog.Info("graceful shutdown complete")
}
