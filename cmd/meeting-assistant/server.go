// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/constants"
)

// newRouter builds the HTTP routes of the service.
func newRouter(webhookHandler *handlers.WebhookHandler, healthHandler *handlers.HealthHandler) http.Handler {
	r := chi.NewRouter()

	// Order matters: the request id must exist before the logger runs, and the
	// raw body must be captured before the webhook handler reads it.
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(chimw.Recoverer)
	r.Use(middleware.WebhookBodyCaptureMiddleware())

	r.Post(constants.WebhookPath, webhookHandler.HandleWebhook)
	r.Get(constants.LivezPath, healthHandler.Livez)
	r.Get(constants.ReadyzPath, healthHandler.Readyz)
	r.Handle(constants.MetricsPath, promhttp.Handler())

	return otelhttp.NewHandler(r, "meeting-assistant")
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, handler http.Handler, gracefulCloseWG *sync.WaitGroup) *http.Server {
	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}
