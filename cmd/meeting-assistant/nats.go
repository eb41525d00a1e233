// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
)

const (
	// natsDrainTimeout bounds how long draining the NATS connection may take at shutdown.
	natsDrainTimeout = 15 * time.Second
	// kvHistory is the number of revisions kept per key.
	kvHistory = 5
)

// shuttingDown is set once graceful shutdown starts, so that the NATS close
// handler can tell an expected close from a lost connection.
var shuttingDown atomic.Bool

// setupNATS connects to the NATS server. If the connection is closed outside of
// graceful shutdown, a signal is sent on done so the process exits.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)
	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Name("lfx-v2-meeting-assistant"),
		nats.DrainTimeout(natsDrainTimeout),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection established")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.With(logging.ErrKey, err).WarnContext(ctx, "NATS disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject).ErrorContext(ctx, "async NATS error")
				return
			}
			slog.With(logging.ErrKey, err).ErrorContext(ctx, "async NATS error outside subscription")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if !shuttingDown.Load() {
				slog.ErrorContext(ctx, "NATS connection closed unexpectedly", logging.PriorityCritical())
				select {
				case done <- os.Interrupt:
				default:
				}
			}
			gracefulCloseWG.Done()
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, fmt.Errorf("connect to NATS at %s: %w", env.NatsURL, err)
	}

	return natsConn, nil
}

// keyValueStores are the JetStream buckets backing the NATS repositories.
type keyValueStores struct {
	Meetings jetstream.KeyValue
	Agents   jetstream.KeyValue
}

// getKeyValueStores creates or binds the key-value buckets used by the service.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*keyValueStores, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	meetings, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  store.KVStoreNameMeetings,
		History: kvHistory,
	})
	if err != nil {
		return nil, fmt.Errorf("get key-value store %s: %w", store.KVStoreNameMeetings, err)
	}

	agents, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  store.KVStoreNameAgents,
		History: kvHistory,
	})
	if err != nil {
		return nil, fmt.Errorf("get key-value store %s: %w", store.KVStoreNameAgents, err)
	}

	return &keyValueStores{Meetings: meetings, Agents: agents}, nil
}
