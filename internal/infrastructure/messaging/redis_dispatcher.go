// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/logging"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/metrics"
)

// RedisJobDispatcher pushes jobs onto a Redis list per job name. Workers pop from the
// other end, so jobs are consumed in dispatch order.
type RedisJobDispatcher struct {
	client *redis.Client
	prefix string
	now    func() time.Time
	newID  func() string
}

var _ domain.JobDispatcher = (*RedisJobDispatcher)(nil)

// NewRedisJobDispatcher connects to redisURL and verifies the connection.
func NewRedisJobDispatcher(ctx context.Context, redisURL, prefix string) (*RedisJobDispatcher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisJobDispatcher{
		client: client,
		prefix: prefix,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}, nil
}

// QueueKey returns the list key jobs named name are pushed to.
func (d *RedisJobDispatcher) QueueKey(name string) string {
	return fmt.Sprintf("%sjobs:%s", d.prefix, name)
}

// IsReady reports whether the client is configured.
func (d *RedisJobDispatcher) IsReady() bool {
	return d.client != nil
}

// Close closes the Redis connection.
func (d *RedisJobDispatcher) Close() error {
	return d.client.Close()
}

// DispatchMeetingProcessing pushes a meetings/processing job.
func (d *RedisJobDispatcher) DispatchMeetingProcessing(ctx context.Context, data models.MeetingProcessingData) error {
	payload, err := encodeJob(d.newID(), models.MeetingsProcessingEvent, data, d.now())
	if err != nil {
		slog.ErrorContext(ctx, "error encoding job", logging.ErrKey, err, "job", models.MeetingsProcessingEvent)
		return err
	}

	key := d.QueueKey(models.MeetingsProcessingEvent)
	err = d.client.LPush(ctx, key, payload).Err()
	metrics.JobsDispatchedTotal.WithLabelValues(models.MeetingsProcessingEvent, BackendRedis, metrics.StatusLabel(err)).Inc()
	if err != nil {
		slog.ErrorContext(ctx, "error pushing job to redis", logging.ErrKey, err, "key", key)
		return err
	}

	slog.DebugContext(ctx, "pushed job to redis", "key", key)
	return nil
}
