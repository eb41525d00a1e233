// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/pkg/utils"
)

// NatsAgentRepository is the NATS KV store repository for agents.
type NatsAgentRepository struct {
	*NatsBaseRepository[models.Agent]
	keyBuilder *KeyBuilder
}

// NewNatsAgentRepository creates a new NATS KV store repository for agents.
func NewNatsAgentRepository(kvStore INatsKeyValue) *NatsAgentRepository {
	return &NatsAgentRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Agent](kvStore, "agent"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

// CreateAgent stores a new agent.
func (r *NatsAgentRepository) CreateAgent(ctx context.Context, agent *models.Agent) error {
	if agent == nil || agent.ID == "" {
		return domain.NewValidationError("agent id is required")
	}
	now := time.Now().UTC()
	if agent.CreatedAt == nil {
		agent.CreatedAt = utils.TimePtr(now)
	}
	agent.UpdatedAt = utils.TimePtr(now)
	return r.Create(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixAgent, agent.ID), agent)
}

// GetAgent returns the agent by id.
func (r *NatsAgentRepository) GetAgent(ctx context.Context, agentID string) (*models.Agent, error) {
	return r.Get(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixAgent, agentID))
}
