// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain/models"
)

// GormAgentRepository stores agents in a relational database.
type GormAgentRepository struct {
	gormBase
}

// NewGormAgentRepository creates an agent repository on db.
func NewGormAgentRepository(db *gorm.DB) *GormAgentRepository {
	return &GormAgentRepository{
		gormBase: gormBase{db: db, entityName: "agent", table: agentRow{}.TableName()},
	}
}

// CreateAgent stores a new agent.
func (r *GormAgentRepository) CreateAgent(ctx context.Context, agent *models.Agent) error {
	if agent == nil || agent.ID == "" {
		return domain.NewValidationError("agent id is required")
	}
	ctx, span := r.startSpan(ctx, "insert")
	defer span.End()

	now := time.Now().UTC()
	if agent.CreatedAt == nil {
		agent.CreatedAt = &now
	}
	agent.UpdatedAt = &now

	row := agentRowFromModel(agent)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.translate(span, err, "create")
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// GetAgent returns the agent by id.
func (r *GormAgentRepository) GetAgent(ctx context.Context, agentID string) (*models.Agent, error) {
	ctx, span := r.startSpan(ctx, "select")
	defer span.End()

	var row agentRow
	if err := r.db.WithContext(ctx).Where("id = ?", agentID).Take(&row).Error; err != nil {
		return nil, r.translate(span, err, "get")
	}
	span.SetStatus(codes.Ok, "")
	return row.toModel(), nil
}
