// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	sqliteDriver "github.com/glebarez/sqlite"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/linuxfoundation/lfx-v2-meeting-assistant/internal/domain"
)

// Relational drivers accepted by OpenGorm.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// OpenGorm opens a gorm connection for driver and creates the meeting and agent tables.
func OpenGorm(driver, dsn string) (*gorm.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = DriverSQLite
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		if driver != DriverSQLite {
			return nil, fmt.Errorf("dsn is required for driver %q", driver)
		}
		dsn = "meeting-assistant.db"
	}

	config := &gorm.Config{Logger: logger.Discard}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		if err := ensureSQLiteDirectory(dsn); err != nil {
			return nil, err
		}
		db, err = gorm.Open(sqliteDriver.Open(dsn), config)
	case DriverPostgres:
		db, err = gorm.Open(postgres.Open(dsn), config)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if err := db.AutoMigrate(&meetingRow{}, &agentRow{}); err != nil {
		return nil, fmt.Errorf("migrate %s database: %w", driver, err)
	}
	return db, nil
}

// CloseGorm closes the connection pool behind db.
func CloseGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.Close()
}

func ensureSQLiteDirectory(dsn string) error {
	path, ok := sqliteFilePath(dsn)
	if !ok {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite db dir: %w", err)
	}
	return nil
}

// sqliteFilePath returns the file behind a sqlite dsn, or false for in-memory databases.
func sqliteFilePath(dsn string) (string, bool) {
	raw := strings.TrimSpace(dsn)
	lower := strings.ToLower(raw)
	if raw == "" || lower == ":memory:" || strings.HasPrefix(lower, "file::memory:") {
		return "", false
	}

	if strings.HasPrefix(lower, "file:") {
		parsed, err := url.Parse(raw)
		if err != nil {
			return stripQuery(strings.TrimPrefix(raw, "file:")), true
		}
		if strings.EqualFold(parsed.Query().Get("mode"), "memory") {
			return "", false
		}
		if parsed.Path != "" {
			return parsed.Path, true
		}
		if parsed.Opaque != "" {
			return stripQuery(parsed.Opaque), true
		}
		return "", false
	}

	return stripQuery(raw), true
}

func stripQuery(v string) string {
	if i := strings.Index(v, "?"); i >= 0 {
		return v[:i]
	}
	return v
}

// gormBase holds what the gorm repositories share: the connection, the entity name
// for messages and the span helpers.
type gormBase struct {
	db         *gorm.DB
	entityName string
	table      string
}

// IsReady checks if the repository is ready for use
func (b gormBase) IsReady() bool {
	return b.db != nil
}

func (b gormBase) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "gorm."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", b.db.Dialector.Name()),
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", b.table),
		),
	)
}

// translate maps a gorm error to a domain error and records it on the span.
func (b gormBase) translate(span trace.Span, err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = domain.NewNotFoundError(fmt.Sprintf("%s not found", b.entityName), err)
		endSpanWithError(span, err, "not found")
		return err
	}
	err = domain.NewInternalError(fmt.Sprintf("failed to %s %s", action, b.entityName), err)
	endSpanWithError(span, err, "")
	return err
}
