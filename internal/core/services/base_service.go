package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/masjid_treasury/internal/apperrors"
	"github.com/SscSPs/masjid_treasury/internal/core/domain"
	portssvc "github.com/SscSPs/masjid_treasury/internal/core/ports/services"
	"github.com/SscSPs/masjid_treasury/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Clock portssvc.Clock
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the current time from the injected clock, in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

// Authorize checks that actor holds at least one of caps. It is the single
// capability check used by every service.
func (s *BaseService) Authorize(ctx context.Context, actor domain.Actor, action string, caps ...domain.Capability) error {
	if actor.ID != "" && actor.HasAny(caps...) {
		return nil
	}
	required := make([]string, len(caps))
	for i, c := range caps {
		required[i] = string(c)
	}
	err := &apperrors.InsufficientRoleError{ActorID: actor.ID, Action: action, Required: required}
	s.LogDebug(ctx, "Actor lacks capability",
		slog.String("actor_id", actor.ID),
		slog.String("action", action),
		slog.String("required", strings.Join(required, ",")))
	return err
}

// newAuditEntry builds an audit row; value, when non-nil, is stored as JSON.
func newAuditEntry(entityType, entityID string, action domain.AuditAction, actor domain.Actor, at time.Time, value any, remarks string) domain.AuditEntry {
	entry := domain.AuditEntry{
		AuditID:    uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actor.ID,
		At:         at,
		Remarks:    remarks,
	}
	if value != nil {
		if b, err := json.Marshal(value); err == nil {
			entry.NewValue = string(b)
		}
	}
	return entry
}
