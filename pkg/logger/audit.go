package logger

import (
	"context"
	"log/slog"
	"time"
)

// AuditEvent is a security-relevant authentication event.
type AuditEvent struct {
	EventType     string
	UserID        int64
	AuthType      string // "local" or "directory"
	Success       bool
	FailureReason string
}

// AuditLogger emits structured audit records for authentication activity.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogAuthAttempt records an authentication attempt. Failures log at Warn so
// directory and credential problems stay visible server-side even though
// clients see a uniform rejection.
func (al *AuditLogger) LogAuthAttempt(event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.UserID != 0 {
		attrs = append(attrs, slog.Int64("user_id", event.UserID))
	}
	if event.AuthType != "" {
		attrs = append(attrs, slog.String("auth_type", event.AuthType))
	}
	if event.FailureReason != "" {
		attrs = append(attrs, slog.String("failure_reason", event.FailureReason))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	al.logger.LogAttrs(context.Background(), level, "audit", attrs...)
}
