package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	// Timeline operations
	AuditActionTimelineBuild  AuditAction = "TIMELINE_BUILD"
	AuditActionTimelineExport AuditAction = "TIMELINE_EXPORT"
	AuditActionTimelineImport AuditAction = "TIMELINE_IMPORT"
	AuditActionCacheFlush     AuditAction = "TIMELINE_CACHE_FLUSH"

	// API operations
	AuditActionAPIRequest AuditAction = "API_REQUEST"
	AuditActionAPIError   AuditAction = "API_ERROR"
)

// AuditEvent represents an audit log entry
type AuditEvent struct {
	Action     AuditAction
	Resource   string
	ResourceID string
	Details    map[string]interface{}
	ClientIP   string
	RequestID  string
	TraceID    string
	Success    bool
	Error      string
	Duration   int64 // Duration in milliseconds
	Method     string
	Path       string
	StatusCode int
}

// auditLogger is a specialized logger for audit events
var auditLogger = globalLogger.With().Str("log_type", "audit").Logger()

// InitAudit initializes the audit logger
func InitAudit() {
	auditLogger = globalLogger.With().Str("log_type", "audit").Logger()
}

// Audit logs an audit event
func Audit(ctx context.Context, event AuditEvent) {
	trace := TraceContext(ctx)
	if event.RequestID == "" {
		event.RequestID = trace["request_id"]
	}
	if event.TraceID == "" {
		event.TraceID = trace["trace_id"]
	}
	if event.ClientIP == "" {
		event.ClientIP = trace["client"]
	}

	var logEvent *zerolog.Event
	if event.Success {
		logEvent = auditLogger.Info()
	} else {
		logEvent = auditLogger.Warn()
	}

	logEvent.
		Str("action", string(event.Action)).
		Str("resource", event.Resource).
		Str("resource_id", event.ResourceID).
		Str("client_ip", event.ClientIP).
		Str("request_id", event.RequestID).
		Bool("success", event.Success).
		Time("timestamp", time.Now().UTC())

	if event.TraceID != "" {
		logEvent.Str("trace_id", event.TraceID)
	}

	if event.Error != "" {
		logEvent.Str("error", event.Error)
	}

	if event.Duration > 0 {
		logEvent.Int64("duration_ms", event.Duration)
	}

	if event.Method != "" {
		logEvent.Str("method", event.Method)
	}

	if event.Path != "" {
		logEvent.Str("path", event.Path)
	}

	if event.StatusCode > 0 {
		logEvent.Int("status_code", event.StatusCode)
	}

	if len(event.Details) > 0 {
		logEvent.Interface("details", event.Details)
	}

	logEvent.Msg("Audit event")
}

// AuditRequest logs an API request audit event
func AuditRequest(ctx context.Context, method, path string, statusCode int, duration int64, clientIP string) {
	success := statusCode < 400
	action := AuditActionAPIRequest
	if !success {
		action = AuditActionAPIError
	}

	Audit(ctx, AuditEvent{
		Action:     action,
		Resource:   "api",
		ResourceID: path,
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Duration:   duration,
		ClientIP:   clientIP,
		Success:    success,
	})
}

// AuditTimeline logs the outcome of a timeline operation (build, export or import)
func AuditTimeline(ctx context.Context, action AuditAction, fingerprint string, tasks, projects int, err error) {
	event := AuditEvent{
		Action:     action,
		Resource:   "timeline",
		ResourceID: fingerprint,
		Success:    err == nil,
		Details: map[string]interface{}{
			"tasks":    tasks,
			"projects": projects,
		},
	}
	if err != nil {
		event.Error = err.Error()
	}
	Audit(ctx, event)
}
