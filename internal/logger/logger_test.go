package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLoggerCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("debug", true, &buf)
	defer Init("info", true)

	ctx := WithRequestID(context.Background(), "abc12345")
	ctx = WithTraceID(ctx, "trace-1")
	ctx = WithClient(ctx, "10.0.0.1")
	Get(ctx).Info().Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc12345", entry["request_id"])
	assert.Equal(t, "trace-1", entry["trace_id"])
	assert.Equal(t, "10.0.0.1", entry["client"])
	assert.Equal(t, ServiceName, entry["service"])

	assert.Equal(t, map[string]string{
		"request_id": "abc12345",
		"trace_id":   "trace-1",
		"client":     "10.0.0.1",
	}, TraceContext(ctx))
}

func TestGetFallsBackToGlobal(t *testing.T) {
	assert.Same(t, Global(), Get(context.Background()))
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestAuditTimelineFailure(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("info", true, &buf)
	defer Init("info", true)

	ctx := WithRequestID(context.Background(), "req-9")
	AuditTimeline(ctx, AuditActionTimelineBuild, "f00d", 3, 0, errors.New("boom"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit", entry["log_type"])
	assert.Equal(t, "TIMELINE_BUILD", entry["action"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "req-9", entry["request_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, false, entry["success"])
}

func TestAuditCarriesTraceContext(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("info", true, &buf)
	defer Init("info", true)

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithTraceID(ctx, "trace-77")
	ctx = WithClient(ctx, "10.0.0.9")
	Audit(ctx, AuditEvent{Action: AuditActionCacheFlush, Resource: "timeline_cache", Success: true})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "TIMELINE_CACHE_FLUSH", entry["action"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "trace-77", entry["trace_id"])
	assert.Equal(t, "10.0.0.9", entry["client_ip"])
}
