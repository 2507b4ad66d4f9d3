package middleware

import (
	"time"

	"github.com/cleberrangel/gantt-timeline-api/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID é o header HTTP para request ID
	HeaderRequestID = "X-Request-ID"
	// HeaderTraceID é o header HTTP para trace ID (distributed tracing)
	HeaderTraceID = "X-Trace-ID"

	maxInboundIDLength = 64
)

// timelineOps nomeia as operações de linha do tempo pela rota registrada
var timelineOps = map[string]string{
	"POST /api/v1/timeline":         "build",
	"POST /api/v1/timeline/export":  "export",
	"POST /api/v1/timeline/import":  "import",
	"DELETE /api/v1/timeline/cache": "cache_flush",
}

func timelineOp(method, route string) string {
	return timelineOps[method+" "+route]
}

// RequestID correlaciona cada requisição por request_id e trace_id e registra
// início e fim com a operação de linha do tempo correspondente
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := inboundID(c.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.New().String()[:8]
		}
		traceID := inboundID(c.GetHeader(HeaderTraceID))
		if traceID == "" {
			traceID = uuid.New().String()
		}

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		ctx = logger.WithTraceID(ctx, traceID)
		ctx = logger.WithClient(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, requestID)
		c.Header(HeaderTraceID, traceID)

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		log := logger.Get(ctx).With().Str("route", route).Logger()
		op := timelineOp(c.Request.Method, route)

		startEvent := log.Debug()
		if op != "" {
			startEvent = log.Info().Str("timeline_op", op)
			if op == "import" {
				startEvent = startEvent.Int64("upload_bytes", c.Request.ContentLength)
			}
		}
		startEvent.
			Str("method", c.Request.Method).
			Str("user_agent", c.Request.UserAgent()).
			Msg("Requisição iniciada")

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		logEvent := log.Info()
		if statusCode >= 400 {
			logEvent = log.Warn()
		}
		if statusCode >= 500 {
			logEvent = log.Error()
		}
		if op != "" {
			logEvent = logEvent.Str("timeline_op", op)
		}

		logEvent.
			Str("method", c.Request.Method).
			Int("status", statusCode).
			Int("size", c.Writer.Size()).
			Float64("latency_ms", float64(duration.Microseconds())/1000).
			Msg("Requisição concluída")
	}
}

// inboundID aceita um ID recebido do cliente apenas se for curto e sem
// caracteres que quebrem headers ou logs
func inboundID(id string) string {
	if id == "" || len(id) > maxInboundIDLength {
		return ""
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return ""
		}
	}
	return id
}
