package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ctxKey string

const (
	RequestIDKey ctxKey = "request_id"
	LoggerKey    ctxKey = "logger"
	TraceIDKey   ctxKey = "trace_id"
	ClientKey    ctxKey = "client"
)

// ServiceName identifica o serviço nos logs
const ServiceName = "gantt-timeline-api"

var globalLogger = zerolog.New(os.Stdout).With().Timestamp().Str("service", ServiceName).Logger()

// Init inicializa o logger global
func Init(level string, jsonFormat bool) {
	InitWithWriter(level, jsonFormat, os.Stdout)
}

// InitWithWriter inicializa o logger global escrevendo em out
func InitWithWriter(level string, jsonFormat bool, out io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	output := out
	if !jsonFormat {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	globalLogger = zerolog.New(output).
		Level(lvl).
		With().
		Timestamp().
		Str("service", ServiceName).
		Logger()

	InitAudit()
}

// Global retorna o logger global
func Global() *zerolog.Logger {
	return &globalLogger
}

// Get retorna logger do contexto ou global
func Get(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &globalLogger
	}
	if l, ok := ctx.Value(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	return &globalLogger
}

// FromGin extrai o logger do contexto Gin
func FromGin(c *gin.Context) *zerolog.Logger {
	return Get(c.Request.Context())
}

// WithRequestID adiciona request_id ao logger e contexto
func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := globalLogger.With().Str("request_id", requestID).Logger()
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	ctx = context.WithValue(ctx, LoggerKey, &l)
	return ctx
}

// WithTraceID adiciona um trace ID para rastreamento distribuído
func WithTraceID(ctx context.Context, traceID string) context.Context {
	existingLogger := Get(ctx)
	l := existingLogger.With().Str("trace_id", traceID).Logger()
	ctx = context.WithValue(ctx, TraceIDKey, traceID)
	ctx = context.WithValue(ctx, LoggerKey, &l)
	return ctx
}

// WithClient adiciona o identificador do cliente (IP) ao contexto e logger
func WithClient(ctx context.Context, client string) context.Context {
	existingLogger := Get(ctx)
	l := existingLogger.With().Str("client", client).Logger()
	ctx = context.WithValue(ctx, ClientKey, client)
	ctx = context.WithValue(ctx, LoggerKey, &l)
	return ctx
}

// GetRequestID extrai request_id do contexto
func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, RequestIDKey)
}

// GetTraceID extrai trace_id do contexto
func GetTraceID(ctx context.Context) string {
	return stringValue(ctx, TraceIDKey)
}

// GetClient extrai o cliente do contexto
func GetClient(ctx context.Context) string {
	return stringValue(ctx, ClientKey)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// TraceContext retorna todas as informações de rastreamento do contexto, usado pela auditoria
func TraceContext(ctx context.Context) map[string]string {
	return map[string]string{
		"request_id": GetRequestID(ctx),
		"trace_id":   GetTraceID(ctx),
		"client":     GetClient(ctx),
	}
}
