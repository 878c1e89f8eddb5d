package logger

import (
	"context"
	log "log/slog"
)

// TraceIDKey gin.Context 中 trace_id 的 key
const TraceIDKey = "trace_id"

type (
	traceCtxKey  struct{}
	userIDCtxKey struct{}
)

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceCtxKey{}, traceID)
}

func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceCtxKey{}).(string)
	return id
}

// WithUserID 鉴权通过后写入，日志中附带 user_id
func WithUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, userIDCtxKey{}, userID)
}

func UserID(ctx context.Context) (uint64, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(userIDCtxKey{}).(uint64)
	return id, ok
}

// ContextHandler 包装器，用于从 ctx 中提取 trace_id 与 user_id
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if traceID := TraceID(ctx); traceID != "" {
		r.AddAttrs(log.String(TraceIDKey, traceID))
	}
	if userID, ok := UserID(ctx); ok {
		r.AddAttrs(log.Uint64("user_id", userID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}
