package otel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// 日志格式
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// ParseLevel 解析日志级别，空字符串视为 info
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}
}

// NewSlogHandler 根据日志配置创建 slog.Handler
func NewSlogHandler(cfg LoggingConfig, w io.Writer) (slog.Handler, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == LogFormatJSON {
		return slog.NewJSONHandler(w, opts), nil
	}
	return slog.NewTextHandler(w, opts), nil
}

// Logger 定义日志接口
type Logger interface {
	// Debug 调试日志
	Debug(msg string, args ...any)
	// Info 信息日志
	Info(msg string, args ...any)
	// Warn 警告日志
	Warn(msg string, args ...any)
	// Error 错误日志
	Error(msg string, args ...any)
	// WithContext 返回带上下文的 Logger（用于关联 Trace ID）
	WithContext(ctx context.Context) Logger
	// WithFields 返回带额外字段的 Logger
	WithFields(fields map[string]any) Logger
}

// SlogLogger slog 适配器
type SlogLogger struct {
	logger   *slog.Logger
	attrs    []any
	noTraces bool
}

// NewSlogLogger 创建 slog 适配器
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

// WithoutTraceIDs 返回不在 WithContext 中附加 trace_id 的 Logger
func (l *SlogLogger) WithoutTraceIDs() *SlogLogger {
	return &SlogLogger{logger: l.logger, attrs: l.attrs, noTraces: true}
}

// Debug 调试日志
func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, append(l.attrs, args...)...)
}

// Info 信息日志
func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, append(l.attrs, args...)...)
}

// Warn 警告日志
func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, append(l.attrs, args...)...)
}

// Error 错误日志
func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, append(l.attrs, args...)...)
}

// WithContext 返回带上下文的 Logger
func (l *SlogLogger) WithContext(ctx context.Context) Logger {
	return l.withSpan(SpanFromContext(ctx))
}

// withSpan 附加 span 的 trace ID 与 span ID
func (l *SlogLogger) withSpan(span Span) Logger {
	if span == nil || l.noTraces {
		return l
	}

	sc := span.SpanContext()
	if sc.TraceID == "" || strings.Trim(sc.TraceID, "0") == "" {
		return l
	}

	attrs := make([]any, len(l.attrs), len(l.attrs)+4)
	copy(attrs, l.attrs)
	return &SlogLogger{
		logger: l.logger,
		attrs:  append(attrs, "trace_id", sc.TraceID, "span_id", sc.SpanID),
	}
}

// WithFields 返回带额外字段的 Logger
func (l *SlogLogger) WithFields(fields map[string]any) Logger {
	newAttrs := make([]any, len(l.attrs), len(l.attrs)+len(fields)*2)
	copy(newAttrs, l.attrs)

	for k, v := range fields {
		newAttrs = append(newAttrs, k, v)
	}

	return &SlogLogger{
		logger:   l.logger,
		attrs:    newAttrs,
		noTraces: l.noTraces,
	}
}

// SpanFromContext 从上下文获取 Span（辅助函数）
//
// 与全局追踪器无关：只要上下文中带有有效的 OpenTelemetry span 就能取到 ID。
func SpanFromContext(ctx context.Context) Span {
	if ctx == nil {
		return nil
	}
	return &OTelSpan{span: trace.SpanFromContext(ctx)}
}

// NoopLogger 空实现日志
type NoopLogger struct{}

// NewNoopLogger 创建空实现日志
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Debug(msg string, args ...any)           {}
func (l *NoopLogger) Info(msg string, args ...any)            {}
func (l *NoopLogger) Warn(msg string, args ...any)            {}
func (l *NoopLogger) Error(msg string, args ...any)           {}
func (l *NoopLogger) WithContext(ctx context.Context) Logger  { return l }
func (l *NoopLogger) WithFields(fields map[string]any) Logger { return l }

// 编译时接口检查
var _ Logger = (*SlogLogger)(nil)
var _ Logger = (*NoopLogger)(nil)
