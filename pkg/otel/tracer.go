// Package otel 提供编译运行的可观测性支持：日志、追踪与指标
package otel

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/easyops/contextslots-go/pkg/recipe"
	"github.com/easyops/contextslots-go/pkg/slot"
)

// 编译 span 与事件名称
const (
	SpanCompile      = "slots.compile"
	EventSlotDropped = "slot.dropped"
)

// Tracer 为编译运行创建 span
//
// 编译在进程内同步完成，span 一律为 internal 类型。
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span)
}

// Span 编译运行用到的 span 操作
type Span interface {
	End()
	SetAttributes(attrs ...attribute.KeyValue)
	AddEvent(name string, attrs ...attribute.KeyValue)
	SetStatus(code StatusCode, description string)
	SpanContext() SpanContext
}

// SpanContext Span 上下文信息
type SpanContext struct {
	TraceID string
	SpanID  string
}

// StatusCode Span 状态码
type StatusCode int

const (
	StatusUnset StatusCode = iota
	StatusOK
	StatusError
)

// RecordReport 把编译报告写入 span：计数属性，以及按槽位 ID 排序的丢弃事件
func RecordReport(span Span, report slot.Report) {
	span.SetAttributes(
		attribute.String(AttrCompileLimit, report.Limit),
		attribute.Int(AttrCompileConsidered, report.Considered),
		attribute.Int(AttrCompileRendered, report.Rendered),
		attribute.Int(AttrCompileEmitted, report.Emitted),
		attribute.Int(AttrCompileTokens, report.TokensUsed),
	)
	for _, id := range droppedIDs(report.Dropped) {
		span.AddEvent(EventSlotDropped, SlotDropped(id, string(report.Dropped[id]))...)
	}
}

// RecordValidation 把配方校验结果写入 span
func RecordValidation(span Span, v recipe.Validation) {
	span.SetAttributes(
		attribute.Bool(AttrRecipeValid, v.Valid),
		attribute.Float64(AttrRecipeCoverage, v.Coverage),
		attribute.StringSlice(AttrRecipeMissing, v.Missing),
	)
}

// droppedIDs 返回按 ID 排序的丢弃槽位
func droppedIDs(dropped map[string]slot.DropReason) []string {
	ids := make([]string, 0, len(dropped))
	for id := range dropped {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// OTelTracer 基于 OpenTelemetry 的追踪器
type OTelTracer struct {
	tracer trace.Tracer
}

// NewTracer 创建 OpenTelemetry 追踪器
func NewTracer(tracer trace.Tracer) *OTelTracer {
	return &OTelTracer{tracer: tracer}
}

// Start 开始一个 internal span
func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, &OTelSpan{span: span}
}

// OTelSpan 包装 trace.Span
type OTelSpan struct {
	span trace.Span
}

func (s *OTelSpan) End() {
	s.span.End()
}

func (s *OTelSpan) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

func (s *OTelSpan) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetStatus 映射到 OpenTelemetry 状态码
func (s *OTelSpan) SetStatus(code StatusCode, description string) {
	switch code {
	case StatusOK:
		s.span.SetStatus(codes.Ok, description)
	case StatusError:
		s.span.SetStatus(codes.Error, description)
	default:
		s.span.SetStatus(codes.Unset, description)
	}
}

// SpanContext 返回十六进制的 trace/span ID
func (s *OTelSpan) SpanContext() SpanContext {
	sc := s.span.SpanContext()
	return SpanContext{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NoopTracer 空实现追踪器
type NoopTracer struct{}

// NewNoopTracer 创建空实现追踪器
func NewNoopTracer() *NoopTracer {
	return &NoopTracer{}
}

func (t *NoopTracer) Start(ctx context.Context, _ string, _ ...attribute.KeyValue) (context.Context, Span) {
	return ctx, NoopSpan{}
}

// NoopSpan 空实现 Span
type NoopSpan struct{}

func (NoopSpan) End()                                   {}
func (NoopSpan) SetAttributes(...attribute.KeyValue)    {}
func (NoopSpan) AddEvent(string, ...attribute.KeyValue) {}
func (NoopSpan) SetStatus(StatusCode, string)           {}
func (NoopSpan) SpanContext() SpanContext               { return SpanContext{} }

// 编译时接口检查
var _ Tracer = (*OTelTracer)(nil)
var _ Tracer = (*NoopTracer)(nil)
var _ Span = (*OTelSpan)(nil)
var _ Span = NoopSpan{}
