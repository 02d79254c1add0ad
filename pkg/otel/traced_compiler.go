package otel

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/easyops/contextslots-go/pkg/recipe"
	"github.com/easyops/contextslots-go/pkg/slot"
	"github.com/easyops/contextslots-go/pkg/tools"
)

// TracedCompiler 在编译外层包裹追踪、指标与日志
//
// 编译本身是纯函数；TracedCompiler 只观察输入与 Report，不改变输出。
type TracedCompiler struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// TracedCompilerOption 配置 TracedCompiler
type TracedCompilerOption func(*TracedCompiler)

// WithCompilerTracer 设置追踪器
func WithCompilerTracer(tracer Tracer) TracedCompilerOption {
	return func(c *TracedCompiler) {
		c.tracer = tracer
	}
}

// WithCompilerMetrics 设置指标
func WithCompilerMetrics(metrics Metrics) TracedCompilerOption {
	return func(c *TracedCompiler) {
		c.metrics = metrics
	}
}

// WithCompilerLogger 设置日志
func WithCompilerLogger(logger Logger) TracedCompilerOption {
	return func(c *TracedCompiler) {
		c.logger = logger
	}
}

// WithCompilerProvider 使用 Provider 的追踪器、指标与日志
func WithCompilerProvider(p *Provider) TracedCompilerOption {
	return func(c *TracedCompiler) {
		c.tracer = p.Tracer()
		c.metrics = p.Metrics()
		c.logger = p.Logger()
	}
}

// NewTracedCompiler 创建带可观测性的编译器，未配置的部分使用空实现
func NewTracedCompiler(opts ...TracedCompilerOption) *TracedCompiler {
	c := &TracedCompiler{
		tracer:  NewNoopTracer(),
		metrics: NewNoopMetrics(),
		logger:  NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile 编译 bag 并记录一次编译运行
func (c *TracedCompiler) Compile(ctx context.Context, bag *slot.Bag, opts slot.CompileOptions) ([]slot.CompiledBlock, slot.Report) {
	ctx, span, runID := c.start(ctx, opts)
	defer span.End()

	start := time.Now()
	blocks, report := bag.CompileReport(opts)
	c.observe(ctx, span, runID, report, time.Since(start))

	return blocks, report
}

// CompileRecipe 用配方预设编译 bag，并记录配方校验结果
func (c *TracedCompiler) CompileRecipe(ctx context.Context, bag *slot.Bag, r *recipe.Recipe, overrides *recipe.Overrides) ([]slot.CompiledBlock, slot.Report, recipe.Validation) {
	opts := r.Options(overrides)
	ctx, span, runID := c.start(ctx, opts, RecipeID(r.ID))
	defer span.End()

	validation := recipe.Validate(bag, r)
	RecordValidation(span, validation)

	recipeAttr := NewAttr(AttrRecipeID, r.ID)
	c.metrics.Gauge(MetricRecipeCoverage).Set(ctx, validation.Coverage, recipeAttr)
	if !validation.Valid {
		c.metrics.Counter(MetricRecipeInvalid).Add(ctx, 1, recipeAttr)
		c.logger.WithContext(ctx).Warn("recipe not satisfied",
			"run_id", runID,
			"recipe", r.ID,
			"missing", validation.Missing,
			"unexpected", validation.Unexpected,
		)
	}

	start := time.Now()
	blocks, report := recipe.CompileReport(bag, r, overrides)
	c.observe(ctx, span, runID, report, time.Since(start), recipeAttr)

	return blocks, report, validation
}

// CollectTools 收集工具并记录数量，无效的工具定义只记录警告
func (c *TracedCompiler) CollectTools(ctx context.Context, bag *slot.Bag, opts slot.CompileOptions) []slot.CollectedTool {
	collected := bag.CollectTools(opts)
	c.metrics.Counter(MetricToolsCollected).Add(ctx, int64(len(collected)))

	for _, t := range collected {
		if err := tools.ValidateDefinition(t.ToolDefinition); err != nil {
			c.logger.WithContext(ctx).Warn("invalid tool definition",
				"slot", t.SlotID,
				"error", err,
			)
		}
	}
	return collected
}

// start 开始一次编译 span 并分配运行 ID
func (c *TracedCompiler) start(ctx context.Context, opts slot.CompileOptions, attrs ...attribute.KeyValue) (context.Context, Span, string) {
	runID := uuid.NewString()
	attrs = append(attrs,
		CompileRunID(runID),
		CompileFidelity(opts.EffectiveFidelity()),
	)
	ctx, span := c.tracer.Start(ctx, SpanCompile, attrs...)
	return ctx, span, runID
}

// observe 把 Report 写入 span、指标与日志
func (c *TracedCompiler) observe(ctx context.Context, span Span, runID string, report slot.Report, elapsed time.Duration, attrs ...Attr) {
	RecordReport(span, report)

	c.metrics.Counter(MetricCompileRuns).Add(ctx, 1, attrs...)
	c.metrics.Histogram(MetricCompileDuration).Record(ctx, float64(elapsed.Microseconds())/1000, attrs...)
	c.metrics.Counter(MetricBlocksEmitted).Add(ctx, int64(report.Emitted), attrs...)
	c.metrics.Histogram(MetricTokensUsed).Record(ctx, float64(report.TokensUsed), attrs...)
	for _, id := range droppedIDs(report.Dropped) {
		reasonAttrs := append([]Attr{NewAttr(AttrDropReason, string(report.Dropped[id]))}, attrs...)
		c.metrics.Counter(MetricBlocksDropped).Add(ctx, 1, reasonAttrs...)
	}

	span.SetStatus(StatusOK, "")

	c.logger.WithContext(ctx).Debug("slots compiled",
		"run_id", runID,
		"considered", report.Considered,
		"rendered", report.Rendered,
		"emitted", report.Emitted,
		"limit", report.Limit,
		"tokens_used", report.TokensUsed,
		"dropped", len(report.Dropped),
	)
}
