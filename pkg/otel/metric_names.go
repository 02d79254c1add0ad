package otel

// 预定义的指标名称
// 遵循 OpenTelemetry 语义约定
const (
	// 编译指标
	MetricCompileRuns     = "slots.compile.runs"     // 计数器: 编译次数
	MetricCompileDuration = "slots.compile.duration" // 直方图: 编译耗时(ms)
	MetricBlocksEmitted   = "slots.blocks.emitted"   // 计数器: 输出文本块数
	MetricBlocksDropped   = "slots.blocks.dropped"   // 计数器: 丢弃文本块数（按原因）
	MetricTokensUsed      = "slots.tokens.used"      // 直方图: 每次编译的估算 Token 数

	// 配方指标
	MetricRecipeCoverage = "slots.recipe.coverage" // 仪表: 最近一次编译的配方覆盖率
	MetricRecipeInvalid  = "slots.recipe.invalid"  // 计数器: 不满足配方的编译次数

	// 工具指标
	MetricToolsCollected = "slots.tools.collected" // 计数器: 收集到的工具数
)

// MetricUnit 指标单位
type MetricUnit string

const (
	UnitNone         MetricUnit = ""
	UnitMilliseconds MetricUnit = "ms"
	UnitCount        MetricUnit = "1"
	UnitTokens       MetricUnit = "{token}"
)

// MetricDescription 指标描述
type MetricDescription struct {
	Name        string
	Description string
	Unit        MetricUnit
	Type        string // counter, histogram, gauge
}

// PredefinedMetrics 预定义指标列表
var PredefinedMetrics = []MetricDescription{
	{MetricCompileRuns, "Number of slot compilations", UnitCount, "counter"},
	{MetricCompileDuration, "Duration of slot compilations", UnitMilliseconds, "histogram"},
	{MetricBlocksEmitted, "Number of compiled blocks emitted", UnitCount, "counter"},
	{MetricBlocksDropped, "Number of filled slots dropped during compilation", UnitCount, "counter"},
	{MetricTokensUsed, "Estimated tokens per compilation", UnitTokens, "histogram"},

	{MetricRecipeCoverage, "Share of expected recipe slots filled", UnitNone, "gauge"},
	{MetricRecipeInvalid, "Number of compilations whose bag did not satisfy the recipe", UnitCount, "counter"},

	{MetricToolsCollected, "Number of tools collected from filled slots", UnitCount, "counter"},
}

// describeMetric 返回预定义指标的描述
func describeMetric(name string) (MetricDescription, bool) {
	for _, d := range PredefinedMetrics {
		if d.Name == name {
			return d, true
		}
	}
	return MetricDescription{}, false
}
