package slot

import (
	"sort"

	"github.com/easyops/contextslots-go/pkg/tools"
)

// 常用保真度与层名称。保真度、类别和层都是开放的字符串标签，
// 宿主应用可以自行扩展，这里的常量只是约定。
const (
	// FidelityFull 完整渲染，所有回退的终点
	FidelityFull = "full"
	// FidelityCompact 紧凑渲染
	FidelityCompact = "compact"

	// LayerState 状态层（内容本身，始终渲染）
	LayerState = "state"
	// LayerStrategy 策略层（行动指引，仅在显式请求时渲染）
	LayerStrategy = "strategy"
)

// Renderer 将槽位数据渲染为文本。
//
// 返回空字符串或全空白字符串表示该槽位在当前编译选项下不贡献内容，
// 例如根据 opts 中的剩余预算自行截断。渲染函数必须是全函数。
type Renderer[T any] func(data T, opts CompileOptions) string

// ToolGenerator 根据槽位数据生成零个或多个工具描述。
type ToolGenerator[T any] func(data T, opts CompileOptions) []tools.ToolDefinition

// Ref 是任何可以解析出槽位 ID 的值：槽位本身或 ID。
type Ref interface {
	SlotID() string
}

// ID 是槽位标识，可直接用作 Ref。
type ID string

// SlotID 返回 ID 本身。
func (id ID) SlotID() string {
	return string(id)
}

// Meta 是槽位的元数据。
type Meta struct {
	ID          string
	Title       string
	Description string
	Category    string
	Priority    int
	Volatility  string
}

// Definition 是擦除了数据类型的槽位只读视图，供目录与配方使用。
//
// 只有 *Slot[T] 实现该接口。
type Definition interface {
	Ref
	// Meta 返回槽位元数据
	Meta() Meta
	// Fidelities 返回已定义渲染函数的保真度名称（排序后）
	Fidelities() []string
	// StrategyFidelities 返回已定义策略渲染函数的保真度名称（排序后）
	StrategyFidelities() []string
	// HasTools 报告槽位是否定义了工具生成器
	HasTools() bool

	isDefinition()
}

// Slot 是带类型的槽位定义。
//
// T 在槽位生命周期内固定；ID 在一个目录内唯一。Slot 是纯数据，
// 通常声明为包级变量。
type Slot[T any] struct {
	// ID 全局唯一键
	ID string
	// Title 标题，编译后随文本块输出
	Title string
	// Description 描述，仅用于反射与工具展示
	Description string
	// Category 类别（开放字符串标签）
	Category string
	// Priority 优先级，越大越重要
	Priority int
	// Renderers 按保真度索引的渲染函数
	Renderers map[string]Renderer[T]
	// Strategies 按保真度索引的策略渲染函数（可选）
	Strategies map[string]Renderer[T]
	// Tools 动态工具生成器（可选）
	Tools ToolGenerator[T]
	// Volatility 易变性标签（可选），如 "static"、"turn"
	Volatility string
}

// SlotID 返回槽位 ID。
func (s *Slot[T]) SlotID() string {
	return s.ID
}

// Meta 返回槽位元数据。
func (s *Slot[T]) Meta() Meta {
	return Meta{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Category:    s.Category,
		Priority:    s.Priority,
		Volatility:  s.Volatility,
	}
}

// Fidelities 返回已定义渲染函数的保真度名称。
func (s *Slot[T]) Fidelities() []string {
	return rendererNames(s.Renderers)
}

// StrategyFidelities 返回已定义策略渲染函数的保真度名称。
func (s *Slot[T]) StrategyFidelities() []string {
	return rendererNames(s.Strategies)
}

// HasTools 报告槽位是否定义了工具生成器。
func (s *Slot[T]) HasTools() bool {
	return s.Tools != nil
}

func (s *Slot[T]) isDefinition() {}

// Bind 将数据与槽位绑定，得到可放入 Bag 的 Binding。
// 这是构造 Binding 的唯一途径，因此槽位与数据的类型始终一致。
func (s *Slot[T]) Bind(data T) Binding {
	return &binding[T]{slot: s, data: data}
}

// pickRenderer 选择 renderers[fidelity]，缺失时回退到 renderers["full"]。
func pickRenderer[T any](renderers map[string]Renderer[T], fidelity string) Renderer[T] {
	if r := renderers[fidelity]; r != nil {
		return r
	}
	return renderers[FidelityFull]
}

func rendererNames[T any](renderers map[string]Renderer[T]) []string {
	names := make([]string, 0, len(renderers))
	for name, r := range renderers {
		if r != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// 编译时接口检查
var _ Definition = (*Slot[string])(nil)
var _ Ref = ID("")
