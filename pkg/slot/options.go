package slot

import (
	"github.com/easyops/contextslots-go/pkg/core/errors"
	"github.com/easyops/contextslots-go/pkg/tokens"
)

// CompileOptions 控制一次编译。
//
// 指针字段为 nil 表示未设置。同时设置 MaxSlots 与 MaxTokens 时，
// 只应用 MaxTokens（Token 预算是保护模型上下文窗口的硬约束）；
// Validate 会把这种组合报告为 ErrConflictingLimits，供配置与工具检查使用。
type CompileOptions struct {
	// Fidelity 保真度，为空时视为 "full"
	Fidelity string `json:"fidelity,omitempty" yaml:"fidelity,omitempty" koanf:"fidelity"`
	// MinPriority 最低优先级，低于该值的槽位被丢弃
	MinPriority *int `json:"min_priority,omitempty" yaml:"min_priority,omitempty" koanf:"min_priority"`
	// MaxSlots 最多保留的文本块数量
	MaxSlots *int `json:"max_slots,omitempty" yaml:"max_slots,omitempty" koanf:"max_slots"`
	// MaxTokens Token 预算
	MaxTokens *int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" koanf:"max_tokens"`
	// TokenCounter Token 估算器，为 nil 时使用 ceil(字符数 / 2)
	TokenCounter tokens.Counter `json:"-" yaml:"-" koanf:"-"`
	// Categories 只保留这些类别；为空表示不过滤
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty" koanf:"categories"`
	// Exclude 排除的槽位 ID
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty" koanf:"exclude"`
	// Layers 额外渲染的层，如 "strategy"
	Layers []string `json:"layers,omitempty" yaml:"layers,omitempty" koanf:"layers"`
}

// Limit 返回指向 n 的指针，用于设置 MinPriority、MaxSlots、MaxTokens。
func Limit(n int) *int {
	return &n
}

// Validate 检查选项组合。编译本身从不调用它。
func (o CompileOptions) Validate() error {
	if o.MaxSlots != nil && o.MaxTokens != nil {
		return errors.ErrConflictingLimits
	}
	return nil
}

// EffectiveFidelity 返回实际使用的保真度。
func (o CompileOptions) EffectiveFidelity() string {
	if o.Fidelity == "" {
		return FidelityFull
	}
	return o.Fidelity
}

// Counter 返回实际使用的 Token 估算器。
func (o CompileOptions) Counter() tokens.Counter {
	return tokens.OrDefault(o.TokenCounter)
}

// TokenBudget 返回 Token 预算；未设置时第二个返回值为 false。
// 渲染函数可据此自行截断。
func (o CompileOptions) TokenBudget() (int, bool) {
	if o.MaxTokens == nil {
		return 0, false
	}
	return *o.MaxTokens, true
}

// HasLayer 报告是否请求了指定层。
func (o CompileOptions) HasLayer(layer string) bool {
	return containsString(o.Layers, layer)
}

// Clone 返回深拷贝，切片与指针字段不与原值共享。
func (o CompileOptions) Clone() CompileOptions {
	c := o
	c.MinPriority = cloneInt(o.MinPriority)
	c.MaxSlots = cloneInt(o.MaxSlots)
	c.MaxTokens = cloneInt(o.MaxTokens)
	c.Categories = cloneStrings(o.Categories)
	c.Exclude = cloneStrings(o.Exclude)
	c.Layers = cloneStrings(o.Layers)
	return c
}

// allowsCategory 报告类别是否通过 Categories 过滤。
//
// nil 与空切片等价，均不过滤：YAML 预设编码时 omitempty 会丢掉空列表。
func (o CompileOptions) allowsCategory(category string) bool {
	return len(o.Categories) == 0 || containsString(o.Categories, category)
}

// excludes 报告槽位是否被排除。
func (o CompileOptions) excludes(id string) bool {
	return containsString(o.Exclude, id)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
