package recipe

import (
	"github.com/easyops/contextslots-go/pkg/slot"
	"github.com/easyops/contextslots-go/pkg/tokens"
)

// Overrides 覆盖配方预设的部分编译选项。
type Overrides struct {
	// Layers 非 nil 时替换预设的 Layers
	Layers []string
	// TokenCounter 非 nil 时替换预设的估算器
	TokenCounter tokens.Counter
}

// Options 返回应用 overrides 后的编译选项。overrides 可以为 nil。
func (r *Recipe) Options(overrides *Overrides) slot.CompileOptions {
	opts := r.Preset.Clone()
	if overrides == nil {
		return opts
	}
	if overrides.Layers != nil {
		opts.Layers = append([]string(nil), overrides.Layers...)
	}
	if overrides.TokenCounter != nil {
		opts.TokenCounter = overrides.TokenCounter
	}
	return opts
}

// Compile 用配方预设编译 bag，配方声明排版时应用 UShapedLayout。
func Compile(bag *slot.Bag, r *Recipe, overrides *Overrides) []slot.CompiledBlock {
	blocks, _ := CompileReport(bag, r, overrides)
	return blocks
}

// CompileReport 与 Compile 相同，同时返回编译报告。
func CompileReport(bag *slot.Bag, r *Recipe, overrides *Overrides) ([]slot.CompiledBlock, slot.Report) {
	blocks, report := bag.CompileReport(r.Options(overrides))
	if r.Layout != nil {
		blocks = UShapedLayout(blocks, *r.Layout)
	}
	return blocks, report
}

// CollectTools 用配方预设收集工具。
func CollectTools(bag *slot.Bag, r *Recipe, overrides *Overrides) []slot.CollectedTool {
	return bag.CollectTools(r.Options(overrides))
}
