// Package recipe 定义配方：为一类 LLM 调用声明期望的槽位、编译预设与排版。
//
// 配方本身不持有数据。Validate 对照配方检查 Bag 的完整性，
// Compile 用配方预设编译 Bag，并在配方声明排版时应用 U 形排版。
package recipe

import (
	"github.com/easyops/contextslots-go/pkg/slot"
)

// Slots 声明配方期望的槽位。
type Slots struct {
	// Required 必需槽位
	Required []slot.Definition
	// Optional 可选槽位
	Optional []slot.Definition
}

// Layout 描述 U 形排版：Head 中的槽位置顶，Tail 中的槽位置底。
type Layout struct {
	Head []string `json:"head,omitempty" yaml:"head,omitempty"`
	Tail []string `json:"tail,omitempty" yaml:"tail,omitempty"`
}

// Recipe 是一类调用的命名配置。
type Recipe struct {
	ID          string
	Name        string
	Description string
	Slots       Slots
	// Preset 默认编译选项
	Preset slot.CompileOptions
	// Layout 可选的 U 形排版
	Layout *Layout
}

// Expected 返回 Required 与 Optional 的并集 ID（按声明顺序去重）。
func (r *Recipe) Expected() []string {
	seen := make(map[string]struct{}, len(r.Slots.Required)+len(r.Slots.Optional))
	ids := make([]string, 0, len(r.Slots.Required)+len(r.Slots.Optional))
	for _, group := range [][]slot.Definition{r.Slots.Required, r.Slots.Optional} {
		for _, def := range group {
			id := def.SlotID()
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// Definitions 返回 Required 与 Optional 中的全部槽位定义（按声明顺序，未去重）。
func (r *Recipe) Definitions() []slot.Definition {
	defs := make([]slot.Definition, 0, len(r.Slots.Required)+len(r.Slots.Optional))
	defs = append(defs, r.Slots.Required...)
	defs = append(defs, r.Slots.Optional...)
	return defs
}
