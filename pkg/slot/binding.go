package slot

import (
	"github.com/easyops/contextslots-go/pkg/tools"
)

// Binding 是槽位与其数据的配对。
//
// Bag 只存储 Binding，存储时丢弃了静态类型 T，但由于 Binding 只能通过
// (*Slot[T]).Bind 构造，槽位与数据的配对在构造时即已确定，始终类型一致。
type Binding interface {
	// Definition 返回所绑定的槽位
	Definition() Definition
	// Value 返回所绑定的数据（擦除类型）
	Value() any

	render(fidelity string, opts CompileOptions) (string, bool)
	renderStrategy(fidelity string, opts CompileOptions) string
	toolDefs(opts CompileOptions) []tools.ToolDefinition
}

type binding[T any] struct {
	slot *Slot[T]
	data T
}

func (b *binding[T]) Definition() Definition {
	return b.slot
}

func (b *binding[T]) Value() any {
	return b.data
}

// render 返回渲染结果；第二个返回值报告是否存在可用的渲染函数。
func (b *binding[T]) render(fidelity string, opts CompileOptions) (string, bool) {
	r := pickRenderer(b.slot.Renderers, fidelity)
	if r == nil {
		return "", false
	}
	return r(b.data, opts), true
}

func (b *binding[T]) renderStrategy(fidelity string, opts CompileOptions) string {
	r := pickRenderer(b.slot.Strategies, fidelity)
	if r == nil {
		return ""
	}
	return r(b.data, opts)
}

func (b *binding[T]) toolDefs(opts CompileOptions) []tools.ToolDefinition {
	if b.slot.Tools == nil {
		return nil
	}
	return b.slot.Tools(b.data, opts)
}
