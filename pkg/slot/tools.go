package slot

import (
	"github.com/easyops/contextslots-go/pkg/tools"
)

// CollectedTool 是带来源槽位 ID 的工具描述。
type CollectedTool struct {
	// SlotID 生成该工具的槽位
	SlotID               string `json:"slot_id" yaml:"slot_id"`
	tools.ToolDefinition `yaml:",inline"`
}

// CollectTools 按填充顺序收集所有槽位暴露的工具。
//
// 与 Compile 不同，这里只应用 Categories 与 Exclude 过滤；保真度、优先级
// 与截断都被忽略，工具生成器总是以 "full" 保真度调用。一个槽位的文本被
// 截断并不意味着它的工具不可用。
func (b *Bag) CollectTools(opts CompileOptions) []CollectedTool {
	toolOpts := opts.Clone()
	toolOpts.Fidelity = FidelityFull

	var collected []CollectedTool
	for _, e := range b.entries {
		meta := e.Definition().Meta()
		if !opts.allowsCategory(meta.Category) || opts.excludes(meta.ID) {
			continue
		}
		for _, def := range e.toolDefs(toolOpts) {
			collected = append(collected, CollectedTool{
				SlotID:         meta.ID,
				ToolDefinition: def,
			})
		}
	}
	return collected
}

// Definitions 返回不带来源信息的工具定义列表。
func Definitions(collected []CollectedTool) []tools.ToolDefinition {
	defs := make([]tools.ToolDefinition, len(collected))
	for i, c := range collected {
		defs[i] = c.ToolDefinition
	}
	return defs
}
