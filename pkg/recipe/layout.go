package recipe

import (
	"sort"

	"github.com/easyops/contextslots-go/pkg/slot"
)

// UShapedLayout 重排文本块：Head 按声明顺序置顶，其余按优先级降序（稳定）
// 居中，Tail 按声明顺序置底。
//
// 模型对上下文首尾的注意力强于中部。不存在的 ID 被跳过；同时出现在
// Head 与 Tail 中的 ID 只在 Head 中输出一次。
func UShapedLayout(blocks []slot.CompiledBlock, layout Layout) []slot.CompiledBlock {
	byID := make(map[string]int, len(blocks))
	for i, b := range blocks {
		if _, ok := byID[b.ID]; !ok {
			byID[b.ID] = i
		}
	}

	claimed := make(map[int]struct{}, len(blocks))
	claim := func(ids []string) []int {
		var picked []int
		for _, id := range ids {
			i, ok := byID[id]
			if !ok {
				continue
			}
			if _, done := claimed[i]; done {
				continue
			}
			claimed[i] = struct{}{}
			picked = append(picked, i)
		}
		return picked
	}
	head := claim(layout.Head)
	tail := claim(layout.Tail)

	middle := make([]slot.CompiledBlock, 0, len(blocks))
	for i, b := range blocks {
		if _, done := claimed[i]; !done {
			middle = append(middle, b)
		}
	}
	sort.SliceStable(middle, func(i, j int) bool {
		return middle[i].Priority > middle[j].Priority
	})

	out := make([]slot.CompiledBlock, 0, len(blocks))
	for _, i := range head {
		out = append(out, blocks[i])
	}
	out = append(out, middle...)
	for _, i := range tail {
		out = append(out, blocks[i])
	}
	return out
}
