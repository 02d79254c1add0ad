package slot

import (
	"sort"
)

// rank 返回按 (优先级降序, 填充序号升序) 排序的副本。
func rank(candidates []candidate) []candidate {
	ranked := make([]candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].block.Priority != ranked[j].block.Priority {
			return ranked[i].block.Priority > ranked[j].block.Priority
		}
		return ranked[i].index < ranked[j].index
	})
	return ranked
}

// restrict 按原始填充顺序返回属于 keep 的候选。
// 截断只决定成员，从不改变输出顺序。
func restrict(candidates []candidate, keep map[int]struct{}) []candidate {
	out := make([]candidate, 0, len(keep))
	for _, c := range candidates {
		if _, ok := keep[c.index]; ok {
			out = append(out, c)
		}
	}
	return out
}

// truncateBySlots 保留排名前 n 的候选。n <= 0 时返回空。
func truncateBySlots(candidates []candidate, n int) []candidate {
	if n <= 0 {
		return nil
	}
	if n >= len(candidates) {
		return candidates
	}

	keep := make(map[int]struct{}, n)
	for _, c := range rank(candidates)[:n] {
		keep[c.index] = struct{}{}
	}
	return restrict(candidates, keep)
}

// truncateByTokens 按排名贪心接纳候选，直到预算用尽。
//
// 成本超过剩余预算的候选被跳过且不消耗预算，之后更小、优先级更低的
// 候选仍可被接纳。budget <= 0 时返回空。
func truncateByTokens(candidates []candidate, budget int) []candidate {
	if budget <= 0 {
		return nil
	}

	remaining := budget
	keep := make(map[int]struct{}, len(candidates))
	for _, c := range rank(candidates) {
		if c.cost > remaining {
			continue
		}
		keep[c.index] = struct{}{}
		remaining -= c.cost
	}
	return restrict(candidates, keep)
}
