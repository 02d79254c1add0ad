package slot

import (
	"strings"
)

// CompiledBlock 是编译器的输出单元。
type CompiledBlock struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Content  string `json:"content" yaml:"content"`
	Priority int    `json:"priority" yaml:"priority"`
	Category string `json:"category" yaml:"category"`
	// Strategy 仅在请求 "strategy" 层且策略渲染非空时设置
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
}

// DropReason 说明条目未出现在输出中的原因。
type DropReason string

const (
	DropPriority   DropReason = "priority"
	DropCategory   DropReason = "category"
	DropExcluded   DropReason = "excluded"
	DropNoRenderer DropReason = "no_renderer"
	DropEmpty      DropReason = "empty"
	DropTruncated  DropReason = "truncated"
)

// 截断方式
const (
	LimitNone      = ""
	LimitMaxSlots  = "max_slots"
	LimitMaxTokens = "max_tokens"
)

// Report 是一次编译的诊断信息。
type Report struct {
	// Considered 参与编译的条目数
	Considered int
	// Rendered 通过过滤与渲染阶段的条目数
	Rendered int
	// Emitted 最终输出的文本块数
	Emitted int
	// Dropped 被丢弃的槽位 ID → 原因
	Dropped map[string]DropReason
	// Limit 实际应用的截断方式
	Limit string
	// TokensUsed 输出文本块的估算 Token 总数（内容 + 策略）
	TokensUsed int
}

// candidate 是通过第一阶段的文本块及其排名信息。
type candidate struct {
	block CompiledBlock
	index int
	cost  int
}

// Compile 将已填充的槽位编译为有序文本块。
func (b *Bag) Compile(opts CompileOptions) []CompiledBlock {
	blocks, _ := b.CompileReport(opts)
	return blocks
}

// CompileReport 与 Compile 相同，同时返回诊断报告。
func (b *Bag) CompileReport(opts CompileOptions) ([]CompiledBlock, Report) {
	report := Report{
		Considered: len(b.entries),
		Dropped:    make(map[string]DropReason),
	}

	candidates := b.render(opts, report.Dropped)
	report.Rendered = len(candidates)

	kept := candidates
	switch {
	case opts.MaxTokens != nil:
		report.Limit = LimitMaxTokens
		kept = truncateByTokens(candidates, *opts.MaxTokens)
	case opts.MaxSlots != nil:
		report.Limit = LimitMaxSlots
		kept = truncateBySlots(candidates, *opts.MaxSlots)
	}

	keptIDs := make(map[string]struct{}, len(kept))
	blocks := make([]CompiledBlock, 0, len(kept))
	for _, c := range kept {
		keptIDs[c.block.ID] = struct{}{}
		blocks = append(blocks, c.block)
		report.TokensUsed += c.cost
	}
	for _, c := range candidates {
		if _, ok := keptIDs[c.block.ID]; !ok {
			report.Dropped[c.block.ID] = DropTruncated
		}
	}
	report.Emitted = len(blocks)

	return blocks, report
}

// render 执行过滤 + 渲染阶段，按填充顺序返回候选。
func (b *Bag) render(opts CompileOptions, dropped map[string]DropReason) []candidate {
	fidelity := opts.EffectiveFidelity()
	withStrategy := opts.HasLayer(LayerStrategy)
	counter := opts.Counter()

	candidates := make([]candidate, 0, len(b.entries))
	for i, e := range b.entries {
		meta := e.Definition().Meta()

		if opts.MinPriority != nil && meta.Priority < *opts.MinPriority {
			dropped[meta.ID] = DropPriority
			continue
		}
		if !opts.allowsCategory(meta.Category) {
			dropped[meta.ID] = DropCategory
			continue
		}
		if opts.excludes(meta.ID) {
			dropped[meta.ID] = DropExcluded
			continue
		}

		content, ok := e.render(fidelity, opts)
		if !ok {
			dropped[meta.ID] = DropNoRenderer
			continue
		}
		if strings.TrimSpace(content) == "" {
			dropped[meta.ID] = DropEmpty
			continue
		}

		block := CompiledBlock{
			ID:       meta.ID,
			Title:    meta.Title,
			Content:  content,
			Priority: meta.Priority,
			Category: meta.Category,
		}
		cost := counter.Count(content)

		if withStrategy {
			if strategy := e.renderStrategy(fidelity, opts); strings.TrimSpace(strategy) != "" {
				block.Strategy = strategy
				cost += counter.Count(strategy)
			}
		}

		candidates = append(candidates, candidate{block: block, index: i, cost: cost})
	}
	return candidates
}
