package builtin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/easyops/contextslots-go/pkg/core/message"
	"github.com/easyops/contextslots-go/pkg/slot"
	"github.com/easyops/contextslots-go/pkg/tools"
)

// 类别
const (
	CategoryInstructions = "instructions"
	CategoryTask         = "task"
	CategoryTaskState    = "task_state"
	CategoryEvidence     = "evidence"
	CategoryHistory      = "history"
	CategoryOutput       = "output"
)

// 易变性
const (
	VolatilityStatic  = "static"
	VolatilitySession = "session"
	VolatilityTurn    = "turn"
)

const (
	// CompactHistoryMessages compact 保真度下保留的历史消息数
	CompactHistoryMessages = 4
	// CompactEvidenceItems compact 保真度下保留的证据条数
	CompactEvidenceItems = 3
	// CompactEvidenceRunes compact 保真度下每条证据的最大字符数
	CompactEvidenceRunes = 160
	// EvidenceBudgetShare 证据在 Token 预算中可占的比例
	EvidenceBudgetShare = 0.5
	// RetrieveEvidenceTool 证据为空时暴露的检索工具名称
	RetrieveEvidenceTool = "retrieve_evidence"
)

const truncatedMarker = "... (内容已截断)"

// Instructions 系统指令（P0）
var Instructions = &slot.Slot[string]{
	ID:          "instructions",
	Title:       "Role & Policies",
	Description: "系统指令：角色、规则与约束",
	Category:    CategoryInstructions,
	Priority:    100,
	Volatility:  VolatilityStatic,
	Renderers: map[string]slot.Renderer[string]{
		slot.FidelityFull: func(s string, _ slot.CompileOptions) string { return s },
	},
}

// Task 当前用户任务（P1）
var Task = &slot.Slot[string]{
	ID:          "task",
	Title:       "Task",
	Description: "当前用户问题",
	Category:    CategoryTask,
	Priority:    90,
	Volatility:  VolatilityTurn,
	Renderers: map[string]slot.Renderer[string]{
		slot.FidelityFull: func(q string, _ slot.CompileOptions) string {
			if strings.TrimSpace(q) == "" {
				return ""
			}
			return "用户问题：" + q
		},
	},
}

// State 任务状态与关键结论（P1），带策略层
var State = &slot.Slot[TaskState]{
	ID:          "task_state",
	Title:       "State",
	Description: "关键进展与未决问题",
	Category:    CategoryTaskState,
	Priority:    80,
	Volatility:  VolatilitySession,
	Renderers: map[string]slot.Renderer[TaskState]{
		slot.FidelityFull:    renderStateFull,
		slot.FidelityCompact: renderStateCompact,
	},
	Strategies: map[string]slot.Renderer[TaskState]{
		slot.FidelityFull: func(s TaskState, _ slot.CompileOptions) string {
			if s.NextStep != "" {
				return s.NextStep
			}
			if len(s.OpenQuestions) > 0 {
				return "先解决未决问题：" + s.OpenQuestions[0]
			}
			return ""
		},
	},
}

// Output 输出格式约束（P1）
var Output = &slot.Slot[OutputFormat]{
	ID:          "output_format",
	Title:       "Output",
	Description: "输出格式与约束",
	Category:    CategoryOutput,
	Priority:    70,
	Volatility:  VolatilityStatic,
	Renderers: map[string]slot.Renderer[OutputFormat]{
		slot.FidelityFull: func(o OutputFormat, _ slot.CompileOptions) string {
			var lines []string
			if o.Format != "" {
				lines = append(lines, "格式："+o.Format)
			}
			for _, ins := range o.Instructions {
				lines = append(lines, "- "+ins)
			}
			return strings.Join(lines, "\n")
		},
	},
}

// EvidenceSlot 来自检索的事实证据（P2）
//
// 按相关性分数降序输出；设置了 MaxTokens 时自行截断到预算的 EvidenceBudgetShare。
// 证据为空时暴露 retrieve_evidence 工具。
var EvidenceSlot = &slot.Slot[[]Evidence]{
	ID:          "evidence",
	Title:       "Evidence",
	Description: "事实与引用",
	Category:    CategoryEvidence,
	Priority:    60,
	Volatility:  VolatilityTurn,
	Renderers: map[string]slot.Renderer[[]Evidence]{
		slot.FidelityFull:    renderEvidenceFull,
		slot.FidelityCompact: renderEvidenceCompact,
	},
	Tools: func(items []Evidence, _ slot.CompileOptions) []tools.ToolDefinition {
		if len(items) > 0 {
			return nil
		}
		return []tools.ToolDefinition{
			tools.NewDefinition(
				RetrieveEvidenceTool,
				"Search through the knowledge base to find relevant information. Use this tool when the context does not contain the facts needed to answer.",
				tools.SchemaFromStruct(RetrieveEvidenceParams{}),
			),
		}
	},
}

// History 对话历史（P3）
var History = &slot.Slot[[]message.Message]{
	ID:          "history",
	Title:       "Context",
	Description: "对话历史与背景",
	Category:    CategoryHistory,
	Priority:    40,
	Volatility:  VolatilitySession,
	Renderers: map[string]slot.Renderer[[]message.Message]{
		slot.FidelityFull: func(msgs []message.Message, _ slot.CompileOptions) string {
			return message.Transcript(msgs)
		},
		slot.FidelityCompact: func(msgs []message.Message, _ slot.CompileOptions) string {
			return message.Transcript(message.Last(msgs, CompactHistoryMessages))
		},
	},
}

// All 返回全部内置槽位
func All() []slot.Definition {
	return []slot.Definition{Instructions, Task, State, Output, EvidenceSlot, History}
}

func renderStateFull(s TaskState, _ slot.CompileOptions) string {
	if s.IsZero() {
		return ""
	}
	var sb strings.Builder
	if s.Goal != "" {
		sb.WriteString("目标：" + s.Goal + "\n")
	}
	if len(s.Progress) > 0 {
		sb.WriteString("关键进展：\n")
		for _, p := range s.Progress {
			sb.WriteString("- " + p + "\n")
		}
	}
	if len(s.OpenQuestions) > 0 {
		sb.WriteString("未决问题：\n")
		for _, q := range s.OpenQuestions {
			sb.WriteString("- " + q + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderStateCompact(s TaskState, _ slot.CompileOptions) string {
	if s.IsZero() {
		return ""
	}
	parts := make([]string, 0, 3)
	if s.Goal != "" {
		parts = append(parts, "目标："+s.Goal)
	}
	if n := len(s.Progress); n > 0 {
		parts = append(parts, "最新进展："+s.Progress[n-1])
	}
	if n := len(s.OpenQuestions); n > 0 {
		parts = append(parts, fmt.Sprintf("未决问题 %d 个", n))
	}
	return strings.Join(parts, "；")
}

// rankEvidence 按分数降序返回副本，分数相同保持原顺序
func rankEvidence(items []Evidence) []Evidence {
	sorted := make([]Evidence, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted
}

func evidenceSource(e Evidence) string {
	if e.Source == "" {
		return "unknown"
	}
	return e.Source
}

func renderEvidenceFull(items []Evidence, opts slot.CompileOptions) string {
	entries := make([]string, 0, len(items))
	for _, e := range rankEvidence(items) {
		if strings.TrimSpace(e.Content) == "" {
			continue
		}
		entries = append(entries, "[来源: "+evidenceSource(e)+"]\n"+strings.TrimSpace(e.Content))
	}
	return fitBudget(entries, "\n\n", opts)
}

func renderEvidenceCompact(items []Evidence, opts slot.CompileOptions) string {
	entries := make([]string, 0, CompactEvidenceItems)
	for _, e := range rankEvidence(items) {
		if len(entries) == CompactEvidenceItems {
			break
		}
		content := strings.Join(strings.Fields(e.Content), " ")
		if content == "" {
			continue
		}
		entries = append(entries, "- "+evidenceSource(e)+": "+clip(content, CompactEvidenceRunes))
	}
	return fitBudget(entries, "\n", opts)
}

// fitBudget 在设置了 MaxTokens 时按顺序保留条目，直到达到证据份额。
// 至少保留能放下的条目；一条都放不下时返回空。
func fitBudget(entries []string, sep string, opts slot.CompileOptions) string {
	budget, ok := opts.TokenBudget()
	if !ok {
		return strings.Join(entries, sep)
	}

	share := int(float64(budget) * EvidenceBudgetShare)
	counter := opts.Counter()
	kept := make([]string, 0, len(entries))
	for _, e := range entries {
		candidate := strings.Join(append(kept, e), sep)
		if counter.Count(candidate) > share {
			break
		}
		kept = append(kept, e)
	}
	if len(kept) == 0 {
		return ""
	}
	if len(kept) < len(entries) {
		withMarker := strings.Join(append(kept, truncatedMarker), sep)
		if counter.Count(withMarker) <= share {
			return withMarker
		}
	}
	return strings.Join(kept, sep)
}

func clip(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "…"
}
