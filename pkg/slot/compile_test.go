package slot_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyops/contextslots-go/pkg/slot"
	"github.com/easyops/contextslots-go/pkg/tokens"
)

// textBlock 返回按原样渲染字符串的槽位。
func textBlock(id string, priority int, category string) *slot.Slot[string] {
	return &slot.Slot[string]{
		ID:       id,
		Title:    strings.ToUpper(id),
		Category: category,
		Priority: priority,
		Renderers: map[string]slot.Renderer[string]{
			"full": func(s string, _ slot.CompileOptions) string { return s },
		},
	}
}

func ids(blocks []slot.CompiledBlock) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}

// abcBag: A(95, 4 tokens) B(80, 3 tokens) C(70, 2 tokens)，默认估算器为 ceil(字符数/2)。
func abcBag() *slot.Bag {
	bag := slot.NewBag()
	slot.Fill(bag, textBlock("a", 95, "core"), "aaaaaaaa")
	slot.Fill(bag, textBlock("b", 80, "core"), "bbbbbb")
	slot.Fill(bag, textBlock("c", 70, "core"), "cccc")
	return bag
}

func TestCompile_TokenBudget(t *testing.T) {
	blocks := abcBag().Compile(slot.CompileOptions{Fidelity: "full", MaxTokens: slot.Limit(7)})
	assert.Equal(t, []string{"a", "b"}, ids(blocks))
}

func TestCompile_SlotLimit(t *testing.T) {
	blocks := abcBag().Compile(slot.CompileOptions{MaxSlots: slot.Limit(1)})
	assert.Equal(t, []string{"a"}, ids(blocks))
}

func TestCompile_EmptyRenderIsDropped(t *testing.T) {
	empty := &slot.Slot[string]{
		ID: "empty", Priority: 100,
		Renderers: map[string]slot.Renderer[string]{
			"full": func(string, slot.CompileOptions) string { return "" },
		},
	}
	blank := textBlock("blank", 90, "core")

	bag := abcBag()
	slot.Fill(bag, empty, "ignored")
	slot.Fill(bag, blank, "  \n\t ")

	blocks, report := bag.CompileReport(slot.CompileOptions{})
	assert.Equal(t, []string{"a", "b", "c"}, ids(blocks))
	assert.Len(t, blocks, 3)
	assert.Equal(t, slot.DropEmpty, report.Dropped["empty"])
	assert.Equal(t, slot.DropEmpty, report.Dropped["blank"])
}

func TestCompile_Golden(t *testing.T) {
	s := &slot.Slot[profile]{
		ID: "profile", Title: "Profile", Category: "user", Priority: 60,
		Renderers: map[string]slot.Renderer[profile]{
			"full":    func(p profile, _ slot.CompileOptions) string { return p.Name + " is 36" },
			"compact": func(p profile, _ slot.CompileOptions) string { return p.Name },
		},
		Strategies: map[string]slot.Renderer[profile]{
			"full": func(p profile, _ slot.CompileOptions) string { return "greet " + p.Name },
		},
	}
	bag := slot.NewBag()
	slot.Fill(bag, s, profile{Name: "ada"})

	tests := []struct {
		name string
		opts slot.CompileOptions
		want []slot.CompiledBlock
	}{
		{
			name: "default fidelity",
			opts: slot.CompileOptions{},
			want: []slot.CompiledBlock{{ID: "profile", Title: "Profile", Content: "ada is 36", Priority: 60, Category: "user"}},
		},
		{
			name: "compact",
			opts: slot.CompileOptions{Fidelity: "compact"},
			want: []slot.CompiledBlock{{ID: "profile", Title: "Profile", Content: "ada", Priority: 60, Category: "user"}},
		},
		{
			name: "unknown fidelity falls back to full",
			opts: slot.CompileOptions{Fidelity: "verbose"},
			want: []slot.CompiledBlock{{ID: "profile", Title: "Profile", Content: "ada is 36", Priority: 60, Category: "user"}},
		},
		{
			name: "strategy layer, compact falls back to full strategy",
			opts: slot.CompileOptions{Fidelity: "compact", Layers: []string{slot.LayerStrategy}},
			want: []slot.CompiledBlock{{ID: "profile", Title: "Profile", Content: "ada", Priority: 60, Category: "user", Strategy: "greet ada"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bag.Compile(tt.opts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompile_NoRenderer(t *testing.T) {
	compactOnly := &slot.Slot[string]{
		ID: "compact_only", Priority: 10,
		Renderers: map[string]slot.Renderer[string]{
			"compact": func(s string, _ slot.CompileOptions) string { return s },
		},
	}
	bag := slot.NewBag()
	slot.Fill(bag, compactOnly, "x")

	blocks, report := bag.CompileReport(slot.CompileOptions{})
	assert.Empty(t, blocks)
	assert.Equal(t, slot.DropNoRenderer, report.Dropped["compact_only"])

	blocks = bag.Compile(slot.CompileOptions{Fidelity: "compact"})
	assert.Equal(t, []string{"compact_only"}, ids(blocks))
}

func TestCompile_Filters(t *testing.T) {
	bag := slot.NewBag()
	slot.Fill(bag, textBlock("a", 90, "core"), "a")
	slot.Fill(bag, textBlock("b", 50, "extra"), "b")
	slot.Fill(bag, textBlock("c", 10, "core"), "c")

	tests := []struct {
		name    string
		opts    slot.CompileOptions
		want    []string
		dropped map[string]slot.DropReason
	}{
		{
			name:    "min priority",
			opts:    slot.CompileOptions{MinPriority: slot.Limit(50)},
			want:    []string{"a", "b"},
			dropped: map[string]slot.DropReason{"c": slot.DropPriority},
		},
		{
			name:    "categories",
			opts:    slot.CompileOptions{Categories: []string{"core"}},
			want:    []string{"a", "c"},
			dropped: map[string]slot.DropReason{"b": slot.DropCategory},
		},
		{
			name:    "empty categories means no filter",
			opts:    slot.CompileOptions{Categories: []string{}},
			want:    []string{"a", "b", "c"},
			dropped: map[string]slot.DropReason{},
		},
		{
			name:    "exclude",
			opts:    slot.CompileOptions{Exclude: []string{"a"}},
			want:    []string{"b", "c"},
			dropped: map[string]slot.DropReason{"a": slot.DropExcluded},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, report := bag.CompileReport(tt.opts)
			assert.Equal(t, tt.want, ids(blocks))
			assert.Equal(t, tt.dropped, report.Dropped)
		})
	}
}

func TestCompile_TruncationPreservesFillOrder(t *testing.T) {
	bag := slot.NewBag()
	slot.Fill(bag, textBlock("low", 10, "core"), "l")
	slot.Fill(bag, textBlock("high", 90, "core"), "h")
	slot.Fill(bag, textBlock("mid", 50, "core"), "m")

	blocks := bag.Compile(slot.CompileOptions{MaxSlots: slot.Limit(2)})
	assert.Equal(t, []string{"high", "mid"}, ids(blocks))

	bag = slot.NewBag()
	slot.Fill(bag, textBlock("mid", 50, "core"), "m")
	slot.Fill(bag, textBlock("high", 90, "core"), "h")
	slot.Fill(bag, textBlock("low", 10, "core"), "l")

	blocks = bag.Compile(slot.CompileOptions{MaxSlots: slot.Limit(2)})
	assert.Equal(t, []string{"mid", "high"}, ids(blocks))
}

func TestCompile_EqualPriorityTieBreak(t *testing.T) {
	bag := slot.NewBag()
	slot.Fill(bag, textBlock("first", 50, "core"), "1")
	slot.Fill(bag, textBlock("second", 50, "core"), "2")
	slot.Fill(bag, textBlock("third", 50, "core"), "3")

	blocks := bag.Compile(slot.CompileOptions{MaxSlots: slot.Limit(2)})
	assert.Equal(t, []string{"first", "second"}, ids(blocks))
}

func TestCompile_GreedySkipDoesNotConsumeBudget(t *testing.T) {
	bag := slot.NewBag()
	slot.Fill(bag, textBlock("big", 90, "core"), strings.Repeat("x", 20))
	slot.Fill(bag, textBlock("small", 10, "core"), "xx")

	blocks, report := bag.CompileReport(slot.CompileOptions{MaxTokens: slot.Limit(5)})
	assert.Equal(t, []string{"small"}, ids(blocks))
	assert.Equal(t, slot.DropTruncated, report.Dropped["big"])
	assert.Equal(t, 1, report.TokensUsed)
	assert.Equal(t, slot.LimitMaxTokens, report.Limit)
}

func TestCompile_NonPositiveLimits(t *testing.T) {
	for _, n := range []int{0, -1} {
		assert.Empty(t, abcBag().Compile(slot.CompileOptions{MaxSlots: slot.Limit(n)}))
		assert.Empty(t, abcBag().Compile(slot.CompileOptions{MaxTokens: slot.Limit(n)}))
	}
}

func TestCompile_TokensTakePrecedence(t *testing.T) {
	blocks, report := abcBag().CompileReport(slot.CompileOptions{
		MaxSlots:  slot.Limit(1),
		MaxTokens: slot.Limit(7),
	})
	assert.Equal(t, []string{"a", "b"}, ids(blocks))
	assert.Equal(t, slot.LimitMaxTokens, report.Limit)
}

func TestCompile_StrategyCountsTowardBudget(t *testing.T) {
	s := &slot.Slot[string]{
		ID: "s", Priority: 90,
		Renderers: map[string]slot.Renderer[string]{
			"full": func(v string, _ slot.CompileOptions) string { return v },
		},
		Strategies: map[string]slot.Renderer[string]{
			"full": func(string, slot.CompileOptions) string { return "ssss" },
		},
	}
	bag := slot.NewBag()
	slot.Fill(bag, s, "cccc")

	// 内容 2 + 策略 2
	assert.Len(t, bag.Compile(slot.CompileOptions{MaxTokens: slot.Limit(3), Layers: []string{"strategy"}}), 0)
	assert.Len(t, bag.Compile(slot.CompileOptions{MaxTokens: slot.Limit(4), Layers: []string{"strategy"}}), 1)
	// 未请求策略层时策略不计入
	assert.Len(t, bag.Compile(slot.CompileOptions{MaxTokens: slot.Limit(3)}), 1)
}

func TestCompile_CustomCounter(t *testing.T) {
	words := tokens.CounterFunc(func(text string) int {
		return len(strings.Fields(text))
	})
	bag := slot.NewBag()
	slot.Fill(bag, textBlock("a", 90, "core"), "one two three")
	slot.Fill(bag, textBlock("b", 80, "core"), "four")

	blocks, report := bag.CompileReport(slot.CompileOptions{MaxTokens: slot.Limit(3), TokenCounter: words})
	assert.Equal(t, []string{"a"}, ids(blocks))
	assert.Equal(t, 3, report.TokensUsed)
}

func TestCompile_RendererSeesOptions(t *testing.T) {
	var seen slot.CompileOptions
	s := &slot.Slot[string]{
		ID: "spy", Priority: 1,
		Renderers: map[string]slot.Renderer[string]{
			"full": func(v string, opts slot.CompileOptions) string {
				seen = opts
				return v
			},
		},
	}
	bag := slot.NewBag()
	slot.Fill(bag, s, "x")
	bag.Compile(slot.CompileOptions{MaxTokens: slot.Limit(42)})

	budget, ok := seen.TokenBudget()
	require.True(t, ok)
	assert.Equal(t, 42, budget)
}

func TestCompileReport_Counts(t *testing.T) {
	bag := abcBag()
	slot.Fill(bag, textBlock("excluded", 99, "core"), "zz")

	blocks, report := bag.CompileReport(slot.CompileOptions{MaxSlots: slot.Limit(2), Exclude: []string{"excluded"}})
	assert.Len(t, blocks, 2)
	assert.Equal(t, 4, report.Considered)
	assert.Equal(t, 3, report.Rendered)
	assert.Equal(t, 2, report.Emitted)
	assert.Equal(t, slot.LimitMaxSlots, report.Limit)
	assert.Equal(t, map[string]slot.DropReason{
		"excluded": slot.DropExcluded,
		"c":        slot.DropTruncated,
	}, report.Dropped)
	assert.Equal(t, 7, report.TokensUsed)
}
