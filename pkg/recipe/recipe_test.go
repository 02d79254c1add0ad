package recipe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyops/contextslots-go/pkg/core/errors"
	"github.com/easyops/contextslots-go/pkg/slot"
	"github.com/easyops/contextslots-go/pkg/tokens"
	"github.com/easyops/contextslots-go/pkg/tools"
)

func textSlot(id string, priority int) *slot.Slot[string] {
	return &slot.Slot[string]{
		ID:       id,
		Title:    id,
		Priority: priority,
		Renderers: map[string]slot.Renderer[string]{
			"full": func(s string, _ slot.CompileOptions) string { return s },
		},
		Strategies: map[string]slot.Renderer[string]{
			"full": func(s string, _ slot.CompileOptions) string { return "use " + s },
		},
	}
}

var (
	sysSlot   = textSlot("system", 100)
	taskSlot  = textSlot("task", 90)
	notesSlot = textSlot("notes", 40)
	extraSlot = textSlot("extra", 10)
)

func testRecipe() *Recipe {
	return &Recipe{
		ID:   "chat",
		Name: "Chat",
		Slots: Slots{
			Required: []slot.Definition{sysSlot, taskSlot},
			Optional: []slot.Definition{notesSlot},
		},
		Preset: slot.CompileOptions{Fidelity: "full", Layers: []string{slot.LayerStrategy}},
		Layout: &Layout{Head: []string{"system"}, Tail: []string{"task"}},
	}
}

func blockIDs(blocks []slot.CompiledBlock) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}

func TestValidate(t *testing.T) {
	r := testRecipe()

	t.Run("complete", func(t *testing.T) {
		bag := slot.NewBag()
		slot.Fill(bag, sysSlot, "s")
		slot.Fill(bag, taskSlot, "t")
		slot.Fill(bag, notesSlot, "n")

		v := Validate(bag, r)
		assert.True(t, v.Valid)
		assert.Empty(t, v.Missing)
		assert.Empty(t, v.Unexpected)
		assert.Equal(t, 1.0, v.Coverage)
	})

	t.Run("missing required", func(t *testing.T) {
		bag := slot.NewBag()
		slot.Fill(bag, sysSlot, "s")

		v := Validate(bag, r)
		assert.False(t, v.Valid)
		assert.Equal(t, []string{"task"}, v.Missing)
		assert.InDelta(t, 1.0/3.0, v.Coverage, 1e-9)
	})

	t.Run("unexpected", func(t *testing.T) {
		bag := slot.NewBag()
		slot.Fill(bag, sysSlot, "s")
		slot.Fill(bag, taskSlot, "t")
		slot.Fill(bag, extraSlot, "x")

		v := Validate(bag, r)
		assert.False(t, v.Valid)
		assert.Equal(t, []string{"extra"}, v.Unexpected)
		assert.InDelta(t, 2.0/3.0, v.Coverage, 1e-9)
	})

	t.Run("nothing expected", func(t *testing.T) {
		v := Validate(slot.NewBag(), &Recipe{ID: "empty"})
		assert.True(t, v.Valid)
		assert.Equal(t, 1.0, v.Coverage)
	})
}

func TestUShapedLayout(t *testing.T) {
	blocks := []slot.CompiledBlock{
		{ID: "a", Priority: 50},
		{ID: "b", Priority: 60},
		{ID: "c", Priority: 40},
	}

	got := UShapedLayout(blocks, Layout{Head: []string{"c"}, Tail: []string{"a"}})
	assert.Equal(t, []string{"c", "b", "a"}, blockIDs(got))
}

func TestUShapedLayout_Cases(t *testing.T) {
	blocks := []slot.CompiledBlock{
		{ID: "a", Priority: 10},
		{ID: "b", Priority: 30},
		{ID: "c", Priority: 30},
		{ID: "d", Priority: 20},
	}

	tests := []struct {
		name   string
		layout Layout
		want   []string
	}{
		{"empty layout sorts by priority", Layout{}, []string{"b", "c", "d", "a"}},
		{"absent ids are skipped", Layout{Head: []string{"zz", "d"}, Tail: []string{"yy"}}, []string{"d", "b", "c", "a"}},
		{"head wins over tail", Layout{Head: []string{"a"}, Tail: []string{"a", "b"}}, []string{"a", "c", "d", "b"}},
		{"tail keeps declared order", Layout{Tail: []string{"c", "a"}}, []string{"b", "d", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UShapedLayout(blocks, tt.layout)
			assert.Equal(t, tt.want, blockIDs(got))
		})
	}
}

func TestCompile(t *testing.T) {
	r := testRecipe()
	bag := slot.NewBag()
	slot.Fill(bag, taskSlot, "question")
	slot.Fill(bag, notesSlot, "notes")
	slot.Fill(bag, sysSlot, "rules")

	got := Compile(bag, r, nil)
	want := []slot.CompiledBlock{
		{ID: "system", Title: "system", Content: "rules", Priority: 100, Strategy: "use rules"},
		{ID: "notes", Title: "notes", Content: "notes", Priority: 40, Strategy: "use notes"},
		{ID: "task", Title: "task", Content: "question", Priority: 90, Strategy: "use question"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_Overrides(t *testing.T) {
	r := testRecipe()
	r.Preset.MaxTokens = slot.Limit(3)
	bag := slot.NewBag()
	slot.Fill(bag, sysSlot, "rules")

	// Layers 覆盖为空：不渲染策略
	got := Compile(bag, r, &Overrides{Layers: []string{}})
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Strategy)

	// 计数器覆盖：每块计 100，超出预算
	huge := tokens.CounterFunc(func(string) int { return 100 })
	assert.Empty(t, Compile(bag, r, &Overrides{TokenCounter: huge}))

	// 预设本身未被修改
	assert.Equal(t, []string{slot.LayerStrategy}, r.Preset.Layers)
	assert.Nil(t, r.Preset.TokenCounter)
}

func TestCollectTools_UsesPresetFilters(t *testing.T) {
	lookup := func(id, category string) *slot.Slot[string] {
		return &slot.Slot[string]{
			ID: id, Category: category,
			Tools: func(string, slot.CompileOptions) []tools.ToolDefinition {
				return []tools.ToolDefinition{tools.NewDefinition(id, "", tools.ParameterSchema{})}
			},
		}
	}
	r := &Recipe{ID: "r", Preset: slot.CompileOptions{Categories: []string{"evidence"}, MaxSlots: slot.Limit(0)}}
	bag := slot.NewBag()
	slot.Fill(bag, lookup("docs", "evidence"), "")
	slot.Fill(bag, lookup("clock", "meta"), "")

	collected := CollectTools(bag, r, nil)
	require.Len(t, collected, 1)
	assert.Equal(t, "docs", collected[0].SlotID)
}

func TestExpected(t *testing.T) {
	r := &Recipe{Slots: Slots{
		Required: []slot.Definition{sysSlot, taskSlot},
		Optional: []slot.Definition{taskSlot, notesSlot},
	}}
	assert.Equal(t, []string{"system", "task", "notes"}, r.Expected())
	assert.Len(t, r.Definitions(), 4)
}

const chatDocument = `
version: "1"
recipes:
  - id: chat
    name: Chat
    required: [system, task]
    optional: [notes]
    preset:
      fidelity: compact
      max_tokens: 512
      layers: [strategy]
    layout:
      head: [system]
      tail: [task]
`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader(chatDocument))
	require.NoError(t, err)
	require.Len(t, doc.Recipes, 1)

	spec := doc.Recipes[0]
	assert.Equal(t, "chat", spec.ID)
	assert.Equal(t, []string{"system", "task"}, spec.Required)
	assert.Equal(t, []string{"notes"}, spec.Optional)
	assert.Equal(t, "compact", spec.Preset.Fidelity)
	require.NotNil(t, spec.Preset.MaxTokens)
	assert.Equal(t, 512, *spec.Preset.MaxTokens)
	assert.Nil(t, spec.Preset.MaxSlots)
	assert.Equal(t, &Layout{Head: []string{"system"}, Tail: []string{"task"}}, spec.Layout)
}

func TestParseDocument_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{"empty", "", errors.ErrInvalidDocument},
		{"bad version", "version: \"9\"\nrecipes: []\n", errors.ErrInvalidDocument},
		{"unknown field", "version: \"1\"\nrecipes:\n  - id: a\n    colour: red\n", errors.ErrInvalidDocument},
		{"missing id", "version: \"1\"\nrecipes:\n  - name: a\n", errors.ErrInvalidDocument},
		{"duplicate id", "version: \"1\"\nrecipes:\n  - id: a\n  - id: a\n", errors.ErrDuplicateRecipe},
		{"conflicting limits", "version: \"1\"\nrecipes:\n  - id: a\n    preset: {max_slots: 1, max_tokens: 2}\n", errors.ErrConflictingLimits},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestDocument_EncodeRoundTrip(t *testing.T) {
	r := testRecipe()
	r.Preset.TokenCounter = tokens.Default()

	doc := &Document{Version: DocumentVersion, Recipes: []Spec{ToSpec(r)}}
	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))

	parsed, err := ParseDocument(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(doc, parsed); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocument_EmptyCategoriesDoNotFilter(t *testing.T) {
	doc, err := ParseDocument(strings.NewReader("version: \"1\"\nrecipes:\n  - id: open\n    preset: {categories: []}\n"))
	require.NoError(t, err)
	preset := doc.Recipes[0].Preset

	bag := slot.NewBag()
	slot.Fill(bag, sysSlot, "s")
	slot.Fill(bag, notesSlot, "n")
	assert.Equal(t, []string{"system", "notes"}, blockIDs(bag.Compile(preset)))

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(&buf))
	assert.NotContains(t, buf.String(), "categories")
}
