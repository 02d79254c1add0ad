package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easyops/contextslots-go/pkg/core/errors"
	"github.com/easyops/contextslots-go/pkg/recipe"
	"github.com/easyops/contextslots-go/pkg/slot"
)

const ragDocument = `
version: "1"
recipes:
  - id: rag
    name: Retrieval
    required: [rules, query]
    optional: [facts]
    preset:
      max_tokens: 6
    layout:
      head: [rules]
      tail: [query]
`

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := New()
	require.NoError(t, c.RegisterAll(rulesSlot, querySlot, factsSlot))
	return c
}

func TestLoadRecipes(t *testing.T) {
	c := testCatalog(t)

	recipes, err := c.LoadRecipes(strings.NewReader(ragDocument))
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	r := recipes[0]
	assert.Equal(t, "rag", r.ID)
	assert.Equal(t, []string{"rules", "query", "facts"}, r.Expected())
	assert.Same(t, rulesSlot, r.Slots.Required[0].(*slot.Slot[string]))

	// 加载不等于注册
	_, ok := c.Recipe("rag")
	assert.False(t, ok)
}

func TestLoadRecipes_UnknownSlot(t *testing.T) {
	c := New()
	c.MustRegister(rulesSlot)

	_, err := c.LoadRecipes(strings.NewReader(ragDocument))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownSlot)
	assert.Contains(t, err.Error(), "query")
}

func TestRegisterDocument_Compiles(t *testing.T) {
	c := testCatalog(t)

	recipes, err := c.RegisterDocument(strings.NewReader(ragDocument))
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	r, ok := c.Recipe("rag")
	require.True(t, ok)

	bag := c.NewBag()
	slot.Fill(bag, querySlot, "qq")
	slot.Fill(bag, factsSlot, "ffffffffff")
	slot.Fill(bag, rulesSlot, "rrrr")

	// 预算 6：rules(2) + query(1) 入选，facts(5) 超出
	blocks := recipe.Compile(bag, r, nil)
	var ids []string
	for _, b := range blocks {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"rules", "query"}, ids)

	_, err = c.RegisterDocument(strings.NewReader(ragDocument))
	assert.ErrorIs(t, err, errors.ErrDuplicateRecipe)
}
