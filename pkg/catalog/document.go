package catalog

import (
	"io"

	"github.com/easyops/contextslots-go/pkg/core/errors"
	"github.com/easyops/contextslots-go/pkg/recipe"
	"github.com/easyops/contextslots-go/pkg/slot"
)

// Resolve 将配方文档中的槽位 ID 解析为已注册的槽位定义。
func (c *Catalog) Resolve(spec recipe.Spec) (*recipe.Recipe, error) {
	required, err := c.lookupAll(spec.ID, spec.Required)
	if err != nil {
		return nil, err
	}
	optional, err := c.lookupAll(spec.ID, spec.Optional)
	if err != nil {
		return nil, err
	}

	r := &recipe.Recipe{
		ID:          spec.ID,
		Name:        spec.Name,
		Description: spec.Description,
		Slots: recipe.Slots{
			Required: required,
			Optional: optional,
		},
		Preset: spec.Preset.Clone(),
	}
	if spec.Layout != nil {
		layout := *spec.Layout
		r.Layout = &layout
	}
	return r, nil
}

// LoadRecipes 解析 YAML 配方文档，并对照目录解析槽位 ID。
// 返回的配方尚未注册。
func (c *Catalog) LoadRecipes(r io.Reader) ([]*recipe.Recipe, error) {
	doc, err := recipe.ParseDocument(r)
	if err != nil {
		return nil, err
	}

	recipes := make([]*recipe.Recipe, 0, len(doc.Recipes))
	for _, spec := range doc.Recipes {
		resolved, err := c.Resolve(spec)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, resolved)
	}
	return recipes, nil
}

// RegisterDocument 加载并注册文档中的全部配方。
//
// 任一配方注册失败即停止，已注册的不回滚。
func (c *Catalog) RegisterDocument(r io.Reader) ([]*recipe.Recipe, error) {
	recipes, err := c.LoadRecipes(r)
	if err != nil {
		return nil, err
	}
	for _, rec := range recipes {
		if err := c.RegisterRecipe(rec); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

func (c *Catalog) lookupAll(recipeID string, ids []string) ([]slot.Definition, error) {
	defs := make([]slot.Definition, 0, len(ids))
	for _, id := range ids {
		def, ok := c.Slot(id)
		if !ok {
			return nil, errors.WrapError(errors.WithID(errors.ErrUnknownSlot, id), "recipe "+recipeID)
		}
		defs = append(defs, def)
	}
	return defs, nil
}
