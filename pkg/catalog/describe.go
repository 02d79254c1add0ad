package catalog

import (
	"github.com/easyops/contextslots-go/pkg/recipe"
)

// SlotInfo 是槽位的只读描述，用于展示与调试，编译从不读取。
type SlotInfo struct {
	ID                 string   `json:"id" yaml:"id"`
	Title              string   `json:"title" yaml:"title"`
	Description        string   `json:"description,omitempty" yaml:"description,omitempty"`
	Category           string   `json:"category" yaml:"category"`
	Priority           int      `json:"priority" yaml:"priority"`
	Volatility         string   `json:"volatility,omitempty" yaml:"volatility,omitempty"`
	Fidelities         []string `json:"fidelities" yaml:"fidelities"`
	StrategyFidelities []string `json:"strategy_fidelities,omitempty" yaml:"strategy_fidelities,omitempty"`
	HasTools           bool     `json:"has_tools" yaml:"has_tools"`
}

// RecipeInfo 是配方的只读描述。
type RecipeInfo struct {
	ID          string         `json:"id" yaml:"id"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Required    []string       `json:"required" yaml:"required"`
	Optional    []string       `json:"optional" yaml:"optional"`
	Layout      *recipe.Layout `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// Describe 按注册顺序描述全部槽位
func (c *Catalog) Describe() []SlotInfo {
	defs := c.Slots()
	infos := make([]SlotInfo, 0, len(defs))
	for _, def := range defs {
		meta := def.Meta()
		infos = append(infos, SlotInfo{
			ID:                 meta.ID,
			Title:              meta.Title,
			Description:        meta.Description,
			Category:           meta.Category,
			Priority:           meta.Priority,
			Volatility:         meta.Volatility,
			Fidelities:         def.Fidelities(),
			StrategyFidelities: def.StrategyFidelities(),
			HasTools:           def.HasTools(),
		})
	}
	return infos
}

// DescribeRecipes 按注册顺序描述全部配方
func (c *Catalog) DescribeRecipes() []RecipeInfo {
	recipes := c.Recipes()
	infos := make([]RecipeInfo, 0, len(recipes))
	for _, r := range recipes {
		spec := recipe.ToSpec(r)
		info := RecipeInfo{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Required:    spec.Required,
			Optional:    spec.Optional,
			Layout:      spec.Layout,
		}
		if info.Required == nil {
			info.Required = []string{}
		}
		if info.Optional == nil {
			info.Optional = []string{}
		}
		infos = append(infos, info)
	}
	return infos
}
