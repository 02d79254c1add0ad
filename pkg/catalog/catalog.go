// Package catalog 管理槽位与配方的注册表。
//
// 目录在启动时组装一次，随后只读，作为普通值传递给需要它的入口。
// 注册错误属于编程错误：Register 返回带出错 ID 的哨兵错误，Must* 变体直接 panic。
package catalog

import (
	"sync"

	"github.com/easyops/contextslots-go/pkg/core/errors"
	"github.com/easyops/contextslots-go/pkg/recipe"
	"github.com/easyops/contextslots-go/pkg/slot"
)

// Catalog 槽位与配方注册表
//
// 注册与查询均为并发安全；列表方法按注册顺序返回。
type Catalog struct {
	slots       map[string]slot.Definition
	slotOrder   []string
	recipes     map[string]*recipe.Recipe
	recipeOrder []string
	mu          sync.RWMutex
}

// New 创建空目录
func New() *Catalog {
	return &Catalog{
		slots:   make(map[string]slot.Definition),
		recipes: make(map[string]*recipe.Recipe),
	}
}

// Register 注册槽位
//
// ID 为空返回 ErrInvalidSlot；ID 已存在返回 ErrDuplicateSlot。
func (c *Catalog) Register(def slot.Definition) error {
	if def == nil || def.SlotID() == "" {
		return errors.ErrInvalidSlot
	}
	id := def.SlotID()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.slots[id]; exists {
		return errors.WithID(errors.ErrDuplicateSlot, id)
	}
	c.slots[id] = def
	c.slotOrder = append(c.slotOrder, id)
	return nil
}

// MustRegister 注册槽位，失败则 panic
func (c *Catalog) MustRegister(def slot.Definition) {
	if err := c.Register(def); err != nil {
		panic(err)
	}
}

// RegisterAll 批量注册槽位
//
// 任一槽位注册失败即停止并返回错误，已注册的不回滚。
func (c *Catalog) RegisterAll(defs ...slot.Definition) error {
	for _, def := range defs {
		if err := c.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// RegisterRecipe 注册配方
//
// 配方引用的每个槽位必须已注册（ErrUnknownSlot）；ID 不可重复（ErrDuplicateRecipe）。
func (c *Catalog) RegisterRecipe(r *recipe.Recipe) error {
	if r == nil || r.ID == "" {
		return errors.ErrInvalidRecipe
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.recipes[r.ID]; exists {
		return errors.WithID(errors.ErrDuplicateRecipe, r.ID)
	}
	for _, def := range r.Definitions() {
		if _, ok := c.slots[def.SlotID()]; !ok {
			return errors.WrapError(errors.WithID(errors.ErrUnknownSlot, def.SlotID()), "recipe "+r.ID)
		}
	}

	c.recipes[r.ID] = r
	c.recipeOrder = append(c.recipeOrder, r.ID)
	return nil
}

// MustRegisterRecipe 注册配方，失败则 panic
func (c *Catalog) MustRegisterRecipe(r *recipe.Recipe) {
	if err := c.RegisterRecipe(r); err != nil {
		panic(err)
	}
}

// FromRecipes 由配方构建目录
//
// 先注册配方引用的槽位与 extras 的并集（按 ID 去重，首次出现者生效），
// 再注册全部配方。
func FromRecipes(recipes []*recipe.Recipe, extras ...slot.Definition) (*Catalog, error) {
	c := New()
	seen := make(map[string]struct{})
	add := func(def slot.Definition) error {
		if def == nil {
			return errors.ErrInvalidSlot
		}
		if _, ok := seen[def.SlotID()]; ok {
			return nil
		}
		seen[def.SlotID()] = struct{}{}
		return c.Register(def)
	}

	for _, r := range recipes {
		if r == nil {
			return nil, errors.ErrInvalidRecipe
		}
		for _, def := range r.Definitions() {
			if err := add(def); err != nil {
				return nil, err
			}
		}
	}
	for _, def := range extras {
		if err := add(def); err != nil {
			return nil, err
		}
	}
	for _, r := range recipes {
		if err := c.RegisterRecipe(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustFromRecipes 由配方构建目录，失败则 panic
func MustFromRecipes(recipes []*recipe.Recipe, extras ...slot.Definition) *Catalog {
	c, err := FromRecipes(recipes, extras...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewBag 创建携带全部已注册 ID 的 Bag，使 Inspect 能报告未填充槽位。
func (c *Catalog) NewBag() *slot.Bag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slot.NewBag(slot.WithKnownSlots(c.slotOrder...))
}

// Slot 按 ID 查找槽位
func (c *Catalog) Slot(id string) (slot.Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.slots[id]
	return def, ok
}

// Recipe 按 ID 查找配方
func (c *Catalog) Recipe(id string) (*recipe.Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.recipes[id]
	return r, ok
}

// Slots 按注册顺序返回全部槽位
func (c *Catalog) Slots() []slot.Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	defs := make([]slot.Definition, 0, len(c.slotOrder))
	for _, id := range c.slotOrder {
		defs = append(defs, c.slots[id])
	}
	return defs
}

// Recipes 按注册顺序返回全部配方
func (c *Catalog) Recipes() []*recipe.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()

	recipes := make([]*recipe.Recipe, 0, len(c.recipeOrder))
	for _, id := range c.recipeOrder {
		recipes = append(recipes, c.recipes[id])
	}
	return recipes
}

// Count 返回已注册的槽位数量
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.slotOrder)
}
