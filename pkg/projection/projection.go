// Package projection 将宿主应用的源对象投影到槽位数据。
//
// 每个 Projection 绑定一个槽位和一个提取函数 S → (D, bool)，
// 编译器保证提取结果的类型与槽位数据类型一致；返回 false 表示跳过。
package projection

import (
	"github.com/easyops/contextslots-go/pkg/slot"
)

// Projection 是从源类型 S 到某个槽位的投影，槽位数据类型已被擦除。
type Projection[S any] interface {
	// Slot 返回目标槽位
	Slot() slot.Definition
	// Project 从源对象提取数据；不适用时第二个返回值为 false
	Project(source S) (slot.Binding, bool)
}

type projection[S, D any] struct {
	slot    *slot.Slot[D]
	extract func(S) (D, bool)
}

func (p *projection[S, D]) Slot() slot.Definition {
	return p.slot
}

func (p *projection[S, D]) Project(source S) (slot.Binding, bool) {
	data, ok := p.extract(source)
	if !ok {
		return nil, false
	}
	return p.slot.Bind(data), true
}

// Of 创建投影。extract 返回 false 时跳过该槽位。
func Of[S, D any](s *slot.Slot[D], extract func(S) (D, bool)) Projection[S] {
	return &projection[S, D]{slot: s, extract: extract}
}

// Field 创建总是填充的投影。
func Field[S, D any](s *slot.Slot[D], get func(S) D) Projection[S] {
	return Of(s, func(source S) (D, bool) {
		return get(source), true
	})
}

// Pointer 创建投影，get 返回 nil 时跳过。
func Pointer[S, D any](s *slot.Slot[D], get func(S) *D) Projection[S] {
	return Of(s, func(source S) (D, bool) {
		p := get(source)
		if p == nil {
			var zero D
			return zero, false
		}
		return *p, true
	})
}

// NonEmpty 创建切片投影，切片为空时跳过。
func NonEmpty[S, E any](s *slot.Slot[[]E], get func(S) []E) Projection[S] {
	return Of(s, func(source S) ([]E, bool) {
		items := get(source)
		return items, len(items) > 0
	})
}

// NonZero 创建投影，值为零值时跳过。
func NonZero[S any, D comparable](s *slot.Slot[D], get func(S) D) Projection[S] {
	return Of(s, func(source S) (D, bool) {
		v := get(source)
		var zero D
		return v, v != zero
	})
}

// Apply 依次应用投影，返回实际填充的槽位数。可与手动填充混用。
func Apply[S any](bag *slot.Bag, source S, projections ...Projection[S]) int {
	filled := 0
	for _, p := range projections {
		binding, ok := p.Project(source)
		if !ok {
			continue
		}
		bag.Put(binding)
		filled++
	}
	return filled
}

// Set 是一组针对同一源类型的投影。
type Set[S any] []Projection[S]

// Apply 将集合中的投影应用到 bag。
func (s Set[S]) Apply(bag *slot.Bag, source S) int {
	return Apply(bag, source, s...)
}

// Slots 返回集合覆盖的槽位定义（按声明顺序）。
func (s Set[S]) Slots() []slot.Definition {
	defs := make([]slot.Definition, len(s))
	for i, p := range s {
		defs[i] = p.Slot()
	}
	return defs
}
