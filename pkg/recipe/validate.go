package recipe

import (
	"github.com/easyops/contextslots-go/pkg/slot"
)

// Validation 是 Bag 对照配方的检查结果。
type Validation struct {
	// Valid 所有必需槽位已填充，且没有配方之外的槽位
	Valid bool
	// Missing 未填充的必需槽位 ID（按配方声明顺序）
	Missing []string
	// Unexpected 已填充但不属于配方的槽位 ID（按填充顺序）
	Unexpected []string
	// Coverage 已填充的期望槽位占比，[0, 1]；没有期望槽位时为 1
	Coverage float64
}

// Validate 检查 bag 是否满足配方 r。不匹配是数据而非错误。
func Validate(bag *slot.Bag, r *Recipe) Validation {
	v := Validation{
		Missing:    []string{},
		Unexpected: []string{},
	}

	for _, def := range r.Slots.Required {
		if !bag.Has(def) {
			v.Missing = append(v.Missing, def.SlotID())
		}
	}

	expected := r.Expected()
	expectedSet := make(map[string]struct{}, len(expected))
	for _, id := range expected {
		expectedSet[id] = struct{}{}
	}
	for _, id := range bag.IDs() {
		if _, ok := expectedSet[id]; !ok {
			v.Unexpected = append(v.Unexpected, id)
		}
	}

	if len(expected) == 0 {
		v.Coverage = 1
	} else {
		filled := 0
		for _, id := range expected {
			if bag.Has(slot.ID(id)) {
				filled++
			}
		}
		v.Coverage = float64(filled) / float64(len(expected))
	}

	v.Valid = len(v.Missing) == 0 && len(v.Unexpected) == 0
	return v
}
