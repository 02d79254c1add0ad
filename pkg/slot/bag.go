package slot

// Bag 保存一个编译单元内已填充的槽位数据。
//
// 迭代顺序为首次填充的顺序；重复填充只替换数据，不改变位置。
// Bag 不是并发安全的。
type Bag struct {
	entries []Binding
	index   map[string]int
	known   []string
}

// BagOption 配置 Bag。
type BagOption func(*Bag)

// WithKnownSlots 设置已知槽位 ID，使 Inspect 能报告未填充的槽位。
func WithKnownSlots(ids ...string) BagOption {
	return func(b *Bag) {
		b.known = make([]string, len(ids))
		copy(b.known, ids)
	}
}

// NewBag 创建新的 Bag。
func NewBag(opts ...BagOption) *Bag {
	b := &Bag{
		index: make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Put 插入或覆盖绑定对应槽位的条目，返回 Bag 本身以便链式调用。
func (b *Bag) Put(binding Binding) *Bag {
	if binding == nil {
		return b
	}
	id := binding.Definition().SlotID()
	if i, ok := b.index[id]; ok {
		b.entries[i] = binding
		return b
	}
	b.index[id] = len(b.entries)
	b.entries = append(b.entries, binding)
	return b
}

// Fill 将 data 填入槽位 s，返回 Bag 以便链式调用。
func Fill[T any](b *Bag, s *Slot[T], data T) *Bag {
	return b.Put(s.Bind(data))
}

// Get 取回槽位 s 的数据。
//
// 槽位未填充，或同 ID 的条目来自不同数据类型的槽位时，第二个返回值为 false。
func Get[T any](b *Bag, s *Slot[T]) (T, bool) {
	var zero T
	i, ok := b.index[s.ID]
	if !ok {
		return zero, false
	}
	bound, ok := b.entries[i].(*binding[T])
	if !ok {
		return zero, false
	}
	return bound.data, true
}

// Has 报告槽位是否已填充。ref 可以是槽位或 ID。
func (b *Bag) Has(ref Ref) bool {
	if ref == nil {
		return false
	}
	_, ok := b.index[ref.SlotID()]
	return ok
}

// Len 返回已填充的槽位数量。
func (b *Bag) Len() int {
	return len(b.entries)
}

// IDs 按填充顺序返回已填充的槽位 ID。
func (b *Bag) IDs() []string {
	ids := make([]string, len(b.entries))
	for i, e := range b.entries {
		ids[i] = e.Definition().SlotID()
	}
	return ids
}

// Bindings 按填充顺序返回所有绑定的副本切片。
func (b *Bag) Bindings() []Binding {
	out := make([]Binding, len(b.entries))
	copy(out, b.entries)
	return out
}

// Inspection 是 Bag 的快照。
type Inspection struct {
	// FilledSlots 按填充顺序排列的已填充 ID
	FilledSlots []string
	// Categories 类别 → 已填充数量
	Categories map[string]int
	// UnfilledSlots 已知但未填充的 ID；仅当 Bag 带有已知 ID 时非 nil
	UnfilledSlots []string
}

// Inspect 返回已填充 ID、类别计数以及（若可用）未填充 ID。
func (b *Bag) Inspect() Inspection {
	in := Inspection{
		FilledSlots: b.IDs(),
		Categories:  make(map[string]int),
	}
	for _, e := range b.entries {
		in.Categories[e.Definition().Meta().Category]++
	}
	if b.known != nil {
		in.UnfilledSlots = make([]string, 0, len(b.known))
		for _, id := range b.known {
			if _, ok := b.index[id]; !ok {
				in.UnfilledSlots = append(in.UnfilledSlots, id)
			}
		}
	}
	return in
}
