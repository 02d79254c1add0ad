// Package slot 实现上下文槽位编译器。
//
// 一次 LLM 调用的上下文由许多互相独立的数据源拼装而成。本包把每个数据源
// 建模为一个带类型的槽位（Slot[T]），槽位持有按保真度（fidelity）索引的渲染函数；
// 每个编译单元（例如一轮对话）创建一个 Bag，向其中填充数据，再编译为有序的文本块。
//
// 编译分两个阶段：
//
//   - 过滤 + 渲染：按填充顺序遍历，按优先级、类别、排除列表过滤，
//     选择 renderers[fidelity]，缺失时回退到 renderers["full"]，空白输出视为无内容
//   - 截断：按 (优先级降序, 填充序号升序) 排名，按 MaxTokens 贪心预算或 MaxSlots
//     取前 N 个；截断只决定成员，输出始终保持填充顺序
//
// # 基本用法
//
//	var Persona = &slot.Slot[string]{
//	    ID:       "persona",
//	    Title:    "Persona",
//	    Category: "role",
//	    Priority: 100,
//	    Renderers: map[string]slot.Renderer[string]{
//	        slot.FidelityFull: func(s string, _ slot.CompileOptions) string { return s },
//	    },
//	}
//
//	bag := slot.NewBag()
//	slot.Fill(bag, Persona, "你是一个有帮助的助手。")
//	blocks := bag.Compile(slot.CompileOptions{MaxTokens: slot.Limit(2000)})
//
// 也可以链式填充：
//
//	bag.Put(Persona.Bind("...")).Put(Task.Bind(query))
//
// # 并发
//
// Bag 不是并发安全的，每个编译单元应持有自己的 Bag。渲染函数、策略渲染函数
// 和工具生成器必须是纯函数，编译器按填充顺序同步调用它们。
package slot
