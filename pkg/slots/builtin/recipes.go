package builtin

import (
	"github.com/easyops/contextslots-go/pkg/recipe"
	"github.com/easyops/contextslots-go/pkg/slot"
)

// ChatRecipe 普通对话：指令 + 问题，可带历史与任务状态
var ChatRecipe = &recipe.Recipe{
	ID:          "chat",
	Name:        "Chat",
	Description: "多轮对话",
	Slots: recipe.Slots{
		Required: []slot.Definition{Instructions, Task},
		Optional: []slot.Definition{State, History, Output},
	},
	Preset: slot.CompileOptions{
		Fidelity:  slot.FidelityFull,
		MaxTokens: slot.Limit(4000),
	},
	Layout: &recipe.Layout{
		Head: []string{Instructions.ID},
		Tail: []string{Task.ID},
	},
}

// RAGRecipe 检索增强问答：证据居中，问题与输出约束置底
var RAGRecipe = &recipe.Recipe{
	ID:          "rag",
	Name:        "Retrieval QA",
	Description: "基于检索证据回答问题",
	Slots: recipe.Slots{
		Required: []slot.Definition{Instructions, Task, EvidenceSlot},
		Optional: []slot.Definition{State, History, Output},
	},
	Preset: slot.CompileOptions{
		Fidelity:  slot.FidelityFull,
		MaxTokens: slot.Limit(6000),
		Layers:    []string{slot.LayerStrategy},
	},
	Layout: &recipe.Layout{
		Head: []string{Instructions.ID},
		Tail: []string{Output.ID, Task.ID},
	},
}

// Recipes 返回全部内置配方
func Recipes() []*recipe.Recipe {
	return []*recipe.Recipe{ChatRecipe, RAGRecipe}
}
