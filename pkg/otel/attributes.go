package otel

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// 预定义的语义属性键
const (
	// 编译相关属性
	AttrCompileRunID      = "slots.compile.run_id"
	AttrCompileFidelity   = "slots.compile.fidelity"
	AttrCompileLimit      = "slots.compile.limit"
	AttrCompileConsidered = "slots.compile.considered"
	AttrCompileRendered   = "slots.compile.rendered"
	AttrCompileEmitted    = "slots.compile.emitted"
	AttrCompileTokens     = "slots.compile.tokens_used"

	// 槽位相关属性
	AttrSlotID     = "slots.slot.id"
	AttrDropReason = "slots.drop.reason"

	// 配方相关属性
	AttrRecipeID       = "slots.recipe.id"
	AttrRecipeValid    = "slots.recipe.valid"
	AttrRecipeCoverage = "slots.recipe.coverage"
	AttrRecipeMissing  = "slots.recipe.missing"
)

// CompileRunID 创建编译运行 ID 属性
func CompileRunID(id string) attribute.KeyValue {
	return attribute.String(AttrCompileRunID, id)
}

// CompileFidelity 创建保真度属性
func CompileFidelity(fidelity string) attribute.KeyValue {
	return attribute.String(AttrCompileFidelity, fidelity)
}

// RecipeID 创建配方 ID 属性
func RecipeID(id string) attribute.KeyValue {
	return attribute.String(AttrRecipeID, id)
}

// SlotDropped 创建槽位丢弃事件属性
func SlotDropped(id, reason string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrSlotID, id),
		attribute.String(AttrDropReason, reason),
	}
}

// toAttribute 将指标属性转换为 OpenTelemetry 属性
func toAttribute(a Attr) attribute.KeyValue {
	switch v := a.Value.(type) {
	case string:
		return attribute.String(a.Key, v)
	case bool:
		return attribute.Bool(a.Key, v)
	case int:
		return attribute.Int(a.Key, v)
	case int64:
		return attribute.Int64(a.Key, v)
	case float64:
		return attribute.Float64(a.Key, v)
	case []string:
		return attribute.StringSlice(a.Key, v)
	default:
		return attribute.String(a.Key, fmt.Sprint(v))
	}
}
