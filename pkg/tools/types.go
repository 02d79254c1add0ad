// Package tools 定义槽位可暴露给 LLM 的工具描述类型。
//
// 本包只描述工具（名称、说明、参数 Schema），不负责执行。
// 槽位的工具生成器根据自身数据返回零个或多个 ToolDefinition，
// 由外部的工具执行方消费。
package tools

// ParameterSchema 定义工具参数的 JSON Schema
type ParameterSchema struct {
	// Type 参数类型（通常为 "object"）
	Type string `json:"type" yaml:"type"`
	// Properties 参数属性定义
	Properties map[string]PropertySchema `json:"properties,omitempty" yaml:"properties,omitempty"`
	// Required 必需参数列表
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`
	// AdditionalProperties 是否允许额外属性
	AdditionalProperties bool `json:"additionalProperties,omitempty" yaml:"additional_properties,omitempty"`
}

// PropertySchema 定义单个属性的 Schema
type PropertySchema struct {
	// Type 属性类型: "string", "number", "integer", "boolean", "array", "object"
	Type string `json:"type" yaml:"type"`
	// Description 属性描述
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Enum 枚举值（可选）
	Enum []string `json:"enum,omitempty" yaml:"enum,omitempty"`
	// Default 默认值（可选）
	Default interface{} `json:"default,omitempty" yaml:"default,omitempty"`
	// Items 数组元素 Schema（当 Type="array" 时）
	Items *PropertySchema `json:"items,omitempty" yaml:"items,omitempty"`
	// Properties 对象属性（当 Type="object" 时）
	Properties map[string]PropertySchema `json:"properties,omitempty" yaml:"properties,omitempty"`
	// Required 必需属性（当 Type="object" 时）
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`
	// Minimum 最小值（数值类型）
	Minimum *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	// Maximum 最大值（数值类型）
	Maximum *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
}

// ToolDefinition 工具定义（用于序列化）
type ToolDefinition struct {
	// Name 工具名称
	Name string `json:"name" yaml:"name"`
	// Description 工具描述
	Description string `json:"description" yaml:"description"`
	// Parameters 参数 Schema
	Parameters ParameterSchema `json:"parameters" yaml:"parameters"`
}

// NewDefinition 创建工具定义
//
// params 为空类型时补全为 "object"；description 为空时根据参数生成。
func NewDefinition(name, description string, params ParameterSchema) ToolDefinition {
	if params.Type == "" {
		params.Type = "object"
	}
	if description == "" {
		description = GenerateDescription(name, params)
	}
	return ToolDefinition{
		Name:        name,
		Description: description,
		Parameters:  params,
	}
}
