package tools

import (
	"fmt"
	"regexp"

	"github.com/easyops/contextslots-go/pkg/core/errors"
)

// 函数调用接口通用的工具名约束
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

var propertyTypes = map[string]struct{}{
	"string":  {},
	"number":  {},
	"integer": {},
	"boolean": {},
	"array":   {},
	"object":  {},
}

// ValidateDefinition 检查工具定义能否交给 LLM 使用
//
// 名称需满足函数调用的命名约束，参数 Schema 必须是 object，
// Required 中的参数必须在 Properties 中声明。
func ValidateDefinition(def ToolDefinition) error {
	if !namePattern.MatchString(def.Name) {
		return fmt.Errorf("%w: invalid name %q", errors.ErrInvalidTool, def.Name)
	}
	if def.Parameters.Type != "object" {
		return fmt.Errorf("%w: %s: parameters must be an object, got %q", errors.ErrInvalidTool, def.Name, def.Parameters.Type)
	}
	for _, req := range def.Parameters.Required {
		if _, ok := def.Parameters.Properties[req]; !ok {
			return fmt.Errorf("%w: %s: required parameter %q is not declared", errors.ErrInvalidTool, def.Name, req)
		}
	}
	for _, name := range sortedKeys(def.Parameters.Properties) {
		if err := validateProperty(name, def.Parameters.Properties[name]); err != nil {
			return fmt.Errorf("%w: %s: %v", errors.ErrInvalidTool, def.Name, err)
		}
	}
	return nil
}

// validateProperty 递归检查属性 Schema
func validateProperty(name string, prop PropertySchema) error {
	if _, ok := propertyTypes[prop.Type]; !ok {
		return fmt.Errorf("parameter %s: unknown type %q", name, prop.Type)
	}
	if len(prop.Enum) > 0 && prop.Type != "string" {
		return fmt.Errorf("parameter %s: enum requires type string", name)
	}
	if prop.Minimum != nil && prop.Maximum != nil && *prop.Minimum > *prop.Maximum {
		return fmt.Errorf("parameter %s: minimum %v exceeds maximum %v", name, *prop.Minimum, *prop.Maximum)
	}

	switch prop.Type {
	case "array":
		if prop.Items == nil {
			return fmt.Errorf("parameter %s: array requires items", name)
		}
		return validateProperty(name+"[]", *prop.Items)
	case "object":
		for _, req := range prop.Required {
			if _, ok := prop.Properties[req]; !ok {
				return fmt.Errorf("parameter %s: required property %q is not declared", name, req)
			}
		}
		for _, child := range sortedKeys(prop.Properties) {
			if err := validateProperty(name+"."+child, prop.Properties[child]); err != nil {
				return err
			}
		}
	}
	return nil
}
