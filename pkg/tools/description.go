package tools

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// GenerateDescription 自动生成工具描述
//
// 基于工具名称和参数 Schema 生成描述文本。参数按名称排序，输出稳定。
func GenerateDescription(name string, schema ParameterSchema) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Tool: %s\n", name))

	if len(schema.Properties) == 0 {
		sb.WriteString("No parameters required.\n")
		return sb.String()
	}

	sb.WriteString("Parameters:\n")

	for _, propName := range sortedKeys(schema.Properties) {
		prop := schema.Properties[propName]
		required := ""
		if contains(schema.Required, propName) {
			required = " (required)"
		}

		sb.WriteString(fmt.Sprintf("  - %s (%s)%s", propName, prop.Type, required))

		if prop.Description != "" {
			sb.WriteString(": " + prop.Description)
		}

		if len(prop.Enum) > 0 {
			sb.WriteString(fmt.Sprintf(" [allowed: %s]", strings.Join(prop.Enum, ", ")))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// SchemaFromStruct 从结构体类型生成参数 Schema
//
// 使用示例:
//
//	type RetrieveParams struct {
//	    Query string `json:"query" desc:"Search query" required:"true"`
//	    TopK  int    `json:"top_k" desc:"Number of passages"`
//	}
//	schema := tools.SchemaFromStruct(RetrieveParams{})
func SchemaFromStruct(v interface{}) ParameterSchema {
	t := reflect.TypeOf(v)
	if t == nil {
		return ParameterSchema{Type: "object"}
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return ParameterSchema{Type: "object"}
	}

	props := make(map[string]PropertySchema)
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}

		name := strings.Split(jsonTag, ",")[0]

		propSchema := fieldToSchema(field.Type)
		propSchema.Description = field.Tag.Get("desc")
		if enum := field.Tag.Get("enum"); enum != "" {
			propSchema.Enum = strings.Split(enum, ",")
		}

		props[name] = propSchema

		if requiredTag := field.Tag.Get("required"); requiredTag == "true" || requiredTag == "1" {
			required = append(required, name)
		}
	}

	return ParameterSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// fieldToSchema 将 Go 类型转换为 PropertySchema
func fieldToSchema(t reflect.Type) PropertySchema {
	switch t.Kind() {
	case reflect.String:
		return PropertySchema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return PropertySchema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return PropertySchema{Type: "number"}
	case reflect.Bool:
		return PropertySchema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		elemSchema := fieldToSchema(t.Elem())
		return PropertySchema{
			Type:  "array",
			Items: &elemSchema,
		}
	case reflect.Map:
		return PropertySchema{Type: "object"}
	case reflect.Struct:
		nested := SchemaFromStruct(reflect.New(t).Elem().Interface())
		return PropertySchema{
			Type:       "object",
			Properties: nested.Properties,
			Required:   nested.Required,
		}
	case reflect.Ptr:
		return fieldToSchema(t.Elem())
	default:
		return PropertySchema{Type: "string"}
	}
}

// DescribeDefinitions 生成工具定义列表的描述
func DescribeDefinitions(defs []ToolDefinition) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Available Tools (%d):\n\n", len(defs)))

	for i, def := range defs {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, def.Name))
		sb.WriteString(fmt.Sprintf("   Description: %s\n", def.Description))

		schema := def.Parameters
		if len(schema.Properties) > 0 {
			sb.WriteString("   Parameters:\n")
			for _, propName := range sortedKeys(schema.Properties) {
				prop := schema.Properties[propName]
				required := ""
				if contains(schema.Required, propName) {
					required = "*"
				}
				sb.WriteString(fmt.Sprintf("     - %s%s (%s): %s\n",
					propName, required, prop.Type, prop.Description))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func sortedKeys(m map[string]PropertySchema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
