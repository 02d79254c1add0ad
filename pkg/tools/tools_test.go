package tools_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/easyops/contextslots-go/pkg/core/errors"
	"github.com/easyops/contextslots-go/pkg/tools"
)

type searchParams struct {
	Query  string   `json:"query" desc:"search text" required:"true"`
	TopK   int      `json:"top_k" desc:"result count"`
	Mode   string   `json:"mode" enum:"fast,deep"`
	Tags   []string `json:"tags"`
	hidden string
}

func TestSchemaFromStruct(t *testing.T) {
	schema := tools.SchemaFromStruct(searchParams{})

	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"query"}, schema.Required)
	require.Len(t, schema.Properties, 4)
	assert.Equal(t, "integer", schema.Properties["top_k"].Type)
	assert.Equal(t, []string{"fast", "deep"}, schema.Properties["mode"].Enum)
	require.NotNil(t, schema.Properties["tags"].Items)
	assert.Equal(t, "string", schema.Properties["tags"].Items.Type)
}

func TestNewDefinition(t *testing.T) {
	def := tools.NewDefinition("search", "", tools.SchemaFromStruct(searchParams{}))

	assert.Equal(t, "object", def.Parameters.Type)
	assert.True(t, strings.HasPrefix(def.Description, "Tool: search\n"))
	assert.Contains(t, def.Description, "query (string) (required): search text")
	assert.Contains(t, def.Description, "[allowed: fast, deep]")

	empty := tools.NewDefinition("noop", "does nothing", tools.ParameterSchema{})
	assert.Equal(t, "object", empty.Parameters.Type)
	assert.Equal(t, "does nothing", empty.Description)
}

func TestValidateDefinition(t *testing.T) {
	valid := tools.NewDefinition("search", "find", tools.SchemaFromStruct(searchParams{}))
	require.NoError(t, tools.ValidateDefinition(valid))

	tests := []struct {
		name string
		def  tools.ToolDefinition
		msg  string
	}{
		{
			name: "bad name",
			def:  tools.NewDefinition("has space", "x", tools.ParameterSchema{}),
			msg:  "invalid name",
		},
		{
			name: "non-object parameters",
			def:  tools.ToolDefinition{Name: "x", Parameters: tools.ParameterSchema{Type: "string"}},
			msg:  "must be an object",
		},
		{
			name: "undeclared required",
			def: tools.NewDefinition("x", "x", tools.ParameterSchema{
				Required: []string{"query"},
			}),
			msg: `required parameter "query"`,
		},
		{
			name: "unknown property type",
			def: tools.NewDefinition("x", "x", tools.ParameterSchema{
				Properties: map[string]tools.PropertySchema{"q": {Type: "text"}},
			}),
			msg: `unknown type "text"`,
		},
		{
			name: "array without items",
			def: tools.NewDefinition("x", "x", tools.ParameterSchema{
				Properties: map[string]tools.PropertySchema{"tags": {Type: "array"}},
			}),
			msg: "array requires items",
		},
		{
			name: "enum on number",
			def: tools.NewDefinition("x", "x", tools.ParameterSchema{
				Properties: map[string]tools.PropertySchema{"n": {Type: "number", Enum: []string{"1"}}},
			}),
			msg: "enum requires type string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tools.ValidateDefinition(tt.def)
			require.Error(t, err)
			assert.True(t, errors.Is(err, coreerrors.ErrInvalidTool))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDescribeDefinitions(t *testing.T) {
	defs := []tools.ToolDefinition{
		tools.NewDefinition("search", "find documents", tools.SchemaFromStruct(searchParams{})),
		tools.NewDefinition("noop", "does nothing", tools.ParameterSchema{}),
	}

	out := tools.DescribeDefinitions(defs)
	assert.True(t, strings.HasPrefix(out, "Available Tools (2):\n\n"))
	assert.Contains(t, out, "1. search\n   Description: find documents\n")
	assert.Contains(t, out, "     - query* (string): search text\n")
	assert.Contains(t, out, "2. noop\n")
}
