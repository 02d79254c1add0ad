package recipe

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/easyops/contextslots-go/pkg/core/errors"
	"github.com/easyops/contextslots-go/pkg/slot"
)

// DocumentVersion 是当前支持的配方文档版本。
const DocumentVersion = "1"

// Document 是配方的 YAML 表示，槽位以 ID 引用。
//
// 文档只描述配方；把 ID 解析为槽位定义需要目录（见 catalog.LoadRecipes）。
type Document struct {
	Version string `yaml:"version"`
	Recipes []Spec `yaml:"recipes"`
}

// Spec 是单个配方的 YAML 表示。
type Spec struct {
	ID          string              `yaml:"id"`
	Name        string              `yaml:"name,omitempty"`
	Description string              `yaml:"description,omitempty"`
	Required    []string            `yaml:"required,omitempty"`
	Optional    []string            `yaml:"optional,omitempty"`
	Preset      slot.CompileOptions `yaml:"preset,omitempty"`
	Layout      *Layout             `yaml:"layout,omitempty"`
}

// ParseDocument 从 r 读取并校验配方文档。未知字段视为错误。
func ParseDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapError(err, "read recipe document")
	}

	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty document", errors.ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidDocument, err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate 检查文档结构。槽位 ID 是否存在由目录检查。
func (d *Document) Validate() error {
	if d.Version != DocumentVersion {
		return fmt.Errorf("%w: unsupported version %q (expected %q)", errors.ErrInvalidDocument, d.Version, DocumentVersion)
	}

	seen := make(map[string]struct{}, len(d.Recipes))
	for i, spec := range d.Recipes {
		if spec.ID == "" {
			return fmt.Errorf("%w: recipe #%d: id is required", errors.ErrInvalidDocument, i)
		}
		if _, ok := seen[spec.ID]; ok {
			return errors.WithID(errors.ErrDuplicateRecipe, spec.ID)
		}
		seen[spec.ID] = struct{}{}

		if err := spec.Preset.Validate(); err != nil {
			return fmt.Errorf("recipe %q: %w", spec.ID, err)
		}
	}
	return nil
}

// Encode 将文档写为 YAML。
func (d *Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return errors.WrapError(err, "encode recipe document")
	}
	return enc.Close()
}

// ToSpec 将配方转换为文档形式。
func ToSpec(r *Recipe) Spec {
	spec := Spec{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Preset:      r.Preset.Clone(),
	}
	spec.Preset.TokenCounter = nil
	for _, def := range r.Slots.Required {
		spec.Required = append(spec.Required, def.SlotID())
	}
	for _, def := range r.Slots.Optional {
		spec.Optional = append(spec.Optional, def.SlotID())
	}
	if r.Layout != nil {
		layout := Layout{
			Head: append([]string(nil), r.Layout.Head...),
			Tail: append([]string(nil), r.Layout.Tail...),
		}
		spec.Layout = &layout
	}
	return spec
}
