package facet

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SchemaError — ошибка валидации схемы фасетов.
// Называет фасет и поле, нарушившие контракт. Фатальна для прогона.
type SchemaError struct {
	Facet  string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Facet == "" {
		return fmt.Sprintf("facet schema: %s", e.Reason)
	}
	if e.Field == "" {
		return fmt.Sprintf("facet %q: %s", e.Facet, e.Reason)
	}
	return fmt.Sprintf("facet %q, field %q: %s", e.Facet, e.Field, e.Reason)
}

// defDocument — YAML представление определения фасета.
type defDocument struct {
	AllowedValues []string  `yaml:"allowed_values"`
	MultiValued   *bool     `yaml:"multi_valued"`
	Required      *bool     `yaml:"required"`
	DefaultValue  *yamlNode `yaml:"default_value"`
}

// yamlNode оборачивает yaml.Node чтобы отличить null от отсутствующего
// значения и проверить что default_value — строка, а не что-то ещё.
type yamlNode struct {
	node yaml.Node
}

func (n *yamlNode) UnmarshalYAML(value *yaml.Node) error {
	n.node = *value
	return nil
}

// LoadSchema читает YAML документ с верхнеуровневым ключом facets.
//
// Порядок фасетов в документе сохраняется. Любое нарушение контракта
// возвращает SchemaError с именем фасета и поля.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading facet schema: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema разбирает YAML документ схемы из памяти.
func ParseSchema(data []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("invalid yaml: %v", err)}
	}

	if len(doc.Content) == 0 {
		return nil, &SchemaError{Reason: "document is empty"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &SchemaError{Reason: "document must be a mapping"}
	}

	// Ищем верхнеуровневый ключ facets
	var facetsNode *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "facets" {
			facetsNode = root.Content[i+1]
			break
		}
	}
	if facetsNode == nil {
		return nil, &SchemaError{Reason: "document must have a 'facets' section"}
	}
	if facetsNode.Kind != yaml.MappingNode {
		return nil, &SchemaError{Reason: "'facets' section must be a mapping"}
	}

	schema := NewSchema()

	// Пары ключ/значение в Content идут в порядке документа
	for i := 0; i+1 < len(facetsNode.Content); i += 2 {
		nameNode := facetsNode.Content[i]
		defNode := facetsNode.Content[i+1]
		name := nameNode.Value

		if defNode.Kind != yaml.MappingNode {
			return nil, &SchemaError{Facet: name, Reason: "must map to a mapping"}
		}

		var raw defDocument
		if err := defNode.Decode(&raw); err != nil {
			return nil, &SchemaError{Facet: name, Reason: fmt.Sprintf("invalid definition: %v", err)}
		}

		def, err := validateDefinition(name, defNode, raw)
		if err != nil {
			return nil, err
		}

		if schema.Has(name) {
			return nil, &SchemaError{Facet: name, Reason: "duplicate facet name"}
		}
		schema.Set(name, def)
	}

	return schema, nil
}

// validateDefinition проверяет поля одного определения.
func validateDefinition(name string, defNode *yaml.Node, raw defDocument) (Definition, error) {
	// allowed_values: обязателен, список строк, непустой
	hasAllowed := false
	for i := 0; i+1 < len(defNode.Content); i += 2 {
		key := defNode.Content[i]
		val := defNode.Content[i+1]
		switch key.Value {
		case "allowed_values":
			hasAllowed = true
			if val.Kind != yaml.SequenceNode {
				return Definition{}, &SchemaError{Facet: name, Field: "allowed_values", Reason: "must be a list"}
			}
		case "multi_valued", "required":
			if val.Kind != yaml.ScalarNode || val.Tag != "!!bool" {
				return Definition{}, &SchemaError{Facet: name, Field: key.Value, Reason: "must be a boolean"}
			}
		}
	}
	if !hasAllowed {
		return Definition{}, &SchemaError{Facet: name, Field: "allowed_values", Reason: "must be a list"}
	}
	if len(raw.AllowedValues) == 0 {
		return Definition{}, &SchemaError{Facet: name, Field: "allowed_values", Reason: "cannot be an empty list"}
	}

	def := Definition{
		AllowedValues: raw.AllowedValues,
	}
	if raw.MultiValued != nil {
		def.MultiValued = *raw.MultiValued
	}
	if raw.Required != nil {
		def.Required = *raw.Required
	}

	// default_value: строка или null
	if raw.DefaultValue != nil {
		node := raw.DefaultValue.node
		switch {
		case node.Tag == "!!null":
			// явный null == отсутствие дефолта
		case node.Kind == yaml.ScalarNode && node.Tag == "!!str":
			v := node.Value
			def.DefaultValue = &v
		default:
			return Definition{}, &SchemaError{Facet: name, Field: "default_value", Reason: "must be a string or null"}
		}
	}

	return def, nil
}
