package facet

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MarshalSchema сериализует схему в YAML документ {facets: ...}.
//
// Порядок фасетов и их allowed_values сохраняется. Документ строится
// вручную через yaml.Node: обычный map сломал бы порядок ключей.
func MarshalSchema(s *Schema) ([]byte, error) {
	facetsNode := &yaml.Node{Kind: yaml.MappingNode}

	for _, name := range s.Names() {
		def, _ := s.Get(name)

		valuesNode := &yaml.Node{Kind: yaml.SequenceNode}
		for _, v := range def.AllowedValues {
			valuesNode.Content = append(valuesNode.Content, scalarString(v))
		}

		defaultNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		if def.DefaultValue != nil {
			defaultNode = scalarString(*def.DefaultValue)
		}

		defNode := &yaml.Node{Kind: yaml.MappingNode}
		defNode.Content = append(defNode.Content,
			scalarString("allowed_values"), valuesNode,
			scalarString("multi_valued"), scalarBool(def.MultiValued),
			scalarString("required"), scalarBool(def.Required),
			scalarString("default_value"), defaultNode,
		)

		facetsNode.Content = append(facetsNode.Content, scalarString(name), defNode)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, scalarString("facets"), facetsNode)

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal facet schema: %w", err)
	}
	return out, nil
}

// SaveSchema записывает обновлённую схему на диск.
//
// Пишется безусловно, даже если discovery не проводился — тогда документ
// семантически равен входному.
func SaveSchema(path string, s *Schema) error {
	data, err := MarshalSchema(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing facet schema: %w", err)
	}
	return nil
}

func scalarString(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func scalarBool(v bool) *yaml.Node {
	value := "false"
	if v {
		value = "true"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: value}
}
