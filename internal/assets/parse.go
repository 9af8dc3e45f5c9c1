package assets

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSchema is returned when a schema document is not a mapping
var ErrInvalidSchema = errors.New("invalid schema document")

// ParseSchema decodes a properties document (JSON or YAML) into a Schema.
// Unlike SchemaFromMap, fields keep the order they have in the document.
func ParseSchema(doc []byte) (Schema, error) {
	root, err := decodeRoot(doc)
	if err != nil {
		return nil, err
	}
	return schemaFromNode(root)
}

// ParseContentSchema decodes a full content-type schema and returns the
// Schema of its top-level "properties" mapping
func ParseContentSchema(doc []byte) (Schema, error) {
	root, err := decodeRoot(doc)
	if err != nil {
		return nil, err
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping at the document root", ErrInvalidSchema)
	}
	props := mappingValue(root, keyProperties)
	if props == nil {
		return nil, fmt.Errorf("%w: no %q mapping at the document root", ErrInvalidSchema, keyProperties)
	}
	return schemaFromNode(props)
}

func decodeRoot(doc []byte) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if root.Kind == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidSchema)
	}
	return resolve(&root), nil
}

func schemaFromNode(n *yaml.Node) (Schema, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping of fields", ErrInvalidSchema, n.Line)
	}

	schema := make(Schema, 0, len(n.Content)/2)
	seen := make(map[string]int, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := resolve(n.Content[i])
		desc, err := descriptorFromNode(n.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key.Value, err)
		}
		// A repeated field keeps its first position and its last definition
		if at, ok := seen[key.Value]; ok {
			schema[at].Descriptor = desc
			continue
		}
		seen[key.Value] = len(schema)
		schema = append(schema, Field{Name: key.Value, Descriptor: desc})
	}
	return schema, nil
}

// descriptorFromNode follows the same precedence as Classify
func descriptorFromNode(n *yaml.Node) (Descriptor, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return Other(), nil
	}

	if props := mappingValue(n, keyProperties); props != nil && props.Kind == yaml.MappingNode {
		nested, err := schemaFromNode(props)
		if err != nil {
			return Descriptor{}, err
		}
		return Object(nested), nil
	}

	if items := mappingValue(n, keyItems); items != nil && items.Kind == yaml.MappingNode {
		if props := mappingValue(items, keyProperties); props != nil && props.Kind == yaml.MappingNode {
			nested, err := schemaFromNode(props)
			if err != nil {
				return Descriptor{}, err
			}
			return ArrayOf(nested), nil
		}
	}

	if marker := mappingValue(n, keyFormsMarker); marker != nil {
		switch marker.Kind {
		case yaml.ScalarNode:
			if marker.ShortTag() == "!!str" && marker.Value == assetMarkerName {
				return Asset(), nil
			}
		case yaml.MappingNode:
			if t := mappingValue(marker, keyMarkerType); t != nil && t.Kind == yaml.ScalarNode &&
				t.ShortTag() == "!!str" && t.Value == assetMarkerName {
				return Asset(), nil
			}
		}
	}

	return Other(), nil
}

// mappingValue returns the resolved value node stored under key, or nil
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if resolve(n.Content[i]).Value == key {
			return resolve(n.Content[i+1])
		}
	}
	return nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return n
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return n
}
