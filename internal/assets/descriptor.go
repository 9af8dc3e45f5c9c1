package assets

import (
	"sort"
	"strings"
)

// Keys inspected on a raw field descriptor during classification
const (
	keyProperties   = "properties"
	keyItems        = "items"
	keyFormsMarker  = "_backboneForms"
	keyMarkerType   = "type"
	assetMarkerName = "Asset"
)

// Kind identifies how a field descriptor is traversed
type Kind int

const (
	// KindOther is any descriptor the extractor ignores
	KindOther Kind = iota
	// KindObject descends into the data value as a nested record
	KindObject
	// KindArray iterates the data value and descends into each element
	KindArray
	// KindAsset marks a field whose value is an asset identifier
	KindAsset
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindAsset:
		return "asset"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Descriptor is a classified field descriptor.
// Properties is set for KindObject (the nested schema) and KindArray
// (the schema of each array element).
type Descriptor struct {
	Kind       Kind
	Properties Schema
}

// Field pairs a field name with its descriptor
type Field struct {
	Name       string
	Descriptor Descriptor
}

// Schema is an ordered list of fields. Order is the order fields are visited.
type Schema []Field

// Lookup returns the descriptor for the named field
func (s Schema) Lookup(name string) (Descriptor, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Descriptor, true
		}
	}
	return Descriptor{}, false
}

// HasAssets reports whether any field, at any depth, is asset-typed
func (s Schema) HasAssets() bool {
	for _, f := range s {
		switch f.Descriptor.Kind {
		case KindAsset:
			return true
		case KindObject, KindArray:
			if f.Descriptor.Properties.HasAssets() {
				return true
			}
		}
	}
	return false
}

// Object builds an object descriptor around a nested schema
func Object(properties Schema) Descriptor {
	return Descriptor{Kind: KindObject, Properties: properties}
}

// ArrayOf builds an array-of-objects descriptor whose elements follow properties
func ArrayOf(properties Schema) Descriptor {
	return Descriptor{Kind: KindArray, Properties: properties}
}

// Asset builds an asset-typed descriptor
func Asset() Descriptor {
	return Descriptor{Kind: KindAsset}
}

// Other builds a descriptor that is never traversed
func Other() Descriptor {
	return Descriptor{Kind: KindOther}
}

// Classify turns a raw, decoded field descriptor into a Descriptor.
//
// A mapping under "properties" wins over "items.properties", which wins
// over the "_backboneForms" asset marker. The marker is accepted either as
// the string "Asset" or as a mapping whose "type" is "Asset".
func Classify(raw map[string]any) Descriptor {
	if props, ok := asMap(raw[keyProperties]); ok {
		return Object(SchemaFromMap(props))
	}

	if items, ok := asMap(raw[keyItems]); ok {
		if props, ok := asMap(items[keyProperties]); ok {
			return ArrayOf(SchemaFromMap(props))
		}
	}

	if isAssetMarker(raw[keyFormsMarker]) {
		return Asset()
	}

	return Other()
}

func isAssetMarker(v any) bool {
	if s, ok := v.(string); ok {
		return s == assetMarkerName
	}
	if m, ok := asMap(v); ok {
		t, _ := m[keyMarkerType].(string)
		return t == assetMarkerName
	}
	return false
}

// SchemaFromMap classifies every entry of a decoded properties mapping.
// Go maps carry no order, so fields are sorted by name.
func SchemaFromMap(properties map[string]any) Schema {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	schema := make(Schema, 0, len(names))
	for _, name := range names {
		raw, _ := asMap(properties[name])
		schema = append(schema, Field{Name: name, Descriptor: Classify(raw)})
	}
	return schema
}

// asMap accepts both decoder flavours of a mapping
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// String renders the schema as a compact tree, mostly for logs and test failures
func (s Schema) String() string {
	var b strings.Builder
	s.write(&b)
	return b.String()
}

func (s Schema) write(b *strings.Builder) {
	b.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		switch f.Descriptor.Kind {
		case KindObject:
			f.Descriptor.Properties.write(b)
		case KindArray:
			b.WriteByte('[')
			f.Descriptor.Properties.write(b)
			b.WriteByte(']')
		default:
			b.WriteString(f.Descriptor.Kind.String())
		}
	}
	b.WriteByte('}')
}
