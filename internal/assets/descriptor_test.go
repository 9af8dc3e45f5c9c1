package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want Kind
	}{
		{"nil descriptor", nil, KindOther},
		{"plain string field", map[string]any{"type": "string"}, KindOther},
		{"object", map[string]any{"properties": map[string]any{}}, KindObject},
		{"array of objects", map[string]any{"items": map[string]any{"properties": map[string]any{}}}, KindArray},
		{"array of scalars", map[string]any{"items": map[string]any{"type": "string"}}, KindOther},
		{"asset shorthand", map[string]any{"_backboneForms": "Asset"}, KindAsset},
		{"asset object marker", map[string]any{"_backboneForms": map[string]any{"type": "Asset"}}, KindAsset},
		{"other editor", map[string]any{"_backboneForms": "Text"}, KindOther},
		{"other editor object", map[string]any{"_backboneForms": map[string]any{"type": "Select"}}, KindOther},
		{"marker is case sensitive", map[string]any{"_backboneForms": "asset"}, KindOther},
		{"properties that is not a mapping", map[string]any{"properties": "nope"}, KindOther},
		{
			"properties win over asset marker",
			map[string]any{"properties": map[string]any{}, "_backboneForms": "Asset"},
			KindObject,
		},
		{
			"items win over asset marker",
			map[string]any{"items": map[string]any{"properties": map[string]any{}}, "_backboneForms": "Asset"},
			KindArray,
		},
		{
			"yaml.v2 style mapping",
			map[string]any{"_backboneForms": map[any]any{"type": "Asset"}},
			KindAsset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw).Kind)
		})
	}
}

func TestSchemaFromMap_SortsAndNests(t *testing.T) {
	s := SchemaFromMap(map[string]any{
		"zeta":  map[string]any{"_backboneForms": "Asset"},
		"alpha": map[string]any{"properties": map[string]any{"src": map[string]any{"_backboneForms": "Asset"}}},
		"mid":   "not a mapping",
	})

	require.Len(t, s, 3)
	assert.Equal(t, "alpha", s[0].Name)
	assert.Equal(t, "mid", s[1].Name)
	assert.Equal(t, "zeta", s[2].Name)

	assert.Equal(t, KindObject, s[0].Descriptor.Kind)
	assert.Equal(t, KindOther, s[1].Descriptor.Kind)
	assert.Equal(t, KindAsset, s[2].Descriptor.Kind)

	src, ok := s[0].Descriptor.Properties.Lookup("src")
	require.True(t, ok)
	assert.Equal(t, KindAsset, src.Kind)
}

func TestParseSchema_KeepsDocumentOrder(t *testing.T) {
	s, err := ParseSchema([]byte(`{"z": {"_backboneForms": "Asset"}, "a": {"type": "string"}, "m": {"_backboneForms": "Asset"}}`))
	require.NoError(t, err)

	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"z", "a", "m"}, names)
}

func TestParseSchema_YAML(t *testing.T) {
	doc := `
_graphic:
  properties:
    src:
      _backboneForms:
        type: Asset
    alt:
      type: string
_items:
  items:
    properties:
      src:
        _backboneForms: Asset
title:
  type: string
`
	s, err := ParseSchema([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "{_graphic: {src: asset, alt: other}, _items: [{src: asset}], title: other}", s.String())
	assert.True(t, s.HasAssets())
}

func TestParseSchema_Anchors(t *testing.T) {
	doc := `
_image: &img
  _backboneForms: Asset
poster: *img
`
	s, err := ParseSchema([]byte(doc))
	require.NoError(t, err)

	d, ok := s.Lookup("poster")
	require.True(t, ok)
	assert.Equal(t, KindAsset, d.Kind)
}

func TestParseSchema_RepeatedFieldLastWins(t *testing.T) {
	s, err := ParseSchema([]byte(`{"a": {"_backboneForms": "Asset"}, "b": {"_backboneForms": "Asset"}, "a": {"type": "string"}}`))
	require.NoError(t, err)
	assert.Equal(t, "{a: other, b: asset}", s.String())

	got, err := ExtractIDs(s, map[string]any{"a": "x", "b": "y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, got)
}

func TestParseSchema_MarkerMustBeString(t *testing.T) {
	s, err := ParseSchema([]byte(`{"a": {"_backboneForms": true}, "b": {"_backboneForms": {"type": 1}}}`))
	require.NoError(t, err)
	assert.Equal(t, "{a: other, b: other}", s.String())
}

func TestParseSchema_Invalid(t *testing.T) {
	for _, doc := range []string{"", "[1, 2]", `"text"`, `{"a": {"properties": {"b": 1}}, "c": `} {
		_, err := ParseSchema([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidSchema, "doc %q", doc)
	}
}

func TestParseSchema_EmptyMapping(t *testing.T) {
	s, err := ParseSchema([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, s)

	got, err := ExtractIDs(s, map[string]any{"anything": "x"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseContentSchema(t *testing.T) {
	doc := `{
		"$anchor": "course",
		"type": "object",
		"properties": {
			"heroImage": {"type": "string", "_backboneForms": {"type": "Asset", "media": "image"}},
			"title": {"type": "string"}
		}
	}`

	s, err := ParseContentSchema([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "{heroImage: asset, title: other}", s.String())

	_, err = ParseContentSchema([]byte(`{"type": "object"}`))
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "array", KindArray.String())
	assert.Equal(t, "asset", KindAsset.String())
	assert.Equal(t, "other", KindOther.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
