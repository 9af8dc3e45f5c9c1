// Package assets extracts the asset identifiers referenced by a content
// record. A Schema describes which fields of the record hold asset
// identifiers and which fields are nested records or arrays of records;
// extraction walks the schema and the record side by side.
package assets

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Traversal errors. They are returned wrapped in a *PathError.
var (
	// ErrNotObject is returned when an object descriptor meets a non-mapping value
	ErrNotObject = errors.New("value is not an object")

	// ErrNotArray is returned when an array descriptor meets a non-array value
	ErrNotArray = errors.New("value is not an array")

	// ErrNilAccumulator is returned when Extract is given no set to fill
	ErrNilAccumulator = errors.New("nil asset accumulator")
)

// urlPrefixes mark values that are already absolute links rather than asset IDs
var urlPrefixes = []string{"http://", "https://"}

// PathError records the field path at which extraction failed
type PathError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *PathError) Error() string {
	return fmt.Sprintf("extract assets: %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *PathError) Unwrap() error {
	return e.Err
}

// Extract walks data alongside schema and adds every asset identifier it
// finds to acc. Fields absent from data are skipped. Asset values that are
// unset (see Truthy) or start with http:// or https:// are not collected.
//
// The first shape mismatch aborts the walk. acc may already hold
// identifiers from earlier calls; it keeps whatever was added before the
// failure, so callers that need all-or-nothing should extract into a fresh
// set and merge on success.
func Extract(schema Schema, data map[string]any, acc *IDSet) error {
	if acc == nil {
		return ErrNilAccumulator
	}
	return walk(schema, data, acc)
}

// ExtractIDs returns the identifiers of seed merged with those found in data,
// each at most once
func ExtractIDs(schema Schema, data map[string]any, seed ...string) ([]string, error) {
	acc := NewIDSet(seed...)
	if err := walk(schema, data, acc); err != nil {
		return nil, err
	}
	return acc.Slice(), nil
}

// ExtractAll merges the identifiers referenced by every record
func ExtractAll(schema Schema, records []map[string]any, seed ...string) ([]string, error) {
	acc := NewIDSet(seed...)
	for i, record := range records {
		if err := walk(schema, record, acc); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return acc.Slice(), nil
}

func walk(schema Schema, data map[string]any, acc *IDSet) error {
	for _, field := range schema {
		value, ok := data[field.Name]
		if !ok {
			continue
		}

		switch field.Descriptor.Kind {
		case KindObject:
			if value == nil {
				continue
			}
			nested, ok := asMap(value)
			if !ok {
				return &PathError{Path: field.Name, Err: fmt.Errorf("%w: got %T", ErrNotObject, value)}
			}
			if err := walk(field.Descriptor.Properties, nested, acc); err != nil {
				return withParent(err, field.Name)
			}

		case KindArray:
			if value == nil {
				continue
			}
			elems, ok := asSlice(value)
			if !ok {
				return &PathError{Path: field.Name, Err: fmt.Errorf("%w: got %T", ErrNotArray, value)}
			}
			for i, elem := range elems {
				if elem == nil {
					continue
				}
				segment := fmt.Sprintf("%s[%d]", field.Name, i)
				nested, ok := asMap(elem)
				if !ok {
					return &PathError{Path: segment, Err: fmt.Errorf("%w: got %T", ErrNotObject, elem)}
				}
				if err := walk(field.Descriptor.Properties, nested, acc); err != nil {
					return withParent(err, segment)
				}
			}

		case KindAsset:
			if !Truthy(value) {
				continue
			}
			id, err := Stringify(value)
			if err != nil {
				return &PathError{Path: field.Name, Err: err}
			}
			if !isURL(id) {
				acc.Add(id)
			}
		}
	}
	return nil
}

func isURL(s string) bool {
	for _, prefix := range urlPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// withParent prefixes the path of a nested PathError with its parent field
func withParent(err error, parent string) error {
	var pe *PathError
	if errors.As(err, &pe) {
		pe.Path = parent + "." + pe.Path
	}
	return err
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
