package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/conduit-lang/assetrefs/internal/assets"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// json decodes numbers as json.Number so numeric asset IDs keep their digits
var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// stdinPath selects standard input in place of a file
const stdinPath = "-"

// inputError ties a failure to the file it came from
type inputError struct {
	kind string // "schema" or "record"
	path string
	err  error
}

func (e *inputError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.kind, e.path, e.err)
}

func (e *inputError) Unwrap() error {
	return e.err
}

// errStdinReused is returned when "-" is named more than once
var errStdinReused = errors.New("standard input is already used by another argument")

// inputs reads the schema and record files of one invocation.
// Standard input can be read only once.
type inputs struct {
	stdin     io.Reader
	stdinUsed bool
}

func newInputs(stdin io.Reader) *inputs {
	return &inputs{stdin: stdin}
}

func (in *inputs) read(path string) ([]byte, error) {
	if path != stdinPath {
		return os.ReadFile(path)
	}
	if in.stdinUsed {
		return nil, errStdinReused
	}
	in.stdinUsed = true
	return io.ReadAll(in.stdin)
}

// loadSchema reads a schema file. With content set, the file is a full
// content-type schema and its top-level properties are used.
func (in *inputs) loadSchema(path string, content bool) (assets.Schema, error) {
	doc, err := in.read(path)
	if err != nil {
		return nil, &inputError{kind: "schema", path: path, err: err}
	}

	parse := assets.ParseSchema
	if content {
		parse = assets.ParseContentSchema
	}
	schema, err := parse(doc)
	if err != nil {
		return nil, &inputError{kind: "schema", path: path, err: err}
	}
	return schema, nil
}

// loadRecords reads a data file holding one record or an array of records.
// An empty file holds no records.
func (in *inputs) loadRecords(path string) ([]map[string]any, error) {
	doc, err := in.read(path)
	if err != nil {
		return nil, &inputError{kind: "record", path: path, err: err}
	}
	if strings.TrimSpace(string(doc)) == "" {
		return nil, nil
	}

	var decoded any
	if isYAML(path) {
		err = yaml.Unmarshal(doc, &decoded)
	} else {
		err = json.Unmarshal(doc, &decoded)
	}
	if err != nil {
		return nil, &inputError{kind: "record", path: path, err: err}
	}

	records, err := asRecords(decoded)
	if err != nil {
		return nil, &inputError{kind: "record", path: path, err: err}
	}
	return records, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func asRecords(decoded any) ([]map[string]any, error) {
	switch v := decoded.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return []map[string]any{v}, nil
	case []any:
		records := make([]map[string]any, 0, len(v))
		for i, item := range v {
			record, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, not an object", i, item)
			}
			records = append(records, record)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("expected an object or an array of objects, got %T", decoded)
	}
}
