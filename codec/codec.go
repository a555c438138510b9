// Package codec reads and writes textual shredding-schema descriptions.
// A description is a small document tree:
//
//	kind: object
//	fields:
//	  - name: a
//	    schema: {kind: int64}
//	  - name: b
//	    schema:
//	      kind: array
//	      element: {kind: string}
//
// Scalar kinds are string, int8, int16, int32, int64, float, double,
// boolean, binary, decimal (with precision/scale), date, timestamp,
// timestamp_ntz and uuid. "variant" keeps the node untyped, and
// "fallback: true" keeps the generic value slot next to a typed slot.
// Decoding builds through dsl, so every construction invariant of
// variant.New applies to decoded documents as well.
package codec

import (
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	variant "github.com/varlab/variant"
	"github.com/varlab/variant/dsl"
)

type doc struct {
	Kind      string     `json:"kind" yaml:"kind"`
	Precision int        `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale     int        `json:"scale,omitempty" yaml:"scale,omitempty"`
	Fallback  bool       `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Fields    []fieldDoc `json:"fields,omitempty" yaml:"fields,omitempty"`
	Element   *doc       `json:"element,omitempty" yaml:"element,omitempty"`
}

type fieldDoc struct {
	Name   string `json:"name" yaml:"name"`
	Schema *doc   `json:"schema" yaml:"schema"`
}

// DecodeYAML parses a YAML schema description and builds the schema tree.
// Unknown document keys are rejected.
func DecodeYAML(data []byte) (*variant.Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var d doc
	if err := dec.Decode(&d); err != nil {
		return nil, variant.Issues{{Path: "/", Code: variant.CodeParseError,
			Message: "cannot parse YAML schema description", Cause: err}}
	}
	return buildDoc(&d)
}

// DecodeJSON parses a JSON schema description and builds the schema tree.
// Unknown document keys are rejected.
func DecodeJSON(data []byte) (*variant.Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var d doc
	if err := dec.Decode(&d); err != nil {
		return nil, variant.Issues{{Path: "/", Code: variant.CodeParseError,
			Message: "cannot parse JSON schema description", Cause: err}}
	}
	if err := dec.Decode(new(doc)); err != io.EOF {
		return nil, variant.Issues{{Path: "/", Code: variant.CodeParseError,
			Message: "trailing data after schema description"}}
	}
	return buildDoc(&d)
}

// EncodeYAML renders the schema tree as a YAML description.
func EncodeYAML(s *variant.Schema) ([]byte, error) {
	d, err := schemaDoc(s, "")
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(d)
}

// EncodeJSON renders the schema tree as an indented JSON description.
func EncodeJSON(s *variant.Schema) ([]byte, error) {
	d, err := schemaDoc(s, "")
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(d, "", "  ")
}

func buildDoc(d *doc) (*variant.Schema, error) {
	n, err := docNode(d, "")
	if err != nil {
		return nil, err
	}
	return dsl.Build(n)
}

func docNode(d *doc, path string) (*dsl.Node, error) {
	at := path
	if at == "" {
		at = "/"
	}
	if d == nil {
		return nil, variant.Issues{{Path: at, Code: variant.CodeParseError,
			Message: "missing schema node"}}
	}

	var n *dsl.Node
	switch d.Kind {
	case "variant":
		n = dsl.Untyped()
	case "object":
		n = dsl.Object()
		for i, f := range d.Fields {
			child, err := docNode(f.Schema, fmt.Sprintf("%s/fields/%d/schema", path, i))
			if err != nil {
				return nil, err
			}
			n.Field(f.Name, child)
		}
	case "array":
		child, err := docNode(d.Element, path+"/element")
		if err != nil {
			return nil, err
		}
		n = dsl.Array(child)
	default:
		st, ok := scalarOf(d)
		if !ok {
			return nil, variant.Issues{{Path: at, Code: variant.CodeUnknownKind,
				Message: fmt.Sprintf("unknown schema kind %q", d.Kind),
				Params:  map[string]any{"kind": d.Kind}}}
		}
		n = dsl.Scalar(st)
	}
	if d.Kind != "object" && len(d.Fields) > 0 {
		return nil, variant.Issues{{Path: at, Code: variant.CodeParseError,
			Message: fmt.Sprintf("fields not allowed on kind %q", d.Kind)}}
	}
	if d.Kind != "array" && d.Element != nil {
		return nil, variant.Issues{{Path: at, Code: variant.CodeParseError,
			Message: fmt.Sprintf("element not allowed on kind %q", d.Kind)}}
	}
	if d.Fallback {
		n.WithFallback()
	}
	return n, nil
}

func scalarOf(d *doc) (variant.ScalarType, bool) {
	switch d.Kind {
	case "string":
		return variant.StringType{}, true
	case "int8":
		return variant.IntegralType{Size: variant.Int8}, true
	case "int16":
		return variant.IntegralType{Size: variant.Int16}, true
	case "int32":
		return variant.IntegralType{Size: variant.Int32}, true
	case "int64":
		return variant.IntegralType{Size: variant.Int64}, true
	case "float":
		return variant.FloatType{}, true
	case "double":
		return variant.DoubleType{}, true
	case "boolean":
		return variant.BooleanType{}, true
	case "binary":
		return variant.BinaryType{}, true
	case "decimal":
		return variant.DecimalType{Precision: d.Precision, Scale: d.Scale}, true
	case "date":
		return variant.DateType{}, true
	case "timestamp":
		return variant.TimestampType{}, true
	case "timestamp_ntz":
		return variant.TimestampNTZType{}, true
	case "uuid":
		return variant.UUIDType{}, true
	default:
		return nil, false
	}
}

func schemaDoc(s *variant.Schema, path string) (*doc, error) {
	at := path
	if at == "" {
		at = "/"
	}
	if s == nil {
		return nil, variant.Issues{{Path: at, Code: variant.CodeInvalidSchema,
			Message: "nil schema"}}
	}
	d := &doc{}
	d.Fallback = s.TypedIdx() != variant.NoIndex && s.VariantIdx() != variant.NoIndex
	switch {
	case s.IsObject():
		d.Kind = "object"
		for i, f := range s.ObjectFields() {
			fd, err := schemaDoc(f.Schema, fmt.Sprintf("%s/fields/%d/schema", path, i))
			if err != nil {
				return nil, err
			}
			d.Fields = append(d.Fields, fieldDoc{Name: f.Name, Schema: fd})
		}
	case s.IsArray():
		ed, err := schemaDoc(s.ArrayElem(), path+"/element")
		if err != nil {
			return nil, err
		}
		d.Kind = "array"
		d.Element = ed
	case s.IsScalar():
		kind, prec, scale := scalarKind(s.Scalar())
		d.Kind = kind
		d.Precision = prec
		d.Scale = scale
	default:
		d.Kind = "variant"
		d.Fallback = false
	}
	return d, nil
}

func scalarKind(st variant.ScalarType) (kind string, precision, scale int) {
	switch t := st.(type) {
	case variant.StringType:
		return "string", 0, 0
	case variant.IntegralType:
		return t.Size.String(), 0, 0
	case variant.FloatType:
		return "float", 0, 0
	case variant.DoubleType:
		return "double", 0, 0
	case variant.BooleanType:
		return "boolean", 0, 0
	case variant.BinaryType:
		return "binary", 0, 0
	case variant.DecimalType:
		return "decimal", t.Precision, t.Scale
	case variant.DateType:
		return "date", 0, 0
	case variant.TimestampType:
		return "timestamp", 0, 0
	case variant.TimestampNTZType:
		return "timestamp_ntz", 0, 0
	case variant.UUIDType:
		return "uuid", 0, 0
	default:
		return "variant", 0, 0
	}
}
