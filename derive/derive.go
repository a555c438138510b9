// Package derive infers a shredding schema from a sample JSON document.
// Strings, booleans and numbers map onto scalar typed slots, objects and
// arrays recurse, and anything without a stable typed representation (nulls,
// arrays with mixed element shapes) stays in the generic value slot. The
// result is a starting point for schema derivation, not a guarantee that
// later values fit; encoders fall back per value.
package derive

import (
	"bytes"
	"io"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	variant "github.com/varlab/variant"
	"github.com/varlab/variant/dsl"
)

// FromJSON decodes a single JSON value and derives a root schema for it.
func FromJSON(data []byte) (*variant.Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, variant.Issues{{Path: "/", Code: variant.CodeParseError,
			Message: "cannot parse sample document", Cause: err}}
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, variant.Issues{{Path: "/", Code: variant.CodeParseError,
			Message: "trailing data after sample document"}}
	}
	return dsl.Build(nodeOf(shapeOf(v)))
}

// shape is the intermediate derived form; it exists so array elements can be
// compared for equality before committing to a typed element schema.
type shape struct {
	scalar variant.ScalarType
	elem   *shape
	fields []fieldShape // nil means not an object
	obj    bool
}

type fieldShape struct {
	name string
	s    *shape
}

// untypedShape marks a value kept in the generic slot (null, mixed arrays).
var untypedShape = &shape{}

func shapeOf(v any) *shape {
	switch v := v.(type) {
	case string:
		return &shape{scalar: variant.StringType{}}
	case bool:
		return &shape{scalar: variant.BooleanType{}}
	case json.Number:
		return numberShape(v)
	case map[string]any:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		fields := make([]fieldShape, 0, len(names))
		for _, name := range names {
			fields = append(fields, fieldShape{name: name, s: shapeOf(v[name])})
		}
		return &shape{obj: true, fields: fields}
	case []any:
		return arrayShape(v)
	default:
		// null, or a token the decoder produced that has no typed mapping
		return untypedShape
	}
}

// numberShape maps an integral literal that fits int64 to int64, everything
// else to double.
func numberShape(n json.Number) *shape {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if _, err := n.Int64(); err == nil {
			return &shape{scalar: variant.IntegralType{Size: variant.Int64}}
		}
	}
	return &shape{scalar: variant.DoubleType{}}
}

// arrayShape derives the element shapes and keeps the typed element only
// when every element agrees; otherwise the element stays untyped.
func arrayShape(vs []any) *shape {
	if len(vs) == 0 {
		return &shape{elem: untypedShape}
	}
	elem := shapeOf(vs[0])
	for _, v := range vs[1:] {
		if !elem.equal(shapeOf(v)) {
			return &shape{elem: untypedShape}
		}
	}
	return &shape{elem: elem}
}

func (a *shape) equal(b *shape) bool {
	if a.obj != b.obj {
		return false
	}
	if a.obj {
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].name != b.fields[i].name || !a.fields[i].s.equal(b.fields[i].s) {
				return false
			}
		}
		return true
	}
	if (a.elem == nil) != (b.elem == nil) {
		return false
	}
	if a.elem != nil {
		return a.elem.equal(b.elem)
	}
	return a.scalar == b.scalar
}

func nodeOf(s *shape) *dsl.Node {
	switch {
	case s.obj:
		n := dsl.Object()
		for _, f := range s.fields {
			n.Field(f.name, nodeOf(f.s))
		}
		return n
	case s.elem != nil:
		return dsl.Array(nodeOf(s.elem))
	case s.scalar != nil:
		return dsl.Scalar(s.scalar)
	default:
		return dsl.Untyped()
	}
}
