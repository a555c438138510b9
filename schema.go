package variant

import (
	"fmt"
	"strings"
)

// NoIndex marks an absent slot. The indices of present slots are contiguous
// and start from 0, because downstream readers index a compact array holding
// only the slots that exist.
const NoIndex = -1

// ObjectField is one named child of an object schema. The parent exclusively
// owns the child Schema.
type ObjectField struct {
	Name   string
	Schema *Schema
}

// Spec carries the inputs to New. Exactly one of Scalar, ObjectFields and
// ArrayElem may be set, and only together with a present TypedIdx. Absent
// indices must be NoIndex.
type Spec struct {
	// TypedIdx is the slot of the typed_value representation, or NoIndex when
	// the node is not shredded at this level.
	TypedIdx int
	// VariantIdx is the slot of the generic fallback value, or NoIndex when
	// the node is typed-only.
	VariantIdx int
	// TopLevelMetadataIdx is the slot of the metadata dictionary. Present only
	// at the root of a schema tree; every nested schema must carry NoIndex.
	TopLevelMetadataIdx int
	// NumFields is the number of present slots, between 1 and 3. It must
	// match the indices above.
	NumFields int

	Scalar       ScalarType
	ObjectFields []ObjectField
	ArrayElem    *Schema

	// Encoder overrides the metadata-dictionary encoder used by
	// PromoteToTyped. Nil selects the built-in canonical encoder.
	Encoder MetadataEncoder
}

// Schema is one node of a shredding schema, as described in the variant
// shredding spec. A node holds a generic value slot, an optional typed_value
// slot, and (at the root only) a metadata slot. When the typed_value is an
// array or object it recursively holds schemas for elements and fields.
//
// All structure is fixed at construction. The only mutation is
// PromoteToTyped, which switches the node from generic to typed-only and
// computes the metadata dictionary.
type Schema struct {
	typedIdx            int
	variantIdx          int
	topLevelMetadataIdx int
	numFields           int

	scalar       ScalarType
	objectFields []ObjectField
	// fieldIndex maps a field name to its position in objectFields. Built
	// once at construction and kept in lockstep with objectFields.
	fieldIndex map[string]int
	arrayElem  *Schema

	enc      MetadataEncoder
	metadata []byte
	promoted bool
}

// New validates spec and constructs a schema node. Structural violations
// surface as Issues with code CodeInvalidSchema; there is no partially
// constructed result.
func New(spec Spec) (*Schema, error) {
	payloads := 0
	if spec.Scalar != nil {
		payloads++
	}
	if spec.ObjectFields != nil {
		payloads++
	}
	if spec.ArrayElem != nil {
		payloads++
	}
	if payloads > 1 {
		return nil, Issues{{Path: "/", Code: CodeInvalidSchema,
			Message: "at most one of scalar, object fields and array element may be set"}}
	}
	if payloads > 0 && spec.TypedIdx == NoIndex {
		return nil, Issues{{Path: "/", Code: CodeInvalidSchema,
			Message: "typed kind set without a typed_value slot"}}
	}
	if err := checkSlots(spec); err != nil {
		return nil, err
	}
	if dt, ok := spec.Scalar.(DecimalType); ok {
		if dt.Precision < 1 || dt.Precision > 38 || dt.Scale < 0 || dt.Scale > dt.Precision {
			return nil, Issues{{Path: "/", Code: CodeInvalidSchema,
				Message: fmt.Sprintf("decimal precision/scale out of range: %s", dt),
				Params:  map[string]any{"precision": dt.Precision, "scale": dt.Scale}}}
		}
	}

	s := &Schema{
		typedIdx:            spec.TypedIdx,
		variantIdx:          spec.VariantIdx,
		topLevelMetadataIdx: spec.TopLevelMetadataIdx,
		numFields:           spec.NumFields,
		scalar:              spec.Scalar,
		arrayElem:           spec.ArrayElem,
		enc:                 spec.Encoder,
	}
	if s.enc == nil {
		s.enc = MetadataEncoderFunc(EncodeMetadata)
	}

	if spec.ArrayElem != nil && spec.ArrayElem.topLevelMetadataIdx != NoIndex {
		return nil, Issues{{Path: "/element", Code: CodeInvalidSchema,
			Message: "nested schema carries a metadata slot; metadata exists only at the root"}}
	}
	if spec.ObjectFields != nil {
		s.objectFields = spec.ObjectFields
		s.fieldIndex = make(map[string]int, len(spec.ObjectFields))
		for i, f := range spec.ObjectFields {
			path := fmt.Sprintf("/fields/%d", i)
			if f.Schema == nil {
				return nil, Issues{{Path: path, Code: CodeInvalidSchema,
					Message: fmt.Sprintf("field %q has no schema", f.Name)}}
			}
			if f.Schema.topLevelMetadataIdx != NoIndex {
				return nil, Issues{{Path: path, Code: CodeInvalidSchema,
					Message: "nested schema carries a metadata slot; metadata exists only at the root"}}
			}
			if _, dup := s.fieldIndex[f.Name]; dup {
				return nil, Issues{{Path: path, Code: CodeInvalidSchema,
					Message: fmt.Sprintf("duplicate field name %q", f.Name),
					Params:  map[string]any{"field": f.Name}}}
			}
			s.fieldIndex[f.Name] = i
		}
	}
	return s, nil
}

// checkSlots verifies that NumFields matches the present indices and that
// those indices occupy 0..NumFields-1 exactly.
func checkSlots(spec Spec) error {
	idxs := [3]int{spec.VariantIdx, spec.TypedIdx, spec.TopLevelMetadataIdx}
	present := 0
	var seen [3]bool
	for _, idx := range idxs {
		if idx == NoIndex {
			continue
		}
		if idx < 0 || idx > 2 {
			return Issues{{Path: "/", Code: CodeInvalidSchema,
				Message: fmt.Sprintf("slot index %d out of range", idx)}}
		}
		if seen[idx] {
			return Issues{{Path: "/", Code: CodeInvalidSchema,
				Message: fmt.Sprintf("slot index %d assigned twice", idx)}}
		}
		seen[idx] = true
		present++
	}
	if present == 0 {
		return Issues{{Path: "/", Code: CodeInvalidSchema,
			Message: "schema must have at least one slot"}}
	}
	if spec.NumFields != present {
		return Issues{{Path: "/", Code: CodeInvalidSchema,
			Message: fmt.Sprintf("num_fields is %d but %d slots are present", spec.NumFields, present),
			Params:  map[string]any{"num_fields": spec.NumFields, "present": present}}}
	}
	for i := 0; i < present; i++ {
		if !seen[i] {
			return Issues{{Path: "/", Code: CodeInvalidSchema,
				Message: fmt.Sprintf("present slot indices are not contiguous from 0 (missing %d)", i)}}
		}
	}
	return nil
}

// TypedIdx returns the typed_value slot index, or NoIndex.
func (s *Schema) TypedIdx() int { return s.typedIdx }

// VariantIdx returns the generic value slot index, or NoIndex.
func (s *Schema) VariantIdx() int { return s.variantIdx }

// TopLevelMetadataIdx returns the metadata slot index, or NoIndex. It is
// present only on the root of a schema tree.
func (s *Schema) TopLevelMetadataIdx() int { return s.topLevelMetadataIdx }

// NumFields returns the number of present slots at this node, between 1 and 3.
func (s *Schema) NumFields() int { return s.numFields }

// Scalar returns the scalar type of the typed slot, or nil when the node is
// not a shredded scalar.
func (s *Schema) Scalar() ScalarType { return s.scalar }

// ObjectFields returns the ordered field schemas of a shredded object, or nil.
// The slice is owned by the schema; callers must not modify it.
func (s *Schema) ObjectFields() []ObjectField { return s.objectFields }

// ArrayElem returns the element schema of a shredded array, or nil.
func (s *Schema) ArrayElem() *Schema { return s.arrayElem }

// IsScalar reports whether the typed slot holds a scalar.
func (s *Schema) IsScalar() bool { return s.scalar != nil }

// IsObject reports whether the typed slot holds an object.
func (s *Schema) IsObject() bool { return s.objectFields != nil }

// IsArray reports whether the typed slot holds an array.
func (s *Schema) IsArray() bool { return s.arrayElem != nil }

// FieldPosition returns the position of the named field in ObjectFields.
// Lookup is O(1). The second result is false when the node is not an object
// or the name is unknown; that is not an error.
func (s *Schema) FieldPosition(name string) (int, bool) {
	i, ok := s.fieldIndex[name]
	return i, ok
}

// IsUnshredded reports whether the value is stored entirely in the generic
// fallback representation: the node is the root, the value slot is present
// and the typed slot is absent. Callers are not required to treat such
// schemas specially but may use this for fast paths.
func (s *Schema) IsUnshredded() bool {
	return s.topLevelMetadataIdx >= 0 && s.variantIdx >= 0 && s.typedIdx < 0
}

// PromoteToTyped switches the node from generic to typed-only. It assigns the
// typed slot, drops the generic value slot, and recomputes the metadata
// dictionary from the object field names. Scalar and array nodes encode an
// empty name set; the dictionary is computed unconditionally. This is the
// only mutation a schema supports and runs on the cold construction path;
// it must complete before the tree is shared.
func (s *Schema) PromoteToTyped(typedIdx int) error {
	if typedIdx < 0 {
		return Issues{{Path: "/", Code: CodeInvalidSchema,
			Message: fmt.Sprintf("typed slot index %d out of range", typedIdx)}}
	}
	s.typedIdx = typedIdx
	s.variantIdx = NoIndex
	names := make([]string, len(s.objectFields))
	for i, f := range s.objectFields {
		names[i] = f.Name
	}
	md, err := s.enc.EncodeMetadata(names)
	if err != nil {
		if _, ok := AsIssues(err); ok {
			return err
		}
		return Issues{{Path: "/", Code: CodeMetadataEncoding,
			Message: "metadata encoder failed", Cause: err}}
	}
	s.metadata = md
	s.promoted = true
	return nil
}

// Metadata returns the metadata dictionary computed by the most recent
// PromoteToTyped. Before any promotion it fails with
// CodeMetadataNotComputed rather than returning nil bytes, so misuse stays
// visible. The returned slice is owned by the schema; callers must not
// modify it.
func (s *Schema) Metadata() ([]byte, error) {
	if !s.promoted {
		return nil, Issues{{Path: "/", Code: CodeMetadataNotComputed,
			Message: "metadata not computed; call PromoteToTyped first"}}
	}
	return s.metadata, nil
}

func (s *Schema) String() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "Schema{typedIdx=%d, variantIdx=%d, topLevelMetadataIdx=%d, numFields=%d",
		s.typedIdx, s.variantIdx, s.topLevelMetadataIdx, s.numFields)
	switch {
	case s.IsScalar():
		fmt.Fprintf(b, ", scalar=%s", s.scalar)
	case s.IsObject():
		fmt.Fprintf(b, ", fields=%d", len(s.objectFields))
	case s.IsArray():
		fmt.Fprintf(b, ", array=%s", s.arrayElem)
	}
	b.WriteString("}")
	return b.String()
}
