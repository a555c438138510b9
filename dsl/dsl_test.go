package dsl_test

import (
	"testing"

	variant "github.com/varlab/variant"
	"github.com/varlab/variant/dsl"
)

func TestBuild_AssignsContiguousSlots(t *testing.T) {
	s, err := dsl.Build(dsl.Object().
		Field("a", dsl.Scalar(variant.IntegralType{Size: variant.Int64})).
		Field("b", dsl.Array(dsl.Scalar(variant.StringType{}))).
		WithFallback())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// root: metadata=0, value=1, typed=2
	if s.TopLevelMetadataIdx() != 0 || s.VariantIdx() != 1 || s.TypedIdx() != 2 || s.NumFields() != 3 {
		t.Fatalf("root slots = %d/%d/%d numFields=%d",
			s.TopLevelMetadataIdx(), s.VariantIdx(), s.TypedIdx(), s.NumFields())
	}

	pos, ok := s.FieldPosition("b")
	if !ok {
		t.Fatalf("field b missing")
	}
	b := s.ObjectFields()[pos].Schema
	// nested typed-only: single slot at 0, no metadata
	if b.TypedIdx() != 0 || b.VariantIdx() != variant.NoIndex ||
		b.TopLevelMetadataIdx() != variant.NoIndex || b.NumFields() != 1 {
		t.Fatalf("nested slots = %d/%d/%d numFields=%d",
			b.TopLevelMetadataIdx(), b.VariantIdx(), b.TypedIdx(), b.NumFields())
	}
	elem := b.ArrayElem()
	if _, okS := elem.Scalar().(variant.StringType); !okS {
		t.Fatalf("element scalar = %v", elem.Scalar())
	}
}

func TestBuild_NestedFallbackKeepsValueSlot(t *testing.T) {
	s, err := dsl.Build(dsl.Object().
		Field("a", dsl.Scalar(variant.DoubleType{}).WithFallback()))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pos, _ := s.FieldPosition("a")
	a := s.ObjectFields()[pos].Schema
	if a.VariantIdx() != 0 || a.TypedIdx() != 1 || a.NumFields() != 2 {
		t.Fatalf("fallback field slots = value=%d typed=%d numFields=%d",
			a.VariantIdx(), a.TypedIdx(), a.NumFields())
	}
}

func TestUnshredded(t *testing.T) {
	s, err := dsl.Unshredded()
	if err != nil {
		t.Fatalf("Unshredded: %v", err)
	}
	if !s.IsUnshredded() {
		t.Fatalf("schema not unshredded: %v", s)
	}
	if s.TopLevelMetadataIdx() != 0 || s.VariantIdx() != 1 || s.NumFields() != 2 {
		t.Fatalf("unshredded slots = %d/%d numFields=%d",
			s.TopLevelMetadataIdx(), s.VariantIdx(), s.NumFields())
	}
}

func TestBuild_UntypedField(t *testing.T) {
	s, err := dsl.Build(dsl.Object().
		Field("keep", dsl.Untyped()))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pos, _ := s.FieldPosition("keep")
	keep := s.ObjectFields()[pos].Schema
	if keep.TypedIdx() != variant.NoIndex || keep.VariantIdx() != 0 || keep.NumFields() != 1 {
		t.Fatalf("untyped field slots = typed=%d value=%d numFields=%d",
			keep.TypedIdx(), keep.VariantIdx(), keep.NumFields())
	}
	if keep.IsUnshredded() {
		t.Fatalf("nested untyped node must not report unshredded")
	}
}

func TestBuild_ErrorsCarryFieldPaths(t *testing.T) {
	_, err := dsl.Build(dsl.Object().
		Field("outer", dsl.Object().
			Field("x", dsl.Scalar(variant.StringType{})).
			Field("x", dsl.Scalar(variant.BooleanType{}))))
	if !variant.HasCode(err, variant.CodeInvalidSchema) {
		t.Fatalf("expected invalid_schema, got %v", err)
	}
	iss, _ := variant.AsIssues(err)
	if got := iss[0].Path; got != "/outer/fields/1" {
		t.Fatalf("issue path = %q, want /outer/fields/1", got)
	}
}

func TestBuild_RejectsMisuse(t *testing.T) {
	if _, err := dsl.Build(dsl.Scalar(nil)); !variant.HasCode(err, variant.CodeInvalidSchema) {
		t.Errorf("Scalar(nil): expected invalid_schema, got %v", err)
	}
	if _, err := dsl.Build(dsl.Array(nil)); !variant.HasCode(err, variant.CodeInvalidSchema) {
		t.Errorf("Array(nil): expected invalid_schema, got %v", err)
	}
	if _, err := dsl.Build(dsl.Scalar(variant.StringType{}).Field("a", dsl.Untyped())); !variant.HasCode(err, variant.CodeInvalidSchema) {
		t.Errorf("Field on scalar: expected invalid_schema, got %v", err)
	}
}

func TestMustBuild_PanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	dsl.MustBuild(dsl.Scalar(nil))
}
