// Package dsl provides fluent builders for shredding schema trees. Builders
// assign the contiguous slot indices (metadata first at the root, then the
// generic value slot, then typed_value) and construct validated variant.Schema
// nodes bottom-up.
package dsl

import (
	variant "github.com/varlab/variant"
)

type field struct {
	name string
	node *Node
}

// Node is one unbuilt schema node. Nodes are assembled with Scalar, Array,
// Object and Untyped, optionally adjusted with WithFallback, and turned into
// a *variant.Schema by Build.
type Node struct {
	scalar   variant.ScalarType
	elem     *Node
	fields   []field
	isObject bool
	untyped  bool
	fallback bool
}

// Scalar creates a node whose typed slot holds the given scalar type.
func Scalar(st variant.ScalarType) *Node {
	return &Node{scalar: st}
}

// Array creates a node whose typed slot holds an array with the given
// element schema.
func Array(elem *Node) *Node {
	return &Node{elem: elem}
}

// Object creates a node whose typed slot holds an object. Add children with
// Field; field order is the registration order.
func Object() *Node {
	return &Node{isObject: true}
}

// Untyped creates a node with no typed slot: the value is kept entirely in
// the generic fallback representation at this level.
func Untyped() *Node {
	return &Node{untyped: true}
}

// Field registers a named child on an object node and returns the node for
// chaining. Calling Field on a non-object node surfaces at Build.
func (n *Node) Field(name string, child *Node) *Node {
	n.fields = append(n.fields, field{name: name, node: child})
	return n
}

// WithFallback keeps the generic value slot alongside the typed slot, so
// values that do not fit the typed representation can fall back. No effect
// on untyped nodes, which always have the value slot.
func (n *Node) WithFallback() *Node {
	n.fallback = true
	return n
}

// Build finalizes the tree rooted at n. The root receives the metadata slot;
// every nested node is built without one. Construction errors carry paths
// into the tree by field name ("/a/b") or "/element" for array elements.
func Build(root *Node) (*variant.Schema, error) {
	return build(root, true, "")
}

// MustBuild is Build, panicking on error. Intended for statically known
// schemas in tests and examples.
func MustBuild(root *Node) *variant.Schema {
	s, err := Build(root)
	if err != nil {
		panic(err)
	}
	return s
}

// Unshredded builds a root schema with only the metadata and generic value
// slots: no structural shredding at any level.
func Unshredded() (*variant.Schema, error) {
	return Build(Untyped())
}

func build(n *Node, isRoot bool, path string) (*variant.Schema, error) {
	at := path
	if at == "" {
		at = "/"
	}
	if n == nil {
		return nil, variant.Issues{{Path: at, Code: variant.CodeInvalidSchema,
			Message: "nil node"}}
	}
	if !n.isObject && len(n.fields) > 0 {
		return nil, variant.Issues{{Path: at, Code: variant.CodeInvalidSchema,
			Message: "Field used on a non-object node"}}
	}
	if !n.untyped && !n.isObject && n.elem == nil && n.scalar == nil {
		return nil, variant.Issues{{Path: at, Code: variant.CodeInvalidSchema,
			Message: "scalar node has no scalar type"}}
	}

	spec := variant.Spec{
		TypedIdx:            variant.NoIndex,
		VariantIdx:          variant.NoIndex,
		TopLevelMetadataIdx: variant.NoIndex,
	}

	idx := 0
	if isRoot {
		spec.TopLevelMetadataIdx = idx
		idx++
	}
	if n.untyped || n.fallback {
		spec.VariantIdx = idx
		idx++
	}
	if !n.untyped {
		spec.TypedIdx = idx
		idx++
	}
	spec.NumFields = idx

	switch {
	case n.isObject:
		fields := make([]variant.ObjectField, 0, len(n.fields))
		for _, f := range n.fields {
			child, err := build(f.node, false, path+"/"+f.name)
			if err != nil {
				return nil, err
			}
			fields = append(fields, variant.ObjectField{Name: f.name, Schema: child})
		}
		spec.ObjectFields = fields
	case n.elem != nil:
		child, err := build(n.elem, false, path+"/element")
		if err != nil {
			return nil, err
		}
		spec.ArrayElem = child
	case n.scalar != nil:
		spec.Scalar = n.scalar
	}

	s, err := variant.New(spec)
	if err != nil {
		if path != "" {
			return nil, variant.PrefixIssues(err, path)
		}
		return nil, err
	}
	return s, nil
}
