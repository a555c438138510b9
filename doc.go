package variant

// Package variant provides:
//
// - The in-memory shredding schema for variant values (Schema, ObjectField, ScalarType)
// - A stable error model via Issues (path, code, message)
// - Canonical binary metadata-dictionary encoding for object field names
// - Builders under dsl/, textual schema descriptions under codec/, inference under derive/
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place builders under dsl/, codecs under codec/, and the CLI under cmd/varshred.
// - Prefer black-box testing against public APIs.
//
// A Schema describes, per nesting level, which of the value, typed_value and
// metadata slots exist and how a composite typed_value recurses into element
// and field schemas. Trees are built bottom-up and are immutable afterwards
// except for the single PromoteToTyped transition; a fully built tree is safe
// for unsynchronized concurrent reads.
