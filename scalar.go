package variant

import "fmt"

// ScalarType identifies the concrete primitive representation held by a typed
// slot. The set is closed; consumers dispatch with a type switch over the
// concrete types below and need no default downcast path.
type ScalarType interface {
	scalarType()
	String() string
}

// IntegralSize selects the width of an IntegralType.
type IntegralSize int

const (
	Int8 IntegralSize = iota
	Int16
	Int32
	Int64
)

// Bits returns the width of the integral representation in bits.
func (s IntegralSize) Bits() int {
	switch s {
	case Int8:
		return 8
	case Int16:
		return 16
	case Int32:
		return 32
	case Int64:
		return 64
	default:
		return 0
	}
}

func (s IntegralSize) String() string {
	switch s {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return fmt.Sprintf("IntegralSize(%d)", int(s))
	}
}

// StringType is a UTF-8 string.
type StringType struct{}

// IntegralType is a signed integer of the given size.
type IntegralType struct {
	Size IntegralSize
}

// FloatType is a 32-bit IEEE 754 float.
type FloatType struct{}

// DoubleType is a 64-bit IEEE 754 float.
type DoubleType struct{}

// BooleanType is a boolean.
type BooleanType struct{}

// BinaryType is an uninterpreted byte sequence.
type BinaryType struct{}

// DecimalType is a fixed-point decimal. Precision must be in [1, 38] and
// Scale in [0, Precision]; New enforces the bounds.
type DecimalType struct {
	Precision int
	Scale     int
}

// DateType is a calendar date with no time component.
type DateType struct{}

// TimestampType is an instant adjusted to UTC.
type TimestampType struct{}

// TimestampNTZType is a local timestamp with no timezone.
type TimestampNTZType struct{}

// UUIDType is a 16-byte UUID.
type UUIDType struct{}

func (StringType) scalarType()       {}
func (IntegralType) scalarType()     {}
func (FloatType) scalarType()        {}
func (DoubleType) scalarType()       {}
func (BooleanType) scalarType()      {}
func (BinaryType) scalarType()       {}
func (DecimalType) scalarType()      {}
func (DateType) scalarType()         {}
func (TimestampType) scalarType()    {}
func (TimestampNTZType) scalarType() {}
func (UUIDType) scalarType()         {}

func (StringType) String() string     { return "string" }
func (t IntegralType) String() string { return t.Size.String() }
func (FloatType) String() string      { return "float" }
func (DoubleType) String() string     { return "double" }
func (BooleanType) String() string    { return "boolean" }
func (BinaryType) String() string     { return "binary" }
func (t DecimalType) String() string {
	return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
}
func (DateType) String() string         { return "date" }
func (TimestampType) String() string    { return "timestamp" }
func (TimestampNTZType) String() string { return "timestamp_ntz" }
func (UUIDType) String() string         { return "uuid" }
