package variant

import (
	"github.com/varlab/variant/internal/metabin"
)

// MetadataEncoder canonicalizes a set of object field names into the binary
// metadata dictionary. The blob is opaque to this package; it only has to be
// deterministic with respect to the name set. Implementations must accept an
// empty set.
type MetadataEncoder interface {
	EncodeMetadata(names []string) ([]byte, error)
}

// MetadataEncoderFunc adapts a function to the MetadataEncoder interface.
type MetadataEncoderFunc func(names []string) ([]byte, error)

func (f MetadataEncoderFunc) EncodeMetadata(names []string) ([]byte, error) { return f(names) }

// EncodeMetadata is the built-in encoder: it produces the canonical sorted
// metadata dictionary of the variant binary format. Insertion order does not
// affect the output. The implementation delegates to internal/metabin.
func EncodeMetadata(names []string) ([]byte, error) {
	md, err := metabin.Encode(names)
	if err != nil {
		return nil, Issues{{Path: "/", Code: CodeMetadataEncoding,
			Message: "cannot encode metadata dictionary", Cause: err}}
	}
	return md, nil
}
