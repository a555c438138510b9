package variant

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// CodeInvalidSchema marks a structural contract violation at construction:
	// a typed-kind payload without a typed slot, more than one payload kind,
	// a field-count/index mismatch, or a duplicate object field name.
	CodeInvalidSchema = "invalid_schema"
	// CodeMetadataEncoding marks a failure of the metadata-dictionary encoder
	// on otherwise valid input. Deterministic; retrying will not change it.
	CodeMetadataEncoding = "metadata_encoding"
	// CodeMetadataNotComputed is returned by Metadata() before any
	// PromoteToTyped call.
	CodeMetadataNotComputed = "metadata_not_computed"
	// Codes produced by the codec/ and derive/ packages.
	CodeParseError  = "parse_error"
	CodeUnknownKind = "unknown_kind"
)

// Issue represents a single schema error entry.
type Issue struct {
	Path    string // Pointer-style path into the tree or document (for example: /fields/2/schema).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g., {"field":"x"}) for
	// observability and assertions.
	Params map[string]any
}

// Issues is a collection of schema errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_schema at /fields/2
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries at least one Issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// PrefixIssues rebases every issue path under the given prefix. Used when a
// child schema's issues are reported from a parent context.
func PrefixIssues(err error, prefix string) error {
	iss, ok := AsIssues(err)
	if !ok {
		return err
	}
	out := make(Issues, len(iss))
	for i, it := range iss {
		p := it.Path
		if p == "/" || p == "" {
			p = prefix
		} else {
			p = prefix + p
		}
		it.Path = p
		out[i] = it
	}
	return out
}
