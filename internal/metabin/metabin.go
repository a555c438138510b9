// Package metabin implements the binary metadata dictionary of the variant
// format: a version header, a dictionary size, monotonically increasing
// offsets and the concatenated UTF-8 bytes of the dictionary strings, all
// little-endian. Encoding always sorts and de-duplicates the names, so the
// produced blob is canonical with respect to the name set.
package metabin

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"unicode/utf8"
)

const (
	versionMask = 0b1111
	sortedBit   = 0b10000

	// maxDictionaryBytes bounds the total size of the dictionary strings; the
	// format addresses offsets with at most four bytes.
	maxDictionaryBytes = math.MaxUint32
)

// Encode builds the canonical metadata dictionary for the given field names.
// The input is treated as a set: names are sorted and duplicates collapse.
// An empty set encodes to a valid, non-empty blob.
func Encode(names []string) ([]byte, error) {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	dedup := sorted[:0]
	for i, name := range sorted {
		if !utf8.ValidString(name) {
			return nil, fmt.Errorf("metabin: field name %q is not valid UTF-8", name)
		}
		if i > 0 && name == sorted[i-1] {
			continue
		}
		dedup = append(dedup, name)
	}

	var totalSize int
	for _, name := range dedup {
		totalSize += len(name)
	}
	if totalSize > maxDictionaryBytes {
		return nil, fmt.Errorf("metabin: dictionary too large: %d bytes", totalSize)
	}
	maxValue := totalSize
	if maxValue < len(dedup) {
		// only possible when the empty string is a key and all others have length 1
		maxValue = len(dedup)
	}
	offsetSize, appendOffset := offsetWriter(maxValue)

	out := make([]byte, 1, 1+(len(dedup)+2)*offsetSize+totalSize)
	out[0] = 1 | // version
		sortedBit |
		(byte(offsetSize-1) << 6)
	out = appendOffset(out, len(dedup))
	var offset int
	for _, name := range dedup {
		out = appendOffset(out, offset)
		offset += len(name)
	}
	out = appendOffset(out, offset)
	for _, name := range dedup {
		out = append(out, name...)
	}
	return out, nil
}

func offsetWriter(maxValue int) (int, func([]byte, int) []byte) {
	switch {
	case maxValue > math.MaxUint16:
		return 4, appendUint32
	case maxValue > math.MaxUint8:
		return 2, appendUint16
	default:
		return 1, appendUint8
	}
}

func appendUint32(data []byte, val int) []byte {
	return binary.LittleEndian.AppendUint32(data, uint32(val))
}

func appendUint16(data []byte, val int) []byte {
	return binary.LittleEndian.AppendUint16(data, uint16(val))
}

func appendUint8(data []byte, val int) []byte {
	return append(data, uint8(val))
}

// Dictionary reads a metadata blob produced by Encode (or any conforming
// writer). All accessors are bounds-checked; a malformed blob surfaces as an
// error from Parse, never as a panic later.
type Dictionary struct {
	names  []string
	sorted bool
}

// Parse validates the blob layout and materializes the dictionary strings.
func Parse(data []byte) (*Dictionary, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("metabin: empty metadata blob")
	}
	header := data[0]
	if v := header & versionMask; v != 1 {
		return nil, fmt.Errorf("metabin: unsupported metadata version %d", v)
	}
	sorted := header&sortedBit != 0
	offsetSize := int(header>>6) + 1
	pos := 1

	readOffset := func() (int, error) {
		if pos+offsetSize > len(data) {
			return 0, fmt.Errorf("metabin: truncated metadata blob at byte %d", pos)
		}
		var v int
		switch offsetSize {
		case 1:
			v = int(data[pos])
		case 2:
			v = int(binary.LittleEndian.Uint16(data[pos:]))
		case 3:
			v = int(data[pos]) | int(data[pos+1])<<8 | int(data[pos+2])<<16
		case 4:
			v = int(binary.LittleEndian.Uint32(data[pos:]))
		}
		pos += offsetSize
		return v, nil
	}

	count, err := readOffset()
	if err != nil {
		return nil, err
	}
	offsets := make([]int, count+1)
	for i := range offsets {
		offsets[i], err = readOffset()
		if err != nil {
			return nil, err
		}
	}
	bytesStart := pos
	prev := 0
	names := make([]string, count)
	for i := 0; i < count; i++ {
		start, end := offsets[i], offsets[i+1]
		if start != prev || end < start || bytesStart+end > len(data) {
			return nil, fmt.Errorf("metabin: invalid string offsets %d..%d", start, end)
		}
		names[i] = string(data[bytesStart+start : bytesStart+end])
		prev = end
	}
	return &Dictionary{names: names, sorted: sorted}, nil
}

// Len returns the number of dictionary entries.
func (d *Dictionary) Len() int { return len(d.names) }

// Name returns the dictionary string at position i.
func (d *Dictionary) Name(i int) (string, error) {
	if i < 0 || i >= len(d.names) {
		return "", fmt.Errorf("metabin: dictionary index %d out of range (size %d)", i, len(d.names))
	}
	return d.names[i], nil
}

// Position returns the dictionary index of the given name, using binary
// search when the blob carries the sorted flag.
func (d *Dictionary) Position(name string) (int, bool) {
	if d.sorted {
		i := sort.SearchStrings(d.names, name)
		if i < len(d.names) && d.names[i] == name {
			return i, true
		}
		return 0, false
	}
	for i, n := range d.names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Names returns the dictionary strings in position order.
func (d *Dictionary) Names() []string { return d.names }
