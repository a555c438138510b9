package metabin_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/varlab/variant/internal/metabin"
)

func TestEncode_EmptySet(t *testing.T) {
	md, err := metabin.Encode(nil)
	if err != nil {
		t.Fatalf("Encode(nil): %v", err)
	}
	// header, dictionary size 0, terminal offset 0
	if want := []byte{0x11, 0x00, 0x00}; !bytes.Equal(md, want) {
		t.Fatalf("empty dictionary = %x, want %x", md, want)
	}
	d, err := metabin.Parse(md)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Len() != 0 {
		t.Fatalf("Len = %d, want 0", d.Len())
	}
}

func TestEncode_CanonicalAcrossOrderAndDuplicates(t *testing.T) {
	a, err := metabin.Encode([]string{"b", "a", "c"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := metabin.Encode([]string{"c", "a", "b", "a"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("blobs differ:\n%x\n%x", a, b)
	}

	d, err := metabin.Parse(a)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("Len = %d, want 3", d.Len())
	}
	for i, want := range []string{"a", "b", "c"} {
		got, err := d.Name(i)
		if err != nil || got != want {
			t.Errorf("Name(%d) = %q,%v want %q", i, got, err, want)
		}
		pos, ok := d.Position(want)
		if !ok || pos != i {
			t.Errorf("Position(%q) = %d,%v want %d", want, pos, ok, i)
		}
	}
	if _, ok := d.Position("zz"); ok {
		t.Errorf("unknown name resolved a position")
	}
	if _, err := d.Name(3); err == nil {
		t.Errorf("out-of-range Name did not fail")
	}
}

func TestEncode_WideOffsets(t *testing.T) {
	long := strings.Repeat("x", 300)
	md, err := metabin.Encode([]string{"a", long})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// total string bytes exceed 255, so offsets take two bytes each
	if md[0]>>6 != 1 {
		t.Fatalf("header offset size bits = %d, want 1 (two-byte offsets)", md[0]>>6)
	}
	d, err := metabin.Parse(md)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, _ := d.Name(1); got != long {
		t.Fatalf("long name not preserved (len %d)", len(got))
	}
}

func TestEncode_RejectsInvalidUTF8(t *testing.T) {
	if _, err := metabin.Encode([]string{"ok", string([]byte{0xff, 0xfe})}); err == nil {
		t.Fatalf("expected error for invalid UTF-8 name")
	}
}

func TestParse_RejectsMalformedBlobs(t *testing.T) {
	for _, tc := range [][]byte{
		nil,
		{0x12},             // unsupported version
		{0x11, 0x02, 0x00}, // truncated offsets
	} {
		if _, err := metabin.Parse(tc); err == nil {
			t.Errorf("Parse(%x) did not fail", tc)
		}
	}
}
