package mib

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxOIDLen bounds the number of sub-identifiers in a registered OID.
const MaxOIDLen = 128

// OID is an object identifier as a sequence of sub-identifiers.
type OID []uint32

// ParseOID parses a dotted OID string. A leading dot is accepted.
func ParseOID(s string) (OID, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), ".")
	if s == "" {
		return nil, fmt.Errorf("%w: empty OID", ErrInvalidOID)
	}

	parts := strings.Split(s, ".")
	if len(parts) > MaxOIDLen {
		return nil, fmt.Errorf("%w: %d sub-identifiers exceeds limit of %d", ErrInvalidOID, len(parts), MaxOIDLen)
	}

	oid := make(OID, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty sub-identifier in %q", ErrInvalidOID, s)
		}
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: sub-identifier %q: %v", ErrInvalidOID, part, err)
		}
		oid = append(oid, uint32(n))
	}
	return oid, nil
}

// MustParseOID is like ParseOID but panics on error. It is meant for
// package-level literals.
func MustParseOID(s string) OID {
	oid, err := ParseOID(s)
	if err != nil {
		panic(err)
	}
	return oid
}

// String formats the OID in dotted notation without a leading dot.
func (o OID) String() string {
	var b strings.Builder
	for i, arc := range o {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(uint64(arc), 10))
	}
	return b.String()
}

// Equal reports whether o and other hold the same sub-identifiers.
func (o OID) Equal(other OID) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading part of o.
func (o OID) HasPrefix(prefix OID) bool {
	return len(prefix) <= len(o) && o[:len(prefix)].Equal(prefix)
}

// Compare orders OIDs lexicographically, a shorter OID sorting before any
// OID it is a prefix of. It returns -1, 0 or +1.
func (o OID) Compare(other OID) int {
	n := min(len(o), len(other))
	for i := 0; i < n; i++ {
		switch {
		case o[i] < other[i]:
			return -1
		case o[i] > other[i]:
			return 1
		}
	}
	switch {
	case len(o) < len(other):
		return -1
	case len(o) > len(other):
		return 1
	}
	return 0
}

// Append returns a new OID with arcs added to the end of o.
func (o OID) Append(arcs ...uint32) OID {
	out := make(OID, 0, len(o)+len(arcs))
	out = append(out, o...)
	return append(out, arcs...)
}

// Clone returns a copy of o that shares no storage with it.
func (o OID) Clone() OID {
	if o == nil {
		return nil
	}
	return append(OID(nil), o...)
}

// paddedPrefixEqual compares the first n sub-identifiers of a and b,
// treating positions past the end of either OID as 0.
func paddedPrefixEqual(a, b OID, n int) bool {
	for i := 0; i < n; i++ {
		var x, y uint32
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x != y {
			return false
		}
	}
	return true
}
