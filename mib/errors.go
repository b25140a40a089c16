package mib

import "errors"

var (
	// ErrNotFound is returned when an OID addresses no enabled entry. It is
	// an ordinary lookup outcome, not a fault.
	ErrNotFound = errors.New("mib: no such object")

	// ErrInvalidIndex is returned when an index lies outside the table.
	ErrInvalidIndex = errors.New("mib: invalid index")

	// ErrInvalidOID is returned for malformed or oversized OIDs.
	ErrInvalidOID = errors.New("mib: invalid OID")

	// ErrInvalidTable is returned by New when the entry table violates an
	// ordering or shape invariant.
	ErrInvalidTable = errors.New("mib: invalid table")

	// ErrNilStorage is returned by New when no storage collaborator is given.
	ErrNilStorage = errors.New("mib: nil storage")

	// ErrNilFeatureSet is returned by Initialize when no feature set is given.
	ErrNilFeatureSet = errors.New("mib: nil feature set")
)
