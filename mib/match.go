package mib

// ExactIndex returns the index of the enabled entry whose OID equals oid.
//
// When no entry matches exactly but an enabled entry's OID is oid with one
// more trailing sub-identifier, that entry's index is returned with
// lacksInstanceID set: the caller asked for the object rather than its
// instance. Disabled entries never match.
func (r *Registry) ExactIndex(oid OID) (idx int, lacksInstanceID bool, err error) {
	if len(oid) == 0 || len(oid) > MaxOIDLen {
		return -1, false, ErrNotFound
	}

	for i, e := range r.entries {
		if r.enabled[i] && e.OID.Equal(oid) {
			r.tracer.Trace(traceLookup, "exact match", "oid", oid, "name", e.InstanceName)
			return i, false, nil
		}
	}

	for i, e := range r.entries {
		if r.enabled[i] && len(e.OID) == len(oid)+1 && e.OID.HasPrefix(oid) {
			r.tracer.Trace(traceLookup, "match without instance identifier", "oid", oid, "name", e.InstanceName)
			return i, true, nil
		}
	}

	return -1, false, ErrNotFound
}

// NearestIndex returns the entry a GetNext walk should continue from.
//
// An OID addressing the module arc, or one of its two parent arcs, yields
// the first entry so that a walk restarts at the top of the table. A longer
// OID yields the first enabled entry, in table order, sharing a prefix with
// it: the prefix length runs from the longer of the two lengths down to the
// shorter, with sub-identifiers past the end of the shorter OID reading as
// 0. The result is table-order-first, not lexicographically nearest.
func (r *Registry) NearestIndex(oid OID) (int, error) {
	n := len(oid)
	if n < BaseLen-2 || n > MaxOIDLen {
		return -1, ErrNotFound
	}

	if n <= BaseLen {
		if oid.Equal(BaseOID[:n]) {
			r.tracer.Trace(traceLookup, "module arc requested, restarting at first entry", "oid", oid)
			return 0, nil
		}
		return -1, ErrNotFound
	}

	for i, e := range r.entries {
		if !r.enabled[i] {
			continue
		}

		longer, shorter := n, len(e.OID)
		if shorter > longer {
			longer, shorter = shorter, longer
		}
		for length := longer; length >= shorter; length-- {
			if paddedPrefixEqual(e.OID, oid, length) {
				r.tracer.Trace(traceLookup, "nearest match", "oid", oid, "name", e.InstanceName, "prefix_len", length)
				return i, nil
			}
		}
	}

	return -1, ErrNotFound
}

// NextEnabled returns the index of the first enabled entry after idx, or
// ErrNotFound at the end of the table.
func (r *Registry) NextEnabled(idx int) (int, error) {
	for i := max(idx+1, 0); i < len(r.entries); i++ {
		if r.enabled[i] {
			return i, nil
		}
	}
	return -1, ErrNotFound
}
