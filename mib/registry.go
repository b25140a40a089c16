// Package mib provides the PROFTPD-MIB object registry and OID resolution
// engine used by the server's SNMP agent.
//
// The registry holds an ordered, immutable table of scalar objects together
// with a per-entry enabled flag. It answers exact lookups for SNMP Get and
// nearest-match lookups for SNMP GetNext, activates optional subtrees once
// at startup depending on which server features are loaded, and resets the
// counter objects on demand. Values themselves live in an external Storage.
//
// Basic Usage:
//
//	reg, err := mib.NewDefault(store.New())
//	if err != nil {
//		return err
//	}
//	if err := reg.Initialize(mib.NewFeatures(mib.FeatureTLS)); err != nil {
//		return err
//	}
//
//	entry, lacksInstanceID, err := reg.Lookup(mib.MustParseOID("1.3.6.1.4.1.17852.2.2.2.7.0"))
//	switch {
//	case errors.Is(err, mib.ErrNotFound):
//		// noSuchObject
//	case lacksInstanceID:
//		// noSuchInstance: the request named the object, not its ".0" instance
//	default:
//		// read entry.Field from storage
//	}
//
// Concurrency:
//
// Initialize must return before lookups start on other goroutines; the
// registry does not enforce this. Once initialized, every lookup is a
// read-only scan and needs no locking. ResetCounters only touches storage.
package mib

import (
	"errors"
	"fmt"
	"iter"

	"github.com/geekxflood/ftpmib/logging"
)

// Trace verbosity levels on the snmp.mib channel.
const (
	traceLookup = 19
	traceReset  = 17
	traceInit   = 9
)

// Storage is the value store behind the registry's fields.
type Storage interface {
	// Value returns the current value of a field.
	Value(field Field) (any, error)

	// Reset restores a field to its zero value.
	Reset(field Field) error

	// Subsystem returns the group a field belongs to.
	Subsystem(field Field) Subsystem
}

// Registry is the ordered PROFTPD-MIB table plus its enabled state.
type Registry struct {
	entries  []Entry
	enabled  []bool
	maxIndex int

	storage Storage
	logger  logging.Logger
	tracer  *logging.Tracer
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New builds a registry over entries, which must already be in their
// curated order. Entries whose subsystem is not optional are enabled
// immediately; the rest wait for Initialize.
func New(entries []Entry, storage Storage, opts ...Option) (*Registry, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}
	if err := validateTable(entries); err != nil {
		return nil, err
	}

	r := &Registry{
		entries:  make([]Entry, len(entries)),
		enabled:  make([]bool, len(entries)),
		maxIndex: len(entries) - 1,
		storage:  storage,
		logger:   logging.NewComponentLogger("mib", "registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.tracer = logging.NewTracer(logging.ChannelMIB, r.logger)

	for i, e := range entries {
		e.OID = e.OID.Clone()
		r.entries[i] = e
		r.enabled[i] = !storage.Subsystem(e.Field).IsOptional()
	}

	return r, nil
}

// NewDefault builds a registry over DefaultTable.
func NewDefault(storage Storage, opts ...Option) (*Registry, error) {
	return New(DefaultTable(), storage, opts...)
}

// validateTable checks the shape and ordering invariants that the matcher
// relies on. It never reorders entries.
func validateTable(entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidTable)
	}

	seen := make(map[string]int, len(entries))
	var prev OID
	for i, e := range entries {
		switch {
		case len(e.OID) == 0:
			return fmt.Errorf("%w: entry %d (%s) has an empty OID", ErrInvalidTable, i, e.Name)
		case len(e.OID) > MaxOIDLen:
			return fmt.Errorf("%w: entry %d (%s) exceeds %d sub-identifiers", ErrInvalidTable, i, e.Name, MaxOIDLen)
		case e.OID[len(e.OID)-1] != InstanceSuffix:
			return fmt.Errorf("%w: entry %d (%s) does not end in instance identifier %d", ErrInvalidTable, i, e.Name, InstanceSuffix)
		}

		key := e.OID.String()
		if j, dup := seen[key]; dup {
			return fmt.Errorf("%w: entries %d and %d share OID %s", ErrInvalidTable, j, i, key)
		}
		seen[key] = i

		if !e.OID.HasPrefix(BaseOID) {
			continue
		}
		if prev != nil && prev.Compare(e.OID) >= 0 {
			return fmt.Errorf("%w: entry %d (%s) at %s is not after %s", ErrInvalidTable, i, e.Name, e.OID, prev)
		}
		prev = e.OID
	}
	return nil
}

// =============================================================================
// Accessors
// =============================================================================

// Len returns the number of entries in the table.
func (r *Registry) Len() int {
	return len(r.entries)
}

// MaxIndex returns the highest valid index. It is fixed at construction
// and does not depend on which entries are enabled.
func (r *Registry) MaxIndex() int {
	return r.maxIndex
}

// Entry returns the entry at idx whether or not it is enabled.
func (r *Registry) Entry(idx int) (Entry, error) {
	if idx < 0 || idx > r.maxIndex {
		return Entry{}, fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidIndex, idx, r.maxIndex)
	}
	return r.entries[idx], nil
}

// Enabled reports whether the entry at idx is visible to lookups.
func (r *Registry) Enabled(idx int) bool {
	return idx >= 0 && idx < len(r.enabled) && r.enabled[idx]
}

// All iterates over every entry in table order, enabled or not.
func (r *Registry) All() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range r.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// EnabledEntries iterates over the enabled entries in table order.
func (r *Registry) EnabledEntries() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range r.entries {
			if !r.enabled[i] {
				continue
			}
			if !yield(i, e) {
				return
			}
		}
	}
}

// Lookup resolves oid to its entry. When the only match is an entry whose
// OID is oid plus an instance identifier, that entry is returned with
// lacksInstanceID set.
func (r *Registry) Lookup(oid OID) (Entry, bool, error) {
	idx, lacksInstanceID, err := r.ExactIndex(oid)
	if err != nil {
		return Entry{}, false, err
	}
	e, err := r.Entry(idx)
	if err != nil {
		return Entry{}, false, err
	}
	return e, lacksInstanceID, nil
}

// LookupNearest resolves oid with NearestIndex.
func (r *Registry) LookupNearest(oid OID) (Entry, error) {
	idx, err := r.NearestIndex(oid)
	if err != nil {
		return Entry{}, err
	}
	return r.Entry(idx)
}

// Storage returns the registry's storage collaborator.
func (r *Registry) Storage() Storage {
	return r.storage
}

// =============================================================================
// Enablement and reset
// =============================================================================

// Initialize enables the entries of every optional subsystem whose server
// feature is loaded. It never disables an entry, so calling it again with
// the same features changes nothing.
func (r *Registry) Initialize(features FeatureSet) error {
	if features == nil {
		return ErrNilFeatureSet
	}

	loaded := map[string]bool{}
	enabled := 0
	for i, e := range r.entries {
		if r.enabled[i] {
			continue
		}
		feature := r.storage.Subsystem(e.Field).Feature()
		if feature == "" {
			continue
		}
		ok, checked := loaded[feature]
		if !checked {
			ok = features.IsFeatureLoaded(feature)
			loaded[feature] = ok
		}
		if !ok {
			continue
		}
		r.enabled[i] = true
		enabled++
		r.tracer.Trace(traceInit, "enabled MIB entry", "name", e.InstanceName, "feature", feature)
	}

	r.logger.Info("MIB registry initialized", "enabled", enabled, "entries", len(r.entries))
	return nil
}

// ResetCounters resets every enabled Counter32 and Counter64 entry except
// daemon.restartCount. A storage failure does not stop the pass; all
// failures are returned joined.
func (r *Registry) ResetCounters() error {
	var errs []error
	for i, e := range r.entries {
		if !r.enabled[i] || !e.Type.IsCounter() {
			continue
		}
		if e.OID.Equal(RestartCountOID) {
			continue
		}

		r.tracer.Trace(traceReset, "resetting counter", "name", e.InstanceName)
		if err := r.storage.Reset(e.Field); err != nil {
			r.logger.Warn("failed to reset counter", "name", e.InstanceName, "field", uint32(e.Field), "error", err)
			errs = append(errs, fmt.Errorf("reset %s: %w", e.InstanceName, err))
		}
	}
	return errors.Join(errs...)
}
