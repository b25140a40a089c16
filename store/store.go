// Package store holds the values behind the PROFTPD-MIB fields.
//
// A Store is created with every field the MIB table references. Numeric
// fields are updated with atomics so traffic handlers can bump counters
// without contending; string fields sit behind a mutex. The field set is
// fixed at construction.
//
//	s := store.New()
//	s.Incr(mib.FieldFTPSessTotal, 1)
//	s.SetString(mib.FieldDaemonSoftware, "proftpd")
//
//	reg, err := mib.NewDefault(s)
package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/geekxflood/ftpmib/logging"
	"github.com/geekxflood/ftpmib/mib"
)

var (
	// ErrUnknownField is returned for a field the store does not hold.
	ErrUnknownField = errors.New("store: unknown field")

	// ErrNoValue is returned for mib.FieldNone.
	ErrNoValue = errors.New("store: field carries no value")

	// ErrFieldKind is returned when a string is written to a numeric field
	// or a number to a string field.
	ErrFieldKind = errors.New("store: wrong field kind")
)

// Kind is the representation of a stored value.
type Kind uint8

const (
	KindNumber Kind = iota
	KindString
)

func (k Kind) String() string {
	if k == KindString {
		return "string"
	}
	return "number"
}

// Trace levels on the snmp.db channel.
const (
	traceWrite = 19
	traceReset = 17
)

type slot struct {
	kind Kind
	num  atomic.Int64

	mu  sync.RWMutex
	str string
}

// Store is an in-memory implementation of mib.Storage.
type Store struct {
	slots  map[mib.Field]*slot
	tracer *logging.Tracer
}

// Option configures a Store.
type Option func(*config)

type config struct {
	entries []mib.Entry
	logger  logging.Logger
}

// WithEntries replaces the table the field set is derived from.
func WithEntries(entries []mib.Entry) Option {
	return func(c *config) {
		c.entries = entries
	}
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New returns a store holding every field referenced by mib.DefaultTable.
// Numeric fields start at 0 and string fields empty.
func New(opts ...Option) *Store {
	cfg := config{
		entries: mib.DefaultTable(),
		logger:  logging.NewComponentLogger("store", "memory"),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Store{
		slots:  make(map[mib.Field]*slot, len(cfg.entries)),
		tracer: logging.NewTracer(logging.ChannelDB, cfg.logger),
	}
	for _, e := range cfg.entries {
		if e.Field == mib.FieldNone {
			continue
		}
		kind := KindNumber
		if e.Type == mib.TypeOctetString || e.Type == mib.TypeObjectIdentifier {
			kind = KindString
		}
		s.slots[e.Field] = &slot{kind: kind}
	}
	return s
}

func (s *Store) lookup(field mib.Field) (*slot, error) {
	if field == mib.FieldNone {
		return nil, ErrNoValue
	}
	sl, ok := s.slots[field]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownField, field)
	}
	return sl, nil
}

// Kind returns the representation of a field's value.
func (s *Store) Kind(field mib.Field) (Kind, error) {
	sl, err := s.lookup(field)
	if err != nil {
		return 0, err
	}
	return sl.kind, nil
}

// Value returns an int64 for numeric fields and a string for string fields.
func (s *Store) Value(field mib.Field) (any, error) {
	sl, err := s.lookup(field)
	if err != nil {
		return nil, err
	}
	if sl.kind == KindString {
		sl.mu.RLock()
		defer sl.mu.RUnlock()
		return sl.str, nil
	}
	return sl.num.Load(), nil
}

// Reset restores a field to 0 or the empty string.
func (s *Store) Reset(field mib.Field) error {
	sl, err := s.lookup(field)
	if err != nil {
		return err
	}
	s.tracer.Trace(traceReset, "resetting field", "field", uint32(field))
	if sl.kind == KindString {
		sl.mu.Lock()
		sl.str = ""
		sl.mu.Unlock()
		return nil
	}
	sl.num.Store(0)
	return nil
}

// Subsystem maps a field to its group by field block. Fields the store
// does not hold belong to mib.SubsystemNone.
func (s *Store) Subsystem(field mib.Field) mib.Subsystem {
	if _, ok := s.slots[field]; !ok {
		return mib.SubsystemNone
	}
	return mib.Subsystem(field / mib.FieldBlock)
}

// Set stores a numeric value.
func (s *Store) Set(field mib.Field, value int64) error {
	sl, err := s.numeric(field)
	if err != nil {
		return err
	}
	sl.num.Store(value)
	s.tracer.Trace(traceWrite, "set field", "field", uint32(field), "value", value)
	return nil
}

// SetString stores a string value.
func (s *Store) SetString(field mib.Field, value string) error {
	sl, err := s.lookup(field)
	if err != nil {
		return err
	}
	if sl.kind != KindString {
		return fmt.Errorf("%w: field %d is a %s", ErrFieldKind, field, sl.kind)
	}
	sl.mu.Lock()
	sl.str = value
	sl.mu.Unlock()
	s.tracer.Trace(traceWrite, "set field", "field", uint32(field), "value", value)
	return nil
}

// Incr adds delta to a numeric field and returns the new value.
func (s *Store) Incr(field mib.Field, delta int64) (int64, error) {
	sl, err := s.numeric(field)
	if err != nil {
		return 0, err
	}
	v := sl.num.Add(delta)
	s.tracer.Trace(traceWrite, "incremented field", "field", uint32(field), "value", v)
	return v, nil
}

// Decr subtracts delta from a numeric field without going below zero and
// returns the new value.
func (s *Store) Decr(field mib.Field, delta int64) (int64, error) {
	sl, err := s.numeric(field)
	if err != nil {
		return 0, err
	}
	for {
		cur := sl.num.Load()
		next := max(cur-delta, 0)
		if sl.num.CompareAndSwap(cur, next) {
			s.tracer.Trace(traceWrite, "decremented field", "field", uint32(field), "value", next)
			return next, nil
		}
	}
}

func (s *Store) numeric(field mib.Field) (*slot, error) {
	sl, err := s.lookup(field)
	if err != nil {
		return nil, err
	}
	if sl.kind != KindNumber {
		return nil, fmt.Errorf("%w: field %d is a %s", ErrFieldKind, field, sl.kind)
	}
	return sl, nil
}

// Fields returns the fields held by the store in ascending order.
func (s *Store) Fields() []mib.Field {
	fields := make([]mib.Field, 0, len(s.slots))
	for f := range s.slots {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// Snapshot copies every value. Fields are read one at a time, so a
// snapshot taken during traffic is not a consistent cut.
func (s *Store) Snapshot() map[mib.Field]any {
	out := make(map[mib.Field]any, len(s.slots))
	for f := range s.slots {
		v, _ := s.Value(f)
		out[f] = v
	}
	return out
}
