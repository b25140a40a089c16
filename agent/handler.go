// Package agent answers SNMP Get, GetNext and GetBulk requests from the
// PROFTPD-MIB registry.
//
// The Handler turns registry lookups into gosnmp variable bindings and maps
// lookup misses onto the SNMPv2 exception values: an OID that names an
// object without its ".0" instance becomes noSuchInstance, any other miss
// becomes noSuchObject, and a walk past the last object ends with
// endOfMibView. The Server in this package puts a Handler behind a UDP
// socket.
package agent

import (
	"errors"
	"fmt"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/geekxflood/ftpmib/logging"
	"github.com/geekxflood/ftpmib/mib"
)

// Handler resolves request OIDs against a registry.
type Handler struct {
	reg     *mib.Registry
	storage mib.Storage
	start   time.Time
	now     func() time.Time
	logger  logging.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithStartTime sets the instant sysUpTime counts from.
func WithStartTime(t time.Time) HandlerOption {
	return func(h *Handler) {
		h.start = t
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.now = now
	}
}

// WithHandlerLogger sets the logger used for storage failures.
func WithHandlerLogger(logger logging.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler returns a handler reading values from the registry's storage.
// The registry must already be initialized.
func NewHandler(reg *mib.Registry, opts ...HandlerOption) (*Handler, error) {
	if reg == nil {
		return nil, errors.New("registry cannot be nil")
	}

	h := &Handler{
		reg:     reg,
		storage: reg.Storage(),
		now:     time.Now,
		logger:  logging.NewComponentLogger("agent", "handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.start.IsZero() {
		h.start = h.now()
	}
	return h, nil
}

// Registry returns the registry the handler serves.
func (h *Handler) Registry() *mib.Registry {
	return h.reg
}

// Get answers a Get request, one binding per OID in request order.
func (h *Handler) Get(oids ...string) []gosnmp.SnmpPDU {
	out := make([]gosnmp.SnmpPDU, 0, len(oids))
	for _, s := range oids {
		out = append(out, h.get(s))
	}
	return out
}

func (h *Handler) get(s string) gosnmp.SnmpPDU {
	oid, err := mib.ParseOID(s)
	if err != nil {
		return exception(s, gosnmp.NoSuchObject)
	}

	entry, lacksInstanceID, err := h.reg.Lookup(oid)
	switch {
	case err != nil:
		return exception(oid.String(), gosnmp.NoSuchObject)
	case lacksInstanceID:
		return exception(oid.String(), gosnmp.NoSuchInstance)
	}

	pdu, err := h.binding(entry)
	if err != nil {
		if !errors.Is(err, errNotReadable) {
			h.logger.Warn("failed to read MIB value", "name", entry.InstanceName, "error", err)
		}
		return exception(oid.String(), gosnmp.NoSuchInstance)
	}
	return pdu
}

// GetNext answers a GetNext request, one binding per OID in request order.
func (h *Handler) GetNext(oids ...string) []gosnmp.SnmpPDU {
	out := make([]gosnmp.SnmpPDU, 0, len(oids))
	for _, s := range oids {
		out = append(out, h.next(s))
	}
	return out
}

// next returns the first readable enabled object strictly after s.
func (h *Handler) next(s string) gosnmp.SnmpPDU {
	oid, err := mib.ParseOID(s)
	if err != nil {
		return exception(s, gosnmp.EndOfMibView)
	}

	idx, err := h.startIndex(oid)
	for err == nil {
		entry, _ := h.reg.Entry(idx)
		if h.reg.Enabled(idx) && entry.OID.Compare(oid) > 0 {
			pdu, readErr := h.binding(entry)
			if readErr == nil {
				return pdu
			}
			if !errors.Is(readErr, errNotReadable) {
				h.logger.Warn("failed to read MIB value", "name", entry.InstanceName, "error", readErr)
			}
		}
		idx, err = h.reg.NextEnabled(idx)
	}
	return exception(oid.String(), gosnmp.EndOfMibView)
}

// startIndex picks the entry a GetNext scan begins at: the entry after an
// exact hit, the entry itself when only the instance identifier was
// missing, and the nearest match otherwise. OIDs the nearest-match rules do
// not place, such as an unregistered arc between two groups, start at
// their lexicographic successor.
func (h *Handler) startIndex(oid mib.OID) (int, error) {
	idx, lacksInstanceID, err := h.reg.ExactIndex(oid)
	switch {
	case err == nil && lacksInstanceID:
		return idx, nil
	case err == nil:
		return h.reg.NextEnabled(idx)
	}
	if idx, err := h.reg.NearestIndex(oid); err == nil {
		return idx, nil
	}
	return h.successor(oid)
}

// successor returns the enabled entry with the smallest OID after oid.
func (h *Handler) successor(oid mib.OID) (int, error) {
	best := -1
	var bestOID mib.OID
	for i, e := range h.reg.EnabledEntries() {
		if e.OID.Compare(oid) > 0 && (best < 0 || e.OID.Compare(bestOID) < 0) {
			best, bestOID = i, e.OID
		}
	}
	if best < 0 {
		return -1, mib.ErrNotFound
	}
	return best, nil
}

// GetBulk answers a GetBulk request: one GetNext for each of the first
// nonRepeaters OIDs, then up to maxRepetitions rounds of GetNext over the
// remaining OIDs. Rounds stop early once every column hit endOfMibView.
func (h *Handler) GetBulk(nonRepeaters, maxRepetitions int, oids ...string) []gosnmp.SnmpPDU {
	nonRepeaters = min(max(nonRepeaters, 0), len(oids))
	out := h.GetNext(oids[:nonRepeaters]...)

	cursors := append([]string(nil), oids[nonRepeaters:]...)
	for range max(maxRepetitions, 0) {
		if len(cursors) == 0 {
			break
		}
		done := true
		for i, cur := range cursors {
			pdu := h.next(cur)
			out = append(out, pdu)
			cursors[i] = pdu.Name
			if pdu.Type != gosnmp.EndOfMibView {
				done = false
			}
		}
		if done {
			break
		}
	}
	return out
}

// Walk calls fn for every readable object below root in OID order. It
// stops at the first binding outside root, at endOfMibView, or when fn
// returns an error. A walk never takes more steps than the table has
// entries.
func (h *Handler) Walk(root string, fn gosnmp.WalkFunc) error {
	rootOID, err := mib.ParseOID(root)
	if err != nil {
		return err
	}

	cur := rootOID.String()
	for range h.reg.MaxIndex() + 1 {
		pdu := h.next(cur)
		if pdu.Type == gosnmp.EndOfMibView {
			return nil
		}
		name, err := mib.ParseOID(pdu.Name)
		if err != nil || !name.HasPrefix(rootOID) {
			return nil
		}
		if err := fn(pdu); err != nil {
			return err
		}
		cur = pdu.Name
	}
	return nil
}

// Uptime returns the time elapsed since the handler's start time.
func (h *Handler) Uptime() time.Duration {
	return h.now().Sub(h.start)
}

var errNotReadable = errors.New("object is not readable")

// binding reads an entry's value and encodes it for its SMI type.
func (h *Handler) binding(entry mib.Entry) (gosnmp.SnmpPDU, error) {
	var raw any
	switch {
	case entry.OID.Equal(mib.SysUpTimeOID.Append(mib.InstanceSuffix)):
		raw = int64(h.Uptime() / (10 * time.Millisecond))
	case entry.Field == mib.FieldNone:
		return gosnmp.SnmpPDU{}, errNotReadable
	default:
		v, err := h.storage.Value(entry.Field)
		if err != nil {
			return gosnmp.SnmpPDU{}, err
		}
		raw = v
	}

	value, err := Convert(entry.Type, raw)
	if err != nil {
		return gosnmp.SnmpPDU{}, fmt.Errorf("%s: %w", entry.InstanceName, err)
	}
	return gosnmp.SnmpPDU{
		Name:  "." + entry.OID.String(),
		Type:  entry.Type.Asn1BER(),
		Value: value,
	}, nil
}

func exception(name string, typ gosnmp.Asn1BER) gosnmp.SnmpPDU {
	if name != "" && name[0] != '.' {
		name = "." + name
	}
	return gosnmp.SnmpPDU{Name: name, Type: typ}
}
