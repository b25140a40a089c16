package agent

import (
	"errors"
	"fmt"
	"math"

	"github.com/geekxflood/ftpmib/mib"
)

// ErrValueType is returned when a stored value cannot be encoded as the
// object's SMI type.
var ErrValueType = errors.New("value does not fit SMI type")

// Convert turns a stored value into the Go type gosnmp encodes for typ:
// int for Integer, uint32 for Counter32, Gauge32 and TimeTicks, uint64 for
// Counter64, []byte for OctetString, a dotted string for ObjectIdentifier
// and nil for Null. 32-bit types wrap the way the agent's counters do.
func Convert(typ mib.SMIType, raw any) (any, error) {
	switch typ {
	case mib.TypeNull:
		return nil, nil
	case mib.TypeOctetString:
		switch v := raw.(type) {
		case string:
			return []byte(v), nil
		case []byte:
			return v, nil
		}
	case mib.TypeObjectIdentifier:
		switch v := raw.(type) {
		case string:
			return v, nil
		case mib.OID:
			return "." + v.String(), nil
		}
	case mib.TypeInteger:
		n, ok := toInt64(raw)
		if !ok {
			break
		}
		if n > math.MaxInt32 || n < math.MinInt32 {
			return nil, fmt.Errorf("%w: %d overflows Integer32", ErrValueType, n)
		}
		return int(n), nil
	case mib.TypeCounter32, mib.TypeGauge32, mib.TypeTimeTicks:
		n, ok := toInt64(raw)
		if !ok {
			break
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: negative %s %d", ErrValueType, typ, n)
		}
		if typ == mib.TypeGauge32 && n > math.MaxUint32 {
			return uint32(math.MaxUint32), nil
		}
		return uint32(n), nil
	case mib.TypeCounter64:
		n, ok := toInt64(raw)
		if !ok {
			break
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: negative Counter64 %d", ErrValueType, n)
		}
		return uint64(n), nil
	}
	return nil, fmt.Errorf("%w: %T as %s", ErrValueType, raw, typ)
}

func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}
