package mib

import "github.com/gosnmp/gosnmp"

// SMIType is the value type of a MIB object.
type SMIType uint8

const (
	TypeNull SMIType = iota
	TypeInteger
	TypeOctetString
	TypeObjectIdentifier
	TypeCounter32
	TypeGauge32
	TypeTimeTicks
	TypeCounter64
)

func (t SMIType) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypeInteger:
		return "Integer"
	case TypeOctetString:
		return "OctetString"
	case TypeObjectIdentifier:
		return "ObjectIdentifier"
	case TypeCounter32:
		return "Counter32"
	case TypeGauge32:
		return "Gauge32"
	case TypeTimeTicks:
		return "TimeTicks"
	case TypeCounter64:
		return "Counter64"
	default:
		return "Unknown"
	}
}

// Asn1BER returns the BER tag used when the object is encoded in a PDU.
func (t SMIType) Asn1BER() gosnmp.Asn1BER {
	switch t {
	case TypeInteger:
		return gosnmp.Integer
	case TypeOctetString:
		return gosnmp.OctetString
	case TypeObjectIdentifier:
		return gosnmp.ObjectIdentifier
	case TypeCounter32:
		return gosnmp.Counter32
	case TypeGauge32:
		return gosnmp.Gauge32
	case TypeTimeTicks:
		return gosnmp.TimeTicks
	case TypeCounter64:
		return gosnmp.Counter64
	default:
		return gosnmp.Null
	}
}

// IsCounter reports whether values of this type are monotonic counters.
func (t SMIType) IsCounter() bool {
	return t == TypeCounter32 || t == TypeCounter64
}

// IsNumeric reports whether values of this type are integers.
func (t SMIType) IsNumeric() bool {
	switch t {
	case TypeInteger, TypeCounter32, TypeGauge32, TypeTimeTicks, TypeCounter64:
		return true
	default:
		return false
	}
}
