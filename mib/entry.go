package mib

// InstanceSuffix is the instance identifier of every scalar object.
const InstanceSuffix uint32 = 0

// Entry describes one scalar MIB object. Entries are immutable once the
// Registry holding them is built; their enabled state lives in the Registry.
type Entry struct {
	// OID is the full instance OID, ending in InstanceSuffix.
	OID OID

	// Field is the storage handle of the object's value, or FieldNone.
	Field Field

	// Name is the object name, e.g. "daemon.connectionTotal".
	Name string

	// InstanceName is Name with the ".0" instance suffix.
	InstanceName string

	// Type is the SMI type of the object's value.
	Type SMIType
}

// Len returns the number of sub-identifiers in the entry's OID.
func (e Entry) Len() int {
	return len(e.OID)
}

// ObjectOID returns the entry's OID without the instance identifier.
func (e Entry) ObjectOID() OID {
	if len(e.OID) == 0 {
		return nil
	}
	return e.OID[:len(e.OID)-1].Clone()
}

// Scalar builds an Entry for a scalar object, appending the instance
// identifier to objectOID and deriving the instance name.
func Scalar(objectOID OID, field Field, name string, typ SMIType) Entry {
	return Entry{
		OID:          objectOID.Append(InstanceSuffix),
		Field:        field,
		Name:         name,
		InstanceName: name + ".0",
		Type:         typ,
	}
}
