package mib

// Optional server features that activate MIB subtrees.
const (
	FeatureTLS  = "mod_tls"
	FeatureSFTP = "mod_sftp"
)

// FeatureSet reports whether an optional server feature is present.
type FeatureSet interface {
	IsFeatureLoaded(name string) bool
}

// Features is a FeatureSet backed by a set of names.
type Features map[string]bool

// NewFeatures returns a Features holding names.
func NewFeatures(names ...string) Features {
	f := make(Features, len(names))
	for _, name := range names {
		f[name] = true
	}
	return f
}

// IsFeatureLoaded implements FeatureSet.
func (f Features) IsFeatureLoaded(name string) bool {
	return f[name]
}

// FeatureFunc adapts a function to FeatureSet.
type FeatureFunc func(name string) bool

// IsFeatureLoaded implements FeatureSet.
func (fn FeatureFunc) IsFeatureLoaded(name string) bool {
	return fn(name)
}

// requiredFeature returns the feature a subsystem depends on, or "" for
// subsystems that are always present.
func requiredFeature(s Subsystem) string {
	switch s {
	case SubsystemTLS:
		return FeatureTLS
	case SubsystemSSH, SubsystemSFTP, SubsystemSCP:
		return FeatureSFTP
	default:
		return ""
	}
}

// IsOptional reports whether entries of the subsystem stay disabled until
// their feature is confirmed at startup.
func (s Subsystem) IsOptional() bool {
	return requiredFeature(s) != ""
}

// Feature returns the name of the server feature the subsystem depends on,
// or "" when the subsystem is always present.
func (s Subsystem) Feature() string {
	return requiredFeature(s)
}
