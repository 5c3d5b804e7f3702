package config

// DefaultMaxWitnessBytes is the default MaxWitnessBytes of a Profile.
const DefaultMaxWitnessBytes = 64

// Profile is a named set of compile-pipeline toggles applied to a grammar
// before it is compiled.
type Profile struct {
	// Minimize runs Brzozowski minimization after determinization.
	Minimize bool `yaml:"minimize"`
	// CanonicalSort runs Sort on the result so repeated compiles of an
	// unchanged grammar produce byte-identical graphs.
	CanonicalSort bool `yaml:"canonicalSort"`
	// MaxWitnessBytes is a witness-size setting carried through the rule
	// cascade; zero in an overlay leaves the base value in place. The
	// automaton package does not read it, so it does not limit the size of
	// an IllFormed witness.
	MaxWitnessBytes int `yaml:"maxWitnessBytes"`
	// Metadata is an open extension point for rules that want to attach
	// arbitrary key/value data (e.g. a target file path, a doc link) to a
	// grammar without the Profile struct needing a field for every use.
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

// DefaultProfile constructs a Profile with the pipeline's default
// behavior: always minimize, always canonicalize.
func DefaultProfile() Profile {
	return Profile{
		Minimize:        true,
		CanonicalSort:   true,
		MaxWitnessBytes: DefaultMaxWitnessBytes,
	}
}

// Apply overrides base fields with non-zero values from overlay. It can
// only turn a bool on, never back off -- a rule that wants to disable a
// pass later in the cascade needs its own explicit field, which this
// profile schema does not yet have.
func (p *Profile) Apply(overlay Profile) {
	if overlay.Minimize {
		p.Minimize = true
	}
	if overlay.CanonicalSort {
		p.CanonicalSort = true
	}
	if overlay.MaxWitnessBytes > 0 {
		p.MaxWitnessBytes = overlay.MaxWitnessBytes
	}
	if overlay.Metadata != nil {
		p.Metadata = MergeMetadata(p.Metadata, overlay.Metadata)
	}
}
