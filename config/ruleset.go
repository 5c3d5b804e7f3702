package config

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
)

// Rule is a configuration rule. Pattern is a dotted-namespace glob (see
// GlobMatch) matched against a grammar's name; when it matches, Config is
// applied on top of whatever profile the cascade has built up so far.
type Rule struct {
	Name    string  `yaml:"name"`
	Pattern string  `yaml:"pattern"`
	Config  Profile `yaml:"config"`
}

// RuleSet is an ordered list of rules. Rules are applied in order, so later
// rules take precedence over earlier ones for any field they set.
type RuleSet struct {
	Rules []Rule `yaml:"rules"`
}

// Validate reports the first rule, if any, whose pattern is not a
// syntactically valid dotted-namespace glob.
func (rs *RuleSet) Validate() error {
	for _, rule := range rs.Rules {
		if _, err := splitNamespace(rule.Pattern); err != nil {
			return errors.Wrapf(err, fmt.Sprintf("validating config rule %q", rule.Name))
		}
	}
	return nil
}

// ProfileForGrammar returns the compile profile for a grammar name: every
// rule whose pattern matches is applied, in order, on top of
// DefaultProfile.
func (rs *RuleSet) ProfileForGrammar(name string) Profile {
	profile := DefaultProfile()
	for _, rule := range rs.Rules {
		if GlobMatch(rule.Pattern, name) {
			log.Printf("applying config rule %q with pattern %q for grammar %q\n", rule.Name, rule.Pattern, name)
			profile.Apply(rule.Config)
		}
	}
	return profile
}
