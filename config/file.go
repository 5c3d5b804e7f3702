package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultRuleSetPath returns the XDG-standard location for the compiler's
// rule file (e.g. ~/.config/vpdac/rules.yaml on Linux).
func DefaultRuleSetPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("vpdac", "rules.yaml"))
	if err != nil {
		return "", errors.Wrapf(err, "xdg.ConfigFile")
	}
	return path, nil
}

// LoadRuleSet loads configuration rules from a YAML file.
func LoadRuleSet(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return the error directly so callers can use os.IsNotExist(err) to check if the file exists.
		return RuleSet{}, err
	}

	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return RuleSet{}, errors.Wrapf(err, "yaml.Unmarshal")
	}

	return rs, nil
}

// SaveRuleSet saves configuration rules to a YAML file, creating parent
// directories as needed.
func SaveRuleSet(path string, rs RuleSet) error {
	data, err := yaml.Marshal(rs)
	if err != nil {
		return errors.Wrapf(err, "yaml.Marshal")
	}

	dirPath := filepath.Dir(path)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return errors.Wrapf(err, "os.MkdirAll")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "os.WriteFile")
	}

	return nil
}
