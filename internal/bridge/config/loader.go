package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/bridge/valuation"
)

// Load reads a YAML rules file and expands environment variables.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*File, error) {
	expanded := os.ExpandEnv(string(data))

	var file File
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("parse rules yaml: %w", err)
	}

	return &file, nil
}

// Bundle is everything a rules file activates.
type Bundle struct {
	Rules   *valuation.RuleSet
	Catalog domain.Catalog
}

// LoadBundle loads, validates and compiles a rules file.
func LoadBundle(path string) (*Bundle, error) {
	file, err := Load(path)
	if err != nil {
		return nil, &domain.ConfigurationError{Msg: "load rules file", Err: err}
	}

	return file.Compile()
}

// Compile applies defaults, validates the file and builds the rule set and catalog.
func (f *File) Compile() (*Bundle, error) {
	f.applyDefaults()

	if err := f.Validate(); err != nil {
		return nil, &domain.ConfigurationError{Msg: "validate rules file", Err: err}
	}

	seed := int64(0)
	if f.Seed != nil {
		seed = *f.Seed
	} else {
		generated, err := valuation.NewSeed()
		if err != nil {
			return nil, &domain.ConfigurationError{Msg: "generate valuation seed", Err: err}
		}
		seed = generated
	}

	rules, err := f.buildRules()
	if err != nil {
		return nil, &domain.ConfigurationError{Msg: "validate rules file", Err: err}
	}

	ruleSet, err := valuation.NewRuleSet(rules, seed, *f.Currency.Scale)
	if err != nil {
		return nil, err
	}

	catalog, err := f.buildCatalog()
	if err != nil {
		return nil, &domain.ConfigurationError{Msg: "validate shop catalog", Err: err}
	}

	return &Bundle{
		Rules:   ruleSet,
		Catalog: catalog,
	}, nil
}
