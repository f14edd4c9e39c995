// Package registry holds the per-league lists of valid city names and team nicknames
// used to pick team names out of report text.
package registry

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Registry is the pair of name lists for one league variant.
type Registry struct {
	League    string   `yaml:"league" json:"league" validate:"required"`
	Cities    []string `yaml:"cities" json:"cities" validate:"required,min=1,dive,required"`
	Nicknames []string `yaml:"nicknames" json:"nicknames" validate:"required,min=1,dive,required"`
}

// File is the YAML layout of a registry file.
type File struct {
	Registries []Registry `yaml:"registries" validate:"required,min=1,dive"`
}

// Builtin league names.
const (
	LeagueBLB = "blb"
	LeagueHOF = "hof"
)

var builtins = map[string]Registry{
	LeagueBLB: {
		League: LeagueBLB,
		Cities: []string{
			"Atlanta",
			"Boston",
			"Charlotte",
			"Chicago",
			"Cincinnati",
			"Cleveland",
			"Columbus",
			"Detroit",
			"Miami",
			"Montreal",
			"Nashville",
			"New Orleans",
			"New York",
			"Philadelphia",
			"St. Louis",
			"Saint Louis",
			"Steel City",
			"Washington",
		},
		Nicknames: []string{
			"Crackers",
			"Blues",
			"Monarchs",
			"Northsiders",
			"Steamers",
			"Spiders",
			"Explorers",
			"Clutch",
			"Toros",
			"Souterrains",
			"Cats",
			"Mudbugs",
			"Knights",
			"Admirals",
			"Clydesdales",
			"Stogies",
			"Federals",
		},
	},
	LeagueHOF: {
		League: LeagueHOF,
		Cities: []string{
			"Mt. Washington",
			"Mudville",
			"Sirk City",
			"Hackensack",
			"Motor City",
			"Cook County",
			"Vegas",
			"New Milan",
		},
		Nicknames: []string{
			"Wonders",
			"Grey Eagles",
			"Spikes",
			"Monuments",
			"Bulls",
			"Robber Barons",
			"Sultans",
			"Rajahs",
		},
	},
}

// Catalog maps league names to registries. The zero value is empty; use NewCatalog
// for one seeded with the builtin leagues.
type Catalog struct {
	byLeague map[string]Registry
}

// NewCatalog returns a catalog holding the builtin blb and hof registries.
func NewCatalog() *Catalog {
	c := &Catalog{byLeague: make(map[string]Registry, len(builtins))}
	for name, reg := range builtins {
		c.byLeague[name] = reg.clone()
	}
	return c
}

// Add registers reg, replacing any registry with the same league name.
func (c *Catalog) Add(reg Registry) error {
	if err := validator.New().Struct(reg); err != nil {
		return fmt.Errorf("invalid registry %q: %w", reg.League, err)
	}
	if c.byLeague == nil {
		c.byLeague = make(map[string]Registry)
	}
	c.byLeague[reg.League] = reg.clone()
	return nil
}

// LoadFile reads a YAML registry file and adds every registry in it.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read registry file %s: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse registry YAML: %w", err)
	}
	if err := validator.New().Struct(file); err != nil {
		return fmt.Errorf("invalid registry file %s: %w", path, err)
	}

	for _, reg := range file.Registries {
		if err := c.Add(reg); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the registry for league.
func (c *Catalog) Lookup(league string) (Registry, error) {
	reg, ok := c.byLeague[league]
	if !ok {
		return Registry{}, fmt.Errorf("unknown league %q (known: %v)", league, c.Leagues())
	}
	return reg.clone(), nil
}

// Leagues returns the sorted league names in the catalog.
func (c *Catalog) Leagues() []string {
	names := make([]string, 0, len(c.byLeague))
	for name := range c.byLeague {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r Registry) clone() Registry {
	return Registry{
		League:    r.League,
		Cities:    append([]string(nil), r.Cities...),
		Nicknames: append([]string(nil), r.Nicknames...),
	}
}
