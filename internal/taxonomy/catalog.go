// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package taxonomy serves the built-in reference catalog of beetle genera,
species and subspecies.

The catalog is embedded at build time from catalog.yaml. Users search it by
subspecies name and adopt a result into their own collection.
*/
package taxonomy

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// Species lists the recognised subspecies of one species.
type Species struct {
	Name       string   `yaml:"species"    json:"species"`
	Subspecies []string `yaml:"subspecies" json:"subspecies"`
}

// Genus groups species.
type Genus struct {
	Name    string    `yaml:"genus"   json:"genus"`
	Species []Species `yaml:"species" json:"species"`
}

// Entry is one search result.
type Entry struct {
	Genus      string `json:"genus"`
	Species    string `json:"species"`
	Subspecies string `json:"subspecies"`
	Full       string `json:"full"`
}

// Catalog is an immutable reference taxonomy.
type Catalog struct {
	genera []Genus
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var genera []Genus
	if err := yaml.Unmarshal(data, &genera); err != nil {
		return nil, fmt.Errorf("taxonomy_parse_failed: %w", err)
	}

	for _, genus := range genera {
		if strings.TrimSpace(genus.Name) == "" {
			return nil, fmt.Errorf("taxonomy_parse_failed: genus without a name")
		}
		for _, species := range genus.Species {
			if strings.TrimSpace(species.Name) == "" {
				return nil, fmt.Errorf("taxonomy_parse_failed: unnamed species in %s", genus.Name)
			}
		}
	}
	return &Catalog{genera: genera}, nil
}

// Default returns the embedded catalog. It panics if the embedded file is broken,
// which the package tests rule out.
var Default = sync.OnceValue(func() *Catalog {
	catalog, err := Parse(embedded)
	if err != nil {
		panic(err)
	}
	return catalog
})

// Genera returns every genus in catalog order.
func (catalog *Catalog) Genera() []Genus {
	return catalog.genera
}

/*
Search matches query case-insensitively against subspecies names.

Parameters:
  - query: string (blank returns nothing)
  - limit: int (0 means unlimited)

Returns:
  - []Entry: Matches in catalog order
*/
func (catalog *Catalog) Search(query string, limit int) []Entry {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []Entry{}
	}

	results := []Entry{}
	for _, genus := range catalog.genera {
		for _, species := range genus.Species {
			for _, subspecies := range species.Subspecies {
				if !strings.Contains(strings.ToLower(subspecies), needle) {
					continue
				}
				results = append(results, Entry{
					Genus:      genus.Name,
					Species:    species.Name,
					Subspecies: subspecies,
					Full:       genus.Name + " " + species.Name + " " + subspecies,
				})
				if limit > 0 && len(results) == limit {
					return results
				}
			}
		}
	}
	return results
}
