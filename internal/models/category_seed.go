package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type categorySeed struct {
	Categories []struct {
		Name string `yaml:"name"`
		Kind string `yaml:"kind"`
	} `yaml:"categories"`
}

// LoadCategorySeed reads the starter category set shipped with the
// app. Seeded categories have no owner and are visible to everyone.
func LoadCategorySeed(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category seed: %w", err)
	}

	var seed categorySeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse category seed: %w", err)
	}

	out := make([]Category, 0, len(seed.Categories))
	for _, c := range seed.Categories {
		kind := TransactionKind(c.Kind)
		if c.Name == "" || (kind != KindIncome && kind != KindExpense) {
			return nil, fmt.Errorf("category seed entry %q: invalid name or kind", c.Name)
		}
		out = append(out, Category{Name: c.Name, Kind: kind})
	}
	return out, nil
}
