package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemTemplate is one catalog entry as listed in the item YAML files.
type ItemTemplate struct {
	ID            int32  `yaml:"id"`
	Name          string `yaml:"name"`
	DisplayID     int32  `yaml:"displayid"`
	InventoryType int16  `yaml:"inventory_type"`
	Quality       int16  `yaml:"quality"`
}

// ItemTable indexes item templates by id.
type ItemTable struct {
	items map[int32]*ItemTemplate
}

// LoadItemTable reads one or more item list files and merges them. Later
// files win on duplicate ids.
func LoadItemTable(paths ...string) (*ItemTable, error) {
	t := &ItemTable{items: make(map[int32]*ItemTemplate)}
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read item list %s: %w", path, err)
		}
		var entries []ItemTemplate
		if err := yaml.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("parse item list %s: %w", path, err)
		}
		for i := range entries {
			e := entries[i]
			t.items[e.ID] = &e
		}
	}
	return t, nil
}

func (t *ItemTable) Get(id int32) *ItemTemplate {
	return t.items[id]
}

func (t *ItemTable) Count() int {
	return len(t.items)
}

// All returns the templates in unspecified order.
func (t *ItemTable) All() []ItemTemplate {
	result := make([]ItemTemplate, 0, len(t.items))
	for _, e := range t.items {
		result = append(result, *e)
	}
	return result
}
