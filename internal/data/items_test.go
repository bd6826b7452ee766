package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadItemTable(t *testing.T) {
	weapons := writeList(t, "weapon_list.yaml", `
- id: 2131
  name: "Worn Dagger"
  displayid: 6442
  inventory_type: 13
  quality: 1
- id: 25
  name: "Worn Shortsword"
  displayid: 1542
  inventory_type: 21
  quality: 1
`)
	armor := writeList(t, "armor_list.yaml", `
- id: 52
  name: "Worn Leather Vest"
  displayid: 9988
  inventory_type: 5
  quality: 1
`)

	table, err := LoadItemTable(weapons, armor)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Count())

	dagger := table.Get(2131)
	require.NotNil(t, dagger)
	assert.Equal(t, "Worn Dagger", dagger.Name)
	assert.Equal(t, int16(13), dagger.InventoryType)

	assert.Nil(t, table.Get(999999))
	assert.Len(t, table.All(), 3)
}

func TestLoadItemTableLaterFileWins(t *testing.T) {
	first := writeList(t, "a.yaml", "- id: 25\n  name: \"Old Name\"\n")
	second := writeList(t, "b.yaml", "- id: 25\n  name: \"New Name\"\n")

	table, err := LoadItemTable(first, second)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Count())
	assert.Equal(t, "New Name", table.Get(25).Name)
}

func TestLoadItemTableBadYAML(t *testing.T) {
	bad := writeList(t, "bad.yaml", "{not yaml: [")
	_, err := LoadItemTable(bad)
	assert.Error(t, err)
}

func TestLoadItemTableMissingFile(t *testing.T) {
	_, err := LoadItemTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
