package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realmstore.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[database]
dsn = "postgres://realm:secret@db:5432/realm?sslmode=disable"
max_open_conns = 50
conn_max_lifetime = "10m"

[store]
equipment_slots = 19
max_account_data_size = 65536

[logging]
level = "debug"
format = "json"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://realm:secret@db:5432/realm?sslmode=disable", cfg.Database.DSN)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, int16(19), cfg.Store.EquipmentSlots)
	assert.Equal(t, int32(65536), cfg.Store.MaxAccountDataSize)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, int16(8), cfg.Store.AccountDataTypes)
	assert.Equal(t, 12, cfg.Store.NameMaxLen)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestDefaultsAreSane(t *testing.T) {
	cfg := defaults()
	assert.NotEmpty(t, cfg.Database.DSN)
	assert.Greater(t, cfg.Database.MaxOpenConns, 0)
	assert.Equal(t, int16(23), cfg.Store.EquipmentSlots)
	assert.Equal(t, int32(1<<20), cfg.Store.MaxAccountDataSize)
	assert.LessOrEqual(t, cfg.Store.NameMinLen, cfg.Store.NameMaxLen)
}
