package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitConfigDefaults(t *testing.T) {
	config := &Config{}
	require.NoError(t, InitConfig(config, "abc123", "v1.0.0", "2023-07-02"))

	assert.Equal(t, "abc123", config.GitCommit)
	assert.Equal(t, "v1.0.0", config.GitTag)
	assert.Equal(t, "2023-07-02", config.BuildTime)
	assert.Equal(t, "./logs", config.LogFolder)
	assert.Equal(t, 10, config.LogMaxSize)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, 30*time.Second, config.Server.RequestTimeout)
	assert.Equal(t, int64(10<<20), config.Server.MaxBodySize)
	assert.Equal(t, DriverBolt, config.Storage.Driver)
	assert.Equal(t, DefaultCollectionKey, config.Storage.CollectionKey)
	assert.Equal(t, DefaultSettingsKey, config.Storage.SettingsKey)
	assert.Equal(t, "./bookshelf.db", config.BoltDB.FilePath)
	assert.Equal(t, DefaultRedisHash, config.Redis.HashName)
	assert.Equal(t, QueueMemory, config.Backup.Queue)
	assert.Equal(t, DefaultBackupQueue, config.Backup.QueueName)
	assert.Equal(t, SeedSourceDefault, config.Seed.Source)
}

func TestInitConfigKeepsBuildValues(t *testing.T) {
	config := &Config{GitCommit: "from-file"}
	require.NoError(t, InitConfig(config, "", "", ""))
	assert.Equal(t, "from-file", config.GitCommit)
}

func TestInitConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "unknown driver",
			config: Config{Storage: StorageConfig{Driver: "postgres"}},
		},
		{
			name:   "redis driver without address",
			config: Config{Storage: StorageConfig{Driver: DriverRedis}},
		},
		{
			name:   "redis backup queue without address",
			config: Config{Backup: BackupConfig{Enable: true, Queue: QueueRedis, Store: BoltDBConfig{FilePath: "b.db"}}},
		},
		{
			name:   "unknown backup queue",
			config: Config{Backup: BackupConfig{Queue: "kafka"}},
		},
		{
			name:   "backup without store file",
			config: Config{Backup: BackupConfig{Enable: true}},
		},
		{
			name: "backup on the main bolt file",
			config: Config{
				BoltDB: BoltDBConfig{FilePath: "same.db"},
				Backup: BackupConfig{Enable: true, Store: BoltDBConfig{FilePath: "same.db"}},
			},
		},
		{
			name:   "unknown seed source",
			config: Config{Seed: SeedConfig{Source: "web"}},
		},
		{
			name:   "seed file without path",
			config: Config{Seed: SeedConfig{Source: SeedSourceFile}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, InitConfig(&tc.config, "", "", ""))
		})
	}
}

func TestInitConfigBackupOnOtherDriver(t *testing.T) {
	config := &Config{
		Storage: StorageConfig{Driver: DriverSQLite},
		Backup:  BackupConfig{Enable: true, Store: BoltDBConfig{FilePath: "backup.db"}},
	}
	require.NoError(t, InitConfig(config, "", "", ""))
	assert.Equal(t, "bookshelf-backup", config.Backup.Store.BucketName)
	assert.Equal(t, time.Second, config.Backup.Store.Timeout)
}

func TestLoadAndInitConfigs(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing files give defaults", func(t *testing.T) {
		config, err := LoadAndInitConfigs(filepath.Join(dir, "none.yml"), filepath.Join(dir, "none.env"), "", "", "")
		require.NoError(t, err)
		assert.Equal(t, DriverBolt, config.Storage.Driver)
		assert.Equal(t, "8080", config.Server.Port)
	})

	t.Run("file then environment", func(t *testing.T) {
		configFile := filepath.Join(dir, "config.yml")
		content := `
log_level: warn
server:
  port: "9090"
  read_timeout: 5s
storage:
  driver: memory
seed:
  source: none
`
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

		config, err := LoadAndInitConfigs(configFile, filepath.Join(dir, "none.env"), "", "v2", "")
		require.NoError(t, err)
		assert.Equal(t, zapcore.WarnLevel, config.LogLevel)
		assert.Equal(t, "9090", config.Server.Port)
		assert.Equal(t, 5*time.Second, config.Server.ReadTimeout)
		assert.Equal(t, DriverMemory, config.Storage.Driver)
		assert.Equal(t, SeedSourceNone, config.Seed.Source)
		assert.Equal(t, "v2", config.GitTag)

		t.Setenv("SHELF_SERVER_PORT", "7070")
		t.Setenv("SHELF_STORAGE_DRIVER", DriverSQLite)
		config, err = LoadAndInitConfigs(configFile, filepath.Join(dir, "none.env"), "", "", "")
		require.NoError(t, err)
		assert.Equal(t, "7070", config.Server.Port)
		assert.Equal(t, DriverSQLite, config.Storage.Driver)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configFile := filepath.Join(dir, "broken.yml")
		require.NoError(t, os.WriteFile(configFile, []byte("server: [unclosed"), 0o644))
		_, err := LoadAndInitConfigs(configFile, filepath.Join(dir, "none.env"), "", "", "")
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		configFile := filepath.Join(dir, "invalid.yml")
		require.NoError(t, os.WriteFile(configFile, []byte("storage:\n  driver: mongo\n"), 0o644))
		_, err := LoadAndInitConfigs(configFile, filepath.Join(dir, "none.env"), "", "", "")
		assert.Error(t, err)
	})
}
