package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Supported storage drivers.
const (
	DriverMemory = "memory"
	DriverBolt   = "bolt"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Supported seed sources.
const (
	SeedSourceNone    = "none"
	SeedSourceDefault = "default"
	SeedSourceFile    = "file"
)

// Supported backup queues.
const (
	QueueMemory = "memory"
	QueueRedis  = "redis"
)

// EnvPrefix is the prefix of every environment variable read.
const EnvPrefix = "SHELF"

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string        `yaml:"git_commit" envconfig:"GIT_COMMIT"`
	GitTag             string        `yaml:"git_tag" envconfig:"GIT_TAG"`
	BuildTime          string        `yaml:"build_time" envconfig:"BUILD_TIME"`
	IsProduction       bool          `yaml:"is_production" envconfig:"IS_PRODUCTION"`
	LogLevel           zapcore.Level `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFolder          string        `yaml:"log_folder" envconfig:"LOG_FOLDER"`
	LogMaxSize         int           `yaml:"log_max_size" envconfig:"LOG_MAX_SIZE"` // in megabytes
	ProfilerEnable     bool          `yaml:"profiler_enable" envconfig:"PROFILER_ENABLE"`
	OpsEndpointsEnable bool          `yaml:"ops_endpoints_enable" envconfig:"OPS_ENDPOINTS_ENABLE"`
	Server             ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Storage            StorageConfig `yaml:"storage" envconfig:"STORAGE"`
	Redis              RedisConfig   `yaml:"redis" envconfig:"REDIS"`
	BoltDB             BoltDBConfig  `yaml:"boltdb" envconfig:"BOLTDB"`
	SQLite             SQLiteConfig  `yaml:"sqlite" envconfig:"SQLITE"`
	Backup             BackupConfig  `yaml:"backup" envconfig:"BACKUP"`
	Seed               SeedConfig    `yaml:"seed" envconfig:"SEED"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            string        `yaml:"port" envconfig:"PORT"`
	CertsFile       string        `yaml:"certs_file" envconfig:"CERTS_FILE"`
	KeyFile         string        `yaml:"key_file" envconfig:"KEY_FILE"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	MaxBodySize     int64         `yaml:"max_body_size" envconfig:"MAX_BODY_SIZE"` // in bytes, for imports
}

type StorageConfig struct {
	Driver        string `yaml:"driver" envconfig:"DRIVER"`
	CollectionKey string `yaml:"collection_key" envconfig:"COLLECTION_KEY"`
	SettingsKey   string `yaml:"settings_key" envconfig:"SETTINGS_KEY"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"HOST"`
	Port          string        `yaml:"port" envconfig:"PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"USERNAME"`
	Password      string        `yaml:"password" envconfig:"PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"DATABASE_INDEX"`
	HashName      string        `yaml:"hash_name" envconfig:"HASH_NAME"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BUCKET_NAME"`
}

type SQLiteConfig struct {
	FilePath string `yaml:"filepath" envconfig:"FILE_PATH"`
}

// BackupConfig drives the replication of every persisted key into a
// separate bolt database file.
type BackupConfig struct {
	Enable    bool         `yaml:"enable" envconfig:"ENABLE"`
	Queue     string       `yaml:"queue" envconfig:"QUEUE"`
	QueueName string       `yaml:"queue_name" envconfig:"QUEUE_NAME"`
	Store     BoltDBConfig `yaml:"store" envconfig:"STORE"`
}

type SeedConfig struct {
	Source   string `yaml:"source" envconfig:"SOURCE"`
	FilePath string `yaml:"filepath" envconfig:"FILE_PATH"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and overrides the matching fields.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if config.LogFolder == "" {
		config.LogFolder = "./logs"
	}
	if config.LogMaxSize <= 0 {
		config.LogMaxSize = 10
	}

	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Server.RequestTimeout == 0 {
		config.Server.RequestTimeout = 30 * time.Second
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = 15 * time.Second
	}
	if config.Server.MaxBodySize <= 0 {
		config.Server.MaxBodySize = 10 << 20
	}

	if config.Storage.Driver == "" {
		config.Storage.Driver = DriverBolt
	}
	if !oneOf(config.Storage.Driver, DriverMemory, DriverBolt, DriverRedis, DriverSQLite) {
		return fmt.Errorf("unsupported storage driver %q", config.Storage.Driver)
	}
	if config.Storage.CollectionKey == "" {
		config.Storage.CollectionKey = DefaultCollectionKey
	}
	if config.Storage.SettingsKey == "" {
		config.Storage.SettingsKey = DefaultSettingsKey
	}

	if config.BoltDB.FilePath == "" {
		config.BoltDB.FilePath = "./bookshelf.db"
	}
	if config.BoltDB.BucketName == "" {
		config.BoltDB.BucketName = "bookshelf"
	}
	if config.BoltDB.Timeout == 0 {
		config.BoltDB.Timeout = time.Second
	}

	if config.SQLite.FilePath == "" {
		config.SQLite.FilePath = "./bookshelf.sqlite"
	}

	if config.Redis.HashName == "" {
		config.Redis.HashName = DefaultRedisHash
	}

	usesRedis := config.Storage.Driver == DriverRedis || (config.Backup.Enable && config.Backup.Queue == QueueRedis)
	if usesRedis && (len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0) {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	if config.Backup.Queue == "" {
		config.Backup.Queue = QueueMemory
	}
	if !oneOf(config.Backup.Queue, QueueMemory, QueueRedis) {
		return fmt.Errorf("unsupported backup queue %q", config.Backup.Queue)
	}
	if config.Backup.QueueName == "" {
		config.Backup.QueueName = DefaultBackupQueue
	}
	if config.Backup.Store.BucketName == "" {
		config.Backup.Store.BucketName = "bookshelf-backup"
	}
	if config.Backup.Store.Timeout == 0 {
		config.Backup.Store.Timeout = time.Second
	}
	if config.Backup.Enable {
		if config.Backup.Store.FilePath == "" {
			return errors.New("make sure to set the backup store file path in configuration file")
		}
		if config.Storage.Driver == DriverBolt && config.Backup.Store.FilePath == config.BoltDB.FilePath {
			return errors.New("backup store must not use the main bolt database file")
		}
	}

	if config.Seed.Source == "" {
		config.Seed.Source = SeedSourceDefault
	}
	if !oneOf(config.Seed.Source, SeedSourceNone, SeedSourceDefault, SeedSourceFile) {
		return fmt.Errorf("unsupported seed source %q", config.Seed.Source)
	}
	if config.Seed.Source == SeedSourceFile && config.Seed.FilePath == "" {
		return errors.New("make sure to set the seed file path when seed source is file")
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data. A missing configuration file or
// env file is not an error: defaults and environment variables apply.
func LoadAndInitConfigs(configFile, envFile, gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile(configFile)
	if errors.Is(err, fs.ErrNotExist) {
		config, err = &Config{}, nil
	}
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %w", err)
	}

	// Set the environment configuration.
	if err = godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("failed to set environment configurations: %w", err)
	}

	// Use environment variables with prefix `SHELF`.
	err = LoadConfigEnvs(EnvPrefix, config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %w", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %w", err)
	}
	return config, nil
}
