// Package config loads the server configuration from a YAML file with
// environment overrides, and watches the file for generator changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"village-raiders/server/mapgen"
	"village-raiders/server/services"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the full server configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Generator GeneratorConfig `yaml:"generator"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	Type        string `yaml:"type"` // json or postgres
	DatabaseURL string `yaml:"database_url"`
	File        string `yaml:"file"`
}

// GeneratorConfig is the hot-reloadable part of the configuration
type GeneratorConfig struct {
	Seed             int64              `yaml:"seed"` // 0 means a new seed per session
	LootTable        string             `yaml:"loot_table"`
	LootTables       []mapgen.LootTable `yaml:"loot_tables"` // custom tables, looked up before the built-in ones
	ChunkSize        int                `yaml:"chunk_size"`
	TargetBuildings  int                `yaml:"target_buildings"`
	BuildingAttempts int                `yaml:"building_attempts"`
	FencedZones      int                `yaml:"fenced_zones"`
	TargetObjects    int                `yaml:"target_objects"`
	ObjectAttempts   int                `yaml:"object_attempts"`
	MaxKeys          int                `yaml:"max_keys"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	gen := mapgen.DefaultConfig()
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Storage: StorageConfig{
			Type:        "json",
			DatabaseURL: "host=localhost user=raiders password=raiders dbname=village_raiders sslmode=disable",
			File:        "db.json",
		},
		Generator: GeneratorConfig{
			LootTable:        gen.Loot.Name,
			ChunkSize:        services.DefaultChunkSize,
			TargetBuildings:  gen.TargetBuildings,
			BuildingAttempts: gen.BuildingAttempts,
			FencedZones:      gen.FencedZones,
			TargetObjects:    gen.TargetObjects,
			ObjectAttempts:   gen.ObjectAttempts,
			MaxKeys:          gen.MaxKeys,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		c.Storage.Type = dbType
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Storage.DatabaseURL = url
	}
	if file := os.Getenv("DB_FILE"); file != "" {
		c.Storage.File = file
	}
	if seed := os.Getenv("MAP_SEED"); seed != "" {
		n, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: MAP_SEED %q: %w", ErrInvalidConfig, seed, err)
		}
		c.Generator.Seed = n
	}
	return nil
}

// Validate checks the storage choice and the generator section
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "json", "postgres":
	default:
		return fmt.Errorf("%w: unknown storage type %q", ErrInvalidConfig, c.Storage.Type)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("%w: empty port", ErrInvalidConfig)
	}
	_, err := c.Generator.Settings()
	return err
}

// Settings resolves the generator section into service settings
func (g GeneratorConfig) Settings() (services.GeneratorSettings, error) {
	loot, err := g.lootTable()
	if err != nil {
		return services.GeneratorSettings{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if g.ChunkSize <= 0 {
		return services.GeneratorSettings{}, fmt.Errorf("%w: chunk size must be positive", ErrInvalidConfig)
	}

	settings := services.GeneratorSettings{
		Config: mapgen.Config{
			TargetBuildings:  g.TargetBuildings,
			BuildingAttempts: g.BuildingAttempts,
			FencedZones:      g.FencedZones,
			TargetObjects:    g.TargetObjects,
			ObjectAttempts:   g.ObjectAttempts,
			MaxKeys:          g.MaxKeys,
			Loot:             loot,
		},
		Seed:      g.Seed,
		ChunkSize: g.ChunkSize,
	}
	if err := settings.Config.Validate(); err != nil {
		return services.GeneratorSettings{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return settings, nil
}

func (g GeneratorConfig) lootTable() (mapgen.LootTable, error) {
	for _, t := range g.LootTables {
		if t.Name == g.LootTable {
			return t, nil
		}
	}
	return mapgen.LootTableByName(g.LootTable)
}
