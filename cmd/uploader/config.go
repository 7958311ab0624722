package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-andiamo/uploader"
	"gopkg.in/yaml.v3"
)

// Config is the uploader configuration file
type Config struct {
	Database      DatabaseConfig             `yaml:"database"`
	Transaction   string                     `yaml:"transaction"`
	NullAsZero    bool                       `yaml:"null_as_zero"`
	Limit         int                        `yaml:"limit"`
	Schemas       []SchemaConfig             `yaml:"schemas"`
	ValueLists    map[string]ValueListConfig `yaml:"value_lists"`
	ExcludeFields map[string][]string        `yaml:"exclude_fields"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// SchemaConfig describes one record type of the catalog
type SchemaConfig struct {
	Name         string        `yaml:"name"`
	Table        string        `yaml:"table"`
	GeneratedKey string        `yaml:"generated_key"`
	Persistable  *bool         `yaml:"persistable"`
	Fields       []FieldConfig `yaml:"fields"`
}

type FieldConfig struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column"`
	Kind   string `yaml:"kind"`
}

// ValueListConfig is a system value list loaded from the database
//
// the query returns (text, value) for a simple list or (key, text, value) for a keyed list
type ValueListConfig struct {
	Query string `yaml:"query"`
}

const dsnEnvVar = "UPLOADER_DATABASE_DSN"

// DefaultConfig returns the configuration used for anything the file does not set
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver: "postgres",
		},
		Transaction: uploader.TxPerRun.String(),
	}
}

// LoadConfig loads the configuration file (defaults are returned if the file does not exist)
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if dsn := os.Getenv(dsnEnvVar); dsn != "" {
		c.Database.DSN = dsn
	}
}

// Validate checks the configuration (a database dsn is only required if needDatabase)
func (c *Config) Validate(needDatabase bool) error {
	if _, err := uploader.DialectFor(c.Database.Driver); err != nil {
		return err
	}
	if needDatabase && c.Database.DSN == "" {
		return fmt.Errorf("database dsn not configured (set database.dsn or %s)", dsnEnvVar)
	}
	if _, err := uploader.ParseTxPolicy(c.Transaction); err != nil {
		return err
	}
	if c.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	if len(c.Schemas) == 0 {
		return errors.New("no schemas configured")
	}
	for name, vl := range c.ValueLists {
		if vl.Query == "" {
			return fmt.Errorf("value list %q has no query", name)
		}
	}
	_, err := c.Catalog()
	return err
}

// Catalog builds the schema catalog
func (c *Config) Catalog() (uploader.Schemas, error) {
	schemas := make([]*uploader.Schema, 0, len(c.Schemas))
	seen := map[string]bool{}
	for _, sc := range c.Schemas {
		if seen[sc.Name] {
			return nil, fmt.Errorf("duplicate schema %q", sc.Name)
		}
		seen[sc.Name] = true
		fields := make([]uploader.Field, len(sc.Fields))
		for i, fc := range sc.Fields {
			kind, err := uploader.ParseKind(fc.Kind)
			if err != nil {
				return nil, fmt.Errorf("schema %q field %q: %w", sc.Name, fc.Name, err)
			}
			fields[i] = uploader.Field{Name: fc.Name, Column: fc.Column, Kind: kind}
		}
		options := []any{uploader.GeneratedKey(sc.GeneratedKey)}
		if sc.Persistable != nil {
			options = append(options, uploader.Persistable(*sc.Persistable))
		}
		s, err := uploader.NewSchema(sc.Name, sc.Table, fields, options...)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return uploader.NewSchemas(schemas...), nil
}

// ValueListQueries returns the system value list queries by list name
func (c *Config) ValueListQueries() map[string]string {
	result := make(map[string]string, len(c.ValueLists))
	for name, vl := range c.ValueLists {
		result[name] = vl.Query
	}
	return result
}
