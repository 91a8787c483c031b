package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"dbkeeper/internal/client"
	"dbkeeper/internal/dialect"
)

type DBConfig struct {
	Name         string `mapstructure:"name"`
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	Schema       string `mapstructure:"schema"`
	ChunkSize    int    `mapstructure:"chunk_size"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	Active       bool   `mapstructure:"active"`
}

// ClientConfig resolves the driver name to a dialect.
func (c DBConfig) ClientConfig() (client.Config, error) {
	d, ok := dialect.Parse(c.Driver)
	if !ok {
		return client.Config{}, fmt.Errorf("unknown driver %q for database %q", c.Driver, c.Name)
	}
	chunk := c.ChunkSize
	if chunk <= 0 {
		chunk = viper.GetInt("settings.chunk_size")
	}
	return client.Config{
		Name:         c.Name,
		Dialect:      d,
		DSN:          c.DSN,
		Schema:       c.Schema,
		ChunkSize:    chunk,
		MaxOpenConns: c.MaxOpenConns,
	}, nil
}

// GetActiveDBConfig returns the database to work on: --dsn wins, then the
// database named by --db, then the one marked active.
func GetActiveDBConfig() (*DBConfig, error) {
	if dsn := viper.GetString("database.dsn"); dsn != "" {
		driver := viper.GetString("database.driver")
		if driver == "" {
			return nil, fmt.Errorf("--driver is required with --dsn")
		}
		return &DBConfig{Name: "cli", Driver: driver, DSN: dsn, Schema: viper.GetString("database.schema"), Active: true}, nil
	}

	var configs []DBConfig
	if err := viper.UnmarshalKey("databases", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse databases config: %w", err)
	}

	if name := viper.GetString("database.name"); name != "" {
		for i := range configs {
			if strings.EqualFold(configs[i].Name, name) {
				return withSchemaFlag(&configs[i]), nil
			}
		}
		return nil, fmt.Errorf("no database named %q in config", name)
	}

	var activeConfig *DBConfig
	count := 0
	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}
	if count == 0 {
		return nil, fmt.Errorf("no active database found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active databases found (only one can be active)")
	}
	return withSchemaFlag(activeConfig), nil
}

func withSchemaFlag(c *DBConfig) *DBConfig {
	if s := viper.GetString("database.schema"); s != "" {
		c.Schema = s
	}
	return c
}

// openClient connects to the selected database.
func openClient(ctx context.Context) (*client.SQLClient, *DBConfig, error) {
	cfg, err := GetActiveDBConfig()
	if err != nil {
		return nil, nil, err
	}
	cc, err := cfg.ClientConfig()
	if err != nil {
		return nil, nil, err
	}
	c, err := client.Open(ctx, cc)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Connected to %s (%s)", cfg.Name, cc.Dialect)
	return c, cfg, nil
}

// loadDocument decodes a JSON, YAML or TOML file into v by extension.
func loadDocument(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(v)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(v)
	case ".toml":
		var md toml.MetaData
		md, err = toml.Decode(string(b), v)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = fmt.Errorf("unknown keys %v", undecoded)
			}
		}
	default:
		return fmt.Errorf("%s: unsupported document type (use .json, .yaml or .toml)", path)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
