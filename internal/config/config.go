// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the run configuration. A file supplies defaults, CLI flags override it,
// and environment variables fill connection settings that are still empty.
type Config struct {
	Stash        string `yaml:"stash" json:"stash,omitempty"`               // Directory or s3://bucket/prefix
	UseDB        bool   `yaml:"use_db" json:"use_db,omitempty"`             // Insert into the document store
	DatabaseURL  string `yaml:"database_url" json:"database_url,omitempty"` // postgres:// URL or SQLite path
	SkipClean    bool   `yaml:"skip_clean" json:"skip_clean,omitempty"`     // Emit the raw tree
	League       string `yaml:"league" json:"league,omitempty" validate:"omitempty,min=1,max=32,alphanum"`
	RegistryFile string `yaml:"registry_file" json:"registry_file,omitempty"` // Extra league registries (YAML)
	OnCollision  string `yaml:"on_collision" json:"on_collision,omitempty" validate:"omitempty,oneof=overwrite fail suffix"`
	AllowUnknown bool   `yaml:"allow_unknown" json:"allow_unknown,omitempty"` // Unknown reports exit 0
	Verbose      bool   `yaml:"verbose" json:"verbose,omitempty"`
	LogLevel     string `yaml:"log_level" json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat    string `yaml:"log_format" json:"log_format,omitempty" validate:"omitempty,oneof=text json"`

	ObjectStore ObjectStoreConfig `yaml:"object_store" json:"object_store,omitempty"`
}

// ObjectStoreConfig holds the S3-compatible endpoint used for s3:// stash targets.
type ObjectStoreConfig struct {
	Endpoint  string `yaml:"endpoint" json:"endpoint,omitempty" validate:"omitempty,hostname_port"`
	AccessKey string `yaml:"access_key" json:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key" json:"secret_key,omitempty"`
	UseSSL    bool   `yaml:"use_ssl" json:"use_ssl,omitempty"`
	Region    string `yaml:"region" json:"region,omitempty"`
}

// Destination is the single sink a run writes to.
type Destination int

const (
	DestinationTerminal Destination = iota
	DestinationStore
	DestinationStash
)

func (d Destination) String() string {
	switch d {
	case DestinationStash:
		return "stash"
	case DestinationStore:
		return "store"
	default:
		return "terminal"
	}
}

// Defaults returns the values used when neither the file nor a flag sets them.
func Defaults() Config {
	return Config{
		League:      "blb",
		OnCollision: "overwrite",
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// LoadConfig loads configuration from a YAML or JSON file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv fills empty connection settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = getenv(key)
		}
	}
	fill(&c.DatabaseURL, "DATABASE_URL")
	fill(&c.ObjectStore.Endpoint, "MINIO_ENDPOINT")
	fill(&c.ObjectStore.AccessKey, "MINIO_ACCESS_KEY")
	fill(&c.ObjectStore.SecretKey, "MINIO_SECRET_KEY")
	fill(&c.ObjectStore.Region, "MINIO_REGION")
	if !c.ObjectStore.UseSSL {
		if v, err := strconv.ParseBool(getenv("MINIO_USE_SSL")); err == nil {
			c.ObjectStore.UseSSL = v
		}
	}
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	mergeString(&result.Stash, defaults.Stash)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.League, defaults.League)
	mergeString(&result.RegistryFile, defaults.RegistryFile)
	mergeString(&result.OnCollision, defaults.OnCollision)
	mergeString(&result.LogLevel, defaults.LogLevel)
	mergeString(&result.LogFormat, defaults.LogFormat)
	mergeString(&result.ObjectStore.Endpoint, defaults.ObjectStore.Endpoint)
	mergeString(&result.ObjectStore.AccessKey, defaults.ObjectStore.AccessKey)
	mergeString(&result.ObjectStore.SecretKey, defaults.ObjectStore.SecretKey)
	mergeString(&result.ObjectStore.Region, defaults.ObjectStore.Region)

	// Bools cannot distinguish unset from false, so a true on either side wins.
	result.UseDB = result.UseDB || defaults.UseDB
	result.SkipClean = result.SkipClean || defaults.SkipClean
	result.AllowUnknown = result.AllowUnknown || defaults.AllowUnknown
	result.Verbose = result.Verbose || defaults.Verbose
	result.ObjectStore.UseSSL = result.ObjectStore.UseSSL || defaults.ObjectStore.UseSSL

	return result
}

func mergeString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

// Validate checks field values with struct tags, then the cross-field rules.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("config error: %s", describe(fieldErrs[0]))
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.UseDB && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'use_db' requires 'database_url' or DATABASE_URL")
	}

	if c.StashIsObjectStore() {
		if _, _, err := SplitObjectURL(c.Stash); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		if c.ObjectStore.Endpoint == "" {
			return fmt.Errorf("config error: s3 stash requires 'object_store.endpoint' or MINIO_ENDPOINT")
		}
	} else if c.Stash != "" {
		if info, err := os.Stat(c.Stash); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: stash path is not a directory: %s", c.Stash)
		}
	}

	if c.RegistryFile != "" {
		if _, err := os.Stat(c.RegistryFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: registry file not found: %s", c.RegistryFile)
		}
	}

	return nil
}

// Destination resolves the single sink for the run: stash, then store, then terminal.
func (c *Config) Destination() Destination {
	switch {
	case c.Stash != "":
		return DestinationStash
	case c.UseDB:
		return DestinationStore
	default:
		return DestinationTerminal
	}
}

// Overridden lists configured destinations that Destination did not pick.
func (c *Config) Overridden() []Destination {
	if c.Stash != "" && c.UseDB {
		return []Destination{DestinationStore}
	}
	return nil
}

// StashIsObjectStore reports whether the stash target is an s3:// URL.
func (c *Config) StashIsObjectStore() bool {
	return strings.HasPrefix(c.Stash, "s3://")
}

// SplitObjectURL splits s3://bucket/prefix into its bucket and key prefix.
func SplitObjectURL(raw string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 URL: %s", raw)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("s3 URL has no bucket: %s", raw)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "hostname_port":
		return fmt.Sprintf("'%s' must be host:port, got %q", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("'%s' failed %s validation", fe.Field(), fe.Tag())
	}
}
