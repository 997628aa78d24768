// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	x509bundle "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/bundle"
	x509chain "github.com/H0llyW00dzZ/tls-trust-bundle-merger/src/internal/x509/chain"
)

// EnvConfigFile names the environment variable consulted when no config path is given.
const EnvConfigFile = "TRUST_MERGER_CONFIG_FILE"

const (
	defaultTimeoutSeconds = 10
	defaultLogMaxSizeMB   = 10
	defaultLogMaxBackups  = 3
)

// ErrInvalidConfig indicates a configuration document that does not match the schema.
var ErrInvalidConfig = errors.New("config: invalid configuration")

//go:embed schema.json
var schemaJSON string

// Schema returns the JSON Schema configuration files are validated against.
func Schema() string { return schemaJSON }

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Config holds every setting of a merge run.
//
// Values come from hardcoded defaults, then an optional JSON or YAML file;
// the CLI applies explicitly set flags on top.
type Config struct {
	// Target: the TLS endpoint whose chain is captured
	Target struct {
		Host           string `json:"host" yaml:"host"`
		Port           int    `json:"port" yaml:"port"`
		TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	} `json:"target" yaml:"target"`

	// Bundle: the trust bundle to update
	Bundle struct {
		Path                   string `json:"path" yaml:"path"`
		IncludeSelfSignedRoots bool   `json:"includeSelfSignedRoots" yaml:"includeSelfSignedRoots"`
	} `json:"bundle" yaml:"bundle"`

	// Log: optional rotating log file, used by the MCP server
	Log struct {
		File       string `json:"file,omitempty" yaml:"file,omitempty"`
		MaxSizeMB  int    `json:"maxSizeMB,omitempty" yaml:"maxSizeMB,omitempty"`
		MaxBackups int    `json:"maxBackups,omitempty" yaml:"maxBackups,omitempty"`
	} `json:"log" yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.Target.Port = x509chain.DefaultPort
	c.Target.TimeoutSeconds = defaultTimeoutSeconds
	c.Bundle.IncludeSelfSignedRoots = x509bundle.DefaultPolicy().IncludeSelfSignedRoots
	c.Log.MaxSizeMB = defaultLogMaxSizeMB
	c.Log.MaxBackups = defaultLogMaxBackups
	return c
}

// Timeout returns the capture timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Target.TimeoutSeconds) * time.Second
}

// Policy returns the merge policy described by c.
func (c *Config) Policy() x509bundle.Policy {
	return x509bundle.Policy{IncludeSelfSignedRoots: c.Bundle.IncludeSelfSignedRoots}
}

// Load builds a Config from defaults and the file at configPath.
//
// Configuration Priority:
//  1. Default values are set
//  2. the EnvConfigFile environment variable is checked if configPath is empty
//  3. file values override defaults (the file must exist and validate against the schema)
//
// The format is chosen by extension: .yaml and .yml are YAML, anything else is JSON.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath == "" {
		configPath = os.Getenv(EnvConfigFile)
	}
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := decode(data, detectConfigFormat(configPath), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// detectConfigFormat determines the configuration file format based on file extension.
func detectConfigFormat(configPath string) configFormat {
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// decode validates data against the configuration schema and decodes it over cfg.
// Fields absent from data keep their current value.
func decode(data []byte, format configFormat, cfg *Config) error {
	var doc any
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	// An empty document configures nothing.
	if doc == nil {
		doc = map[string]any{}
	}

	if err := validate(doc); err != nil {
		return err
	}

	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// validate checks doc against the embedded JSON Schema.
func validate(doc any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}
