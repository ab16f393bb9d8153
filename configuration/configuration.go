// Package configuration defines the on-disk configuration format for the
// rsyncdiff CLI, parsed from YAML with a handful of environment variable
// overrides.
package configuration

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Version is the configuration document's format version.
type Version string

// CurrentVersion is the only Version this package understands. There is no
// migration path yet: a document naming any other version is rejected.
const CurrentVersion Version = "0.1"

// Configuration is a rsyncdiff configuration, provided by a yaml file and
// optionally overridden by environment variables.
type Configuration struct {
	// Version must be CurrentVersion, or empty (treated as CurrentVersion).
	Version Version `yaml:"version"`

	// Log configures the logging subsystem.
	Log Log `yaml:"log"`

	// Signature configures the defaults used when no per-invocation flag
	// overrides them.
	Signature Signature `yaml:"signature"`

	// Metrics configures the prometheus metrics endpoint.
	Metrics Metrics `yaml:"metrics,omitempty"`
}

// Log represents the logging configuration.
type Log struct {
	// Level is the granularity at which operations are logged.
	Level Loglevel `yaml:"level,omitempty"`

	// Formatter overrides the default formatter. Options are "text" and
	// "json".
	Formatter string `yaml:"formatter,omitempty"`

	// Fields allows static fields to be attached to every log line.
	Fields map[string]interface{} `yaml:"fields,omitempty"`
}

// Loglevel is a log level, typically one of error, warn, info, debug.
type Loglevel string

// Signature holds the defaults applied to signature construction and delta
// computation when a command-line flag does not override them.
type Signature struct {
	// BlockSize is the default block size, in bytes.
	BlockSize uint32 `yaml:"blocksize,omitempty"`

	// HashAlgorithm selects the strong-hash family: "md4" or "blake3".
	HashAlgorithm string `yaml:"hashalgorithm,omitempty"`

	// Parallel enables the block-aligned goroutine-parallel diff matcher
	// for BLAKE3 signatures.
	Parallel bool `yaml:"parallel,omitempty"`
}

// Metrics configures the prometheus metrics HTTP endpoint served by the
// rsyncdiff binary while a subcommand runs.
type Metrics struct {
	// Enabled turns on the /metrics endpoint.
	Enabled bool `yaml:"enabled,omitempty"`

	// Addr is the address the metrics endpoint listens on, e.g. ":5001".
	Addr string `yaml:"addr,omitempty"`
}

// Parse parses an input configuration yaml document into a Configuration,
// then applies environment variable overrides on top of it.
func Parse(in []byte) (*Configuration, error) {
	config := &Configuration{}
	if err := yaml.Unmarshal(in, config); err != nil {
		return nil, err
	}

	if config.Version == "" {
		config.Version = CurrentVersion
	} else if config.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported configuration version: %q", config.Version)
	}

	overrideFromEnvironment(config)
	return config, nil
}

// overrideFromEnvironment applies the small, fixed set of RSYNCDIFF_*
// environment variables this configuration supports. There is no general
// reflection-driven override mechanism here: Configuration has few enough
// scalar fields that naming them directly is clearer than walking the
// struct generically.
func overrideFromEnvironment(c *Configuration) {
	if v, ok := os.LookupEnv("RSYNCDIFF_LOG_LEVEL"); ok {
		c.Log.Level = Loglevel(v)
	}
	if v, ok := os.LookupEnv("RSYNCDIFF_LOG_FORMATTER"); ok {
		c.Log.Formatter = v
	}
	if v, ok := os.LookupEnv("RSYNCDIFF_SIGNATURE_BLOCKSIZE"); ok {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			c.Signature.BlockSize = uint32(n)
		}
	}
	if v, ok := os.LookupEnv("RSYNCDIFF_SIGNATURE_HASHALGORITHM"); ok {
		c.Signature.HashAlgorithm = v
	}
	if v, ok := os.LookupEnv("RSYNCDIFF_SIGNATURE_PARALLEL"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Signature.Parallel = b
		}
	}
	if v, ok := os.LookupEnv("RSYNCDIFF_METRICS_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Metrics.Enabled = b
		}
	}
	if v, ok := os.LookupEnv("RSYNCDIFF_METRICS_ADDR"); ok {
		c.Metrics.Addr = v
	}
}
