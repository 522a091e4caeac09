package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kjk/qvtools/remote"
	"gopkg.in/yaml.v3"
)

// Config is loaded from (lowest to highest priority):
// defaults, yaml file, environment variables (QV_*), flags
type Config struct {
	Verbose bool `yaml:"verbose"`
	// LogDir is where daily log files are written, no log files if empty
	LogDir  string        `yaml:"log_dir"`
	Split   SplitConfig   `yaml:"split"`
	Extract ExtractConfig `yaml:"extract"`
	Remote  RemoteConfig  `yaml:"remote"`
}

type SplitConfig struct {
	Prefix string `yaml:"prefix"`
	OutDir string `yaml:"out_dir"`
}

type ExtractConfig struct {
	// Ext is extension of extracted files
	Ext string `yaml:"ext"`
}

// RemoteConfig is S3-compatible storage used by push and pull
type RemoteConfig struct {
	Access   string `yaml:"access"`
	Secret   string `yaml:"secret"`
	Bucket   string `yaml:"bucket"`
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`
	Insecure bool   `yaml:"insecure"`
	Prefix   string `yaml:"prefix"`
	Compress bool   `yaml:"compress"`
}

func defaultConfig() *Config {
	return &Config{
		Split: SplitConfig{
			Prefix: "split",
			OutDir: ".",
		},
		Extract: ExtractConfig{
			Ext: ".pdb",
		},
	}
}

func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "qv", "config.yaml")
}

// configPath returns config file path and true if it was set explicitly
// (with --config or QV_CONFIG) in which case it must exist
func configPath(flagPath string) (string, bool) {
	if p := strings.TrimSpace(flagPath); p != "" {
		return p, true
	}
	if p := strings.TrimSpace(os.Getenv("QV_CONFIG")); p != "" {
		return p, true
	}
	return homeConfigPath(), false
}

// loadConfig loads config from a yaml file over defaults and applies
// environment variables
func loadConfig(path string, mustExist bool) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		d, err := os.ReadFile(path)
		if err != nil {
			if mustExist || !os.IsNotExist(err) {
				return nil, err
			}
		} else if err = yaml.Unmarshal(d, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config '%s': %w", path, err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

func envBool(name string) (bool, bool) {
	switch strings.ToLower(os.Getenv(name)) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	}
	return false, false
}

func setFromEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func applyEnv(cfg *Config) {
	if v, ok := envBool("QV_VERBOSE"); ok {
		cfg.Verbose = v
	}
	setFromEnv(&cfg.LogDir, "QV_LOG_DIR")
	r := &cfg.Remote
	setFromEnv(&r.Access, "QV_S3_ACCESS")
	setFromEnv(&r.Secret, "QV_S3_SECRET")
	setFromEnv(&r.Bucket, "QV_S3_BUCKET")
	setFromEnv(&r.Endpoint, "QV_S3_ENDPOINT")
	setFromEnv(&r.Region, "QV_S3_REGION")
}

func (c *RemoteConfig) toRemote() *remote.Config {
	return &remote.Config{
		Access:   c.Access,
		Secret:   c.Secret,
		Bucket:   c.Bucket,
		Endpoint: c.Endpoint,
		Region:   c.Region,
		Insecure: c.Insecure,
		Prefix:   c.Prefix,
		Compress: c.Compress,
	}
}
