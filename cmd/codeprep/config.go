package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the codeprep configuration file
// (~/.config/codeprep/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	Key string `yaml:"key"`

	// Resources
	Dictionary       string `yaml:"dictionary"`
	NonEngDictionary string `yaml:"non_eng_dictionary"`
	Merges           string `yaml:"merges"`
	MergeCache       string `yaml:"merge_cache"`

	Workers *int64 `yaml:"workers"`

	// Vocabulary
	Chunks   *int64 `yaml:"chunks"`
	MaxVocab *int64 `yaml:"max_vocab"`
	WorkDir  string `yaml:"work_dir"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "codeprep", "config.yaml")
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyPrepConfig applies config file defaults shared by the commands that
// build a preprocessor.
func applyPrepConfig(c *cli.Command, cfg Config) {
	if cfg.Key != "" && !c.IsSet("config") {
		configKey = cfg.Key
	}
	if cfg.Dictionary != "" && !c.IsSet("dictionary") {
		dictPath = cfg.Dictionary
	}
	if cfg.NonEngDictionary != "" && !c.IsSet("non-eng-dictionary") {
		nonEngDictPath = cfg.NonEngDictionary
	}
	if cfg.Merges != "" && !c.IsSet("merges") {
		mergesPath = cfg.Merges
	}
	if cfg.MergeCache != "" && !c.IsSet("merge-cache") {
		mergeCachePath = cfg.MergeCache
	}
	if cfg.Workers != nil && !c.IsSet("workers") {
		workers = *cfg.Workers
	}
}

func applyVocabConfig(c *cli.Command, cfg Config, chunks, maxVocab *int64, workDir *string) {
	if cfg.Workers != nil && !c.IsSet("workers") {
		workers = *cfg.Workers
	}
	if cfg.Chunks != nil && !c.IsSet("chunks") {
		*chunks = *cfg.Chunks
	}
	if cfg.MaxVocab != nil && !c.IsSet("max-vocab") {
		*maxVocab = *cfg.MaxVocab
	}
	if cfg.WorkDir != "" && !c.IsSet("work-dir") {
		*workDir = cfg.WorkDir
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	applyPrepConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
