package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/qri-io/smalldiff"
	"github.com/scott-cotton/cli"
)

// Config holds command line options
type Config struct {
	Format     string `cli:"name=format desc='report format: pretty, json or yaml'"`
	Color      bool   `cli:"name=color desc='color pretty reports even when not writing to a terminal'"`
	Stats      bool   `cli:"name=stats desc='print node & difference counts after the report'"`
	ConfigFile string `cli:"name=config desc='TOML file with default options'"`
	Verbose    bool   `cli:"name=v aliases=verbose desc='log debug output to stderr'"`

	Main *cli.Command
}

// FileConfig is the layout of a -config file
//
//	[report]
//	format = "yaml"
//	color = true
//	stats = true
type FileConfig struct {
	Report ReportConfig `toml:"report"`
}

type ReportConfig struct {
	Format string `toml:"format"`
	Color  bool   `toml:"color"`
	Stats  bool   `toml:"stats"`
}

// LoadFileConfig reads a TOML config file
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var fc FileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	return &fc, nil
}

// applyDefaults fills options left unset on the command line from fc.
// command line values always win
func (cfg *Config) applyDefaults(fc *FileConfig) {
	if cfg.Format == "" {
		cfg.Format = fc.Report.Format
	}
	cfg.Color = cfg.Color || fc.Report.Color
	cfg.Stats = cfg.Stats || fc.Report.Stats
}

// load merges the config file, if any, into cfg
func (cfg *Config) load() error {
	if cfg.ConfigFile == "" {
		return nil
	}
	fc, err := LoadFileConfig(cfg.ConfigFile)
	if err != nil {
		return err
	}
	cfg.applyDefaults(fc)
	return nil
}

// diffOptions converts cfg into options for smalldiff
func (cfg *Config) diffOptions() ([]smalldiff.DiffOption, error) {
	f, err := smalldiff.ParseReportFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	opts := []smalldiff.DiffOption{smalldiff.OptionReportFormat(f)}
	if cfg.Color {
		opts = append(opts, smalldiff.OptionColor(true))
	}
	return opts, nil
}
