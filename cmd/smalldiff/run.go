package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/qri-io/smalldiff"
	"github.com/scott-cotton/cli"
)

func run(cfg *Config, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: expected 2 files, got %d", cli.ErrUsage, len(args))
	}
	if err := cfg.load(); err != nil {
		return err
	}

	log := newLogger(os.Stderr, cfg.Verbose)
	differs, err := compareFiles(cfg, cc.Out, log, args[0], args[1])
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// compareFiles writes a report of the differences between two documents to
// w, returning true if any were found
func compareFiles(cfg *Config, w io.Writer, log *slog.Logger, expectedPath, actualPath string) (bool, error) {
	expected, err := readDocument(expectedPath)
	if err != nil {
		return false, err
	}
	actual, err := readDocument(actualPath)
	if err != nil {
		return false, err
	}

	opts, err := cfg.diffOptions()
	if err != nil {
		return false, err
	}
	stats := &smalldiff.Stats{}
	opts = append(opts,
		smalldiff.OptionPrintDiff(w),
		smalldiff.OptionSetStats(stats),
		smalldiff.OptionLogger(log),
	)

	d, err := smalldiff.Compare(expected, actual, opts...)
	if err != nil {
		return false, fmt.Errorf("comparing %s with %s: %w", expectedPath, actualPath, err)
	}
	log.Debug("compared files", "expected", expectedPath, "actual", actualPath, "differences", len(d))

	if cfg.Stats {
		if _, err := io.WriteString(w, smalldiff.FormatPrettyStats(stats)); err != nil {
			return false, err
		}
	}
	return !d.Empty(), nil
}

// readDocument parses a YAML file, JSON files are read the same way
func readDocument(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return doc, nil
}
