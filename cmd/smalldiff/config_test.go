package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smalldiff.toml")
	require.NoError(t, os.WriteFile(path, []byte("[report]\nformat = \"yaml\"\nstats = true\n"), 0644))

	fc, err := LoadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ReportConfig{Format: "yaml", Stats: true}, fc.Report)

	cases := []struct {
		description string
		flags       Config
		expect      Config
	}{
		{"file fills unset options",
			Config{ConfigFile: path},
			Config{ConfigFile: path, Format: "yaml", Stats: true},
		},
		{"flags win",
			Config{ConfigFile: path, Format: "json", Color: true},
			Config{ConfigFile: path, Format: "json", Color: true, Stats: true},
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			cfg := c.flags
			require.NoError(t, cfg.load())
			assert.Equal(t, c.expect, cfg)
		})
	}
}

func TestLoadFileConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFileConfig(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[report\n"), 0644))
	_, err = LoadFileConfig(bad)
	assert.ErrorContains(t, err, "failed to parse TOML")

	cfg := &Config{}
	assert.NoError(t, cfg.load(), "no config file is not an error")
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	newLogger(buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(buf, true).Debug("compared", "differences", 2)
	assert.Equal(t, "level=DEBUG msg=compared differences=2\n", buf.String())
}
