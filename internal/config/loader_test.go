package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadWritesAndReadsDefaults(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, resolved, err := Load(nil, path)
	req.NoError(err)
	req.Equal(path, resolved)
	req.Equal(Default(), cfg)

	// The default file was materialized for the next run.
	_, err = os.Stat(path)
	req.NoError(err)
}

func TestLoadEnvOverrides(t *testing.T) {
	req := require.New(t)

	t.Setenv("VODA_TCP_ADDR", ":9999")
	t.Setenv("VODA_LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, _, err := Load(nil, path)
	req.NoError(err)
	req.Equal(":9999", cfg.TCPAddr)
	req.Equal("debug", cfg.LogLevel)
}
