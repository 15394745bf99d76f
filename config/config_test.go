package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"#", "$"}, cfg.ReservedSigils)
}

func TestLoadOverridesSigils(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quillc.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("reservedSigils: [\"@\"]\n"), 0o644))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, []rune{'@'}, cfg.Sigils())
}
