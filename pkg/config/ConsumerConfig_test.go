package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wostzone/wot-consume/pkg/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	logrus.Infof("--- TestLoadMissingFileReturnsDefaults ---")
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"http", "ws", "mqtt"}, cfg.SchemePriority)
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	logrus.Infof("--- TestLoadOverridesOnlyGivenFields ---")
	dir := t.TempDir()
	file := filepath.Join(dir, "wotconsume.yaml")
	require.NoError(t, os.WriteFile(file, []byte("schemePriority: [mqtt, http]\nlogLevel: debug\n"), 0644))

	cfg, err := config.Load(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"mqtt", "http"}, cfg.SchemePriority)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30, cfg.HTTP.TimeoutSeconds) // untouched default survives
}

func TestLoadInvalidYAMLFails(t *testing.T) {
	logrus.Infof("--- TestLoadInvalidYAMLFails ---")
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("not: [valid"), 0644))

	_, err := config.Load(file)
	assert.Error(t, err)
}
