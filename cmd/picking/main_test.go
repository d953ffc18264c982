package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/picking/knapsack"
	"github.com/katalvlaran/picking/picker"
	"github.com/katalvlaran/picking/units"
)

// fixture creates files a..e weighing 4, 6, 5, 5 and 10 bytes, and z at 30.
func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	sizes := map[string]int{"a": 4, "b": 6, "c": 5, "d": 5, "e": 10, "z": 30}
	for name, n := range sizes {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), make([]byte, n), 0o644))
	}

	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestRoot_TextOutput(t *testing.T) {
	dir := fixture(t)
	out, _, err := execute(t, "10B", dir)
	require.NoError(t, err)

	want := "10 B:\n\tb\n\ta\n" +
		"10 B:\n\tc\n\td\n" +
		"10 B:\n\te\n" +
		"Overflow:\n\tz\n"
	assert.Equal(t, want, out)
}

func TestRoot_YAMLOutput(t *testing.T) {
	dir := fixture(t)
	out, _, err := execute(t, "10", dir, "--format", "yaml")
	require.NoError(t, err)

	var rep report
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "10 B", rep.Limit)
	require.Len(t, rep.Rounds, 3)
	assert.Equal(t, []string{"b", "a"}, rep.Rounds[0].Items)
	assert.Equal(t, uint64(10), rep.Rounds[2].Bytes)
	require.Len(t, rep.Overflow, 1)
	assert.Equal(t, "z", rep.Overflow[0].Name)
	assert.Equal(t, uint64(30), rep.Overflow[0].Bytes)
}

func TestRoot_BadLimit(t *testing.T) {
	_, _, err := execute(t, "lots", t.TempDir())
	require.Error(t, err)
}

func TestRoot_DebugLogging(t *testing.T) {
	dir := fixture(t)
	_, logs, err := execute(t, "10", dir, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, logs, "picker round")
	assert.Contains(t, logs, "picking finished")
}

func TestTargetDir_FallsBack(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	logger, err := newLogger(&bytes.Buffer{}, "error")
	require.NoError(t, err)
	assert.Equal(t, ".", targetDir([]string{"1MB", file}, logger))
	assert.Equal(t, ".", targetDir([]string{"1MB"}, logger))
	dir := t.TempDir()
	assert.Equal(t, dir, targetDir([]string{"1MB", dir}, logger))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picking.yaml")
	data := "limit: 700MB\nthreshold: 20\nseed: 7\nexact_timeout: 2s\nhidden: true\nformat: yaml\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "700MB", cfg.Limit)
	assert.Equal(t, 20, cfg.Threshold)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(7), *cfg.Seed)
	assert.Equal(t, 2*time.Second, cfg.ExactTimeout)
	assert.True(t, cfg.Hidden)
	assert.Equal(t, formatYAML, cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel, "unset keys keep their defaults")
}

func TestLoadConfig_MissingAndInvalid(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: -1\n"), 0o644))
	_, err = loadConfig(path)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("format: xml\n"), 0o644))
	_, err = loadConfig(path)
	require.Error(t, err)
}

func TestWriteText_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	list := []knapsack.Item[string]{{Key: "a", Weight: 6}, {Key: "b", Weight: 7}, {Key: "z", Weight: 30}}
	var i int
	for i = 0; i < 20; i++ {
		p, err := picker.New(10, list, knapsack.WithContext(ctx))
		require.NoError(t, err)

		var buf bytes.Buffer
		err = writeText(ctx, &buf, p, units.B)
		require.ErrorIs(t, err, context.Canceled)
		assert.NotContains(t, buf.String(), "Overflow:")
	}
}
