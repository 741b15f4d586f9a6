package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"optivet/internal/config"
	"optivet/internal/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	return cmd, buf
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, logLevel("", false))
	assert.Equal(t, zapcore.InfoLevel, logLevel("nonsense", false))
	assert.Equal(t, zapcore.WarnLevel, logLevel("warn", false))
	assert.Equal(t, zapcore.DebugLevel, logLevel("debug", false))
	assert.Equal(t, zapcore.DebugLevel, logLevel("warn", true))
}

func TestRunDiff_JSON(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "a\nb\nc")
	b := writeFile(t, dir, "b.txt", "a\nx\nc")

	diffJSON = true
	defer func() { diffJSON = false }()

	cmd, buf := newTestCmd()
	require.NoError(t, runDiff(cmd, []string{a, b}))

	var payload struct {
		Diff []struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		} `json:"diff"`
		Stats struct {
			ChangePercent int `json:"changePercent"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	require.Len(t, payload.Diff, 4)
	assert.Equal(t, "removed", payload.Diff[1].Type)
	assert.Equal(t, "added", payload.Diff[2].Type)
	assert.Equal(t, 50, payload.Stats.ChangePercent)
}

func TestRunDiff_StatsLine(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "same\nsame")
	b := writeFile(t, dir, "b.txt", "same\nsame")

	statsOnly = true
	noColor = true
	defer func() { statsOnly = false; noColor = false }()

	cmd, buf := newTestCmd()
	require.NoError(t, runDiff(cmd, []string{a, b}))
	assert.Equal(t, "+0 -0 =2 (0% changed)\n", buf.String())
}

func TestRunValidate(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	logger = zap.NewNop()
	dir := t.TempDir()

	original := "function keep() { return 1; }"
	orig := writeFile(t, dir, "orig.js", original)
	good := writeFile(t, dir, "good.txt", "```javascript\nfunction keep() { return 1; }\n```")
	bad := writeFile(t, dir, "bad.txt", "")

	cmd, buf := newTestCmd()
	require.NoError(t, runValidate(cmd, []string{orig, good, bad}))

	var results []types.OptimizationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &results))
	require.Len(t, results, 2)

	assert.True(t, results[0].Parsed)
	assert.Equal(t, 100, results[0].Confidence)

	assert.False(t, results[1].Parsed)
	assert.Equal(t, original, results[1].OptimizedCode)
	assert.NotEmpty(t, results[1].ParseWarning)
}

func TestRunValidate_SingleResultIsObject(t *testing.T) {
	t.Setenv(config.EnvConfigPath, "")
	logger = zap.NewNop()
	dir := t.TempDir()

	orig := writeFile(t, dir, "orig.js", "x = 1")
	raw := writeFile(t, dir, "raw.txt", "x = 1")

	cmd, buf := newTestCmd()
	require.NoError(t, runValidate(cmd, []string{orig, raw}))

	var result types.OptimizationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.True(t, result.Parsed)
	assert.True(t, result.NoChange)
}
