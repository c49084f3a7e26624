package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultExclusions(t *testing.T) {
	ex := DefaultExclusions()

	assert.Contains(t, ex.ExcludedCalls, "Debug.LogError")
	assert.Contains(t, ex.ExcludedCalls, "SLApp.Log.Info")
	assert.Contains(t, ex.ExcludedCalls, "UnityEngine.Debug.")
	assert.Contains(t, ex.ExcludedCalls, "new ArgumentNullException")
	assert.Contains(t, ex.ExcludedCalls, "new System.ArgumentNullException")
	assert.Equal(t, []string{"bind"}, ex.FolderSuffixes)
	assert.Equal(t, []string{".cs"}, ex.Extensions)
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exclusions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadExclusions_Extends(t *testing.T) {
	path := writeYAML(t, `
excluded_calls:
  - GameLog.Trace
  - "Toast."
ignore_folders: [Generated]
ignore_globs:
  - "**/*.Designer.cs"
glossary:
  武将: HERO
`)

	ex, err := LoadExclusions(path)
	require.NoError(t, err)

	assert.Contains(t, ex.ExcludedCalls, "Debug.LogError")
	assert.Contains(t, ex.ExcludedCalls, "GameLog.Trace")
	assert.Contains(t, ex.ExcludedCalls, "Toast.")
	assert.Contains(t, ex.IgnoreFolders, ".git")
	assert.Contains(t, ex.IgnoreFolders, "Generated")
	assert.Equal(t, []string{"**/*.Designer.cs"}, ex.IgnoreGlobs)
	assert.Equal(t, []string{".cs"}, ex.Extensions)
	assert.Equal(t, map[string]string{"武将": "HERO"}, ex.Glossary)
}

func TestLoadExclusions_Replace(t *testing.T) {
	path := writeYAML(t, `
replace: true
excluded_calls: [Logger.Info]
folder_suffixes: [_gen]
`)

	ex, err := LoadExclusions(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Logger.Info"}, ex.ExcludedCalls)
	assert.Equal(t, []string{"_gen"}, ex.FolderSuffixes)
	assert.Empty(t, ex.IgnoreFolders)
	assert.Equal(t, []string{".cs"}, ex.Extensions)
	assert.False(t, ex.Replace)
}

func TestLoadExclusions_Errors(t *testing.T) {
	_, err := LoadExclusions(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read exclusions")

	_, err = LoadExclusions(writeYAML(t, "excluded_calls: {not: [a list"))
	assert.ErrorContains(t, err, "parse exclusions")
}

func TestLoadExclusions_EmptyPath(t *testing.T) {
	ex, err := LoadExclusions("")
	require.NoError(t, err)
	assert.Equal(t, DefaultExclusions(), ex)
}
