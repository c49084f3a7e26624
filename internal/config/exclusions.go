package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Exclusions configures what a scan skips. It is read once per run and
// shared read-only by all workers.
type Exclusions struct {
	// ExcludedCalls lists call heads whose string arguments are never
	// extracted. See callctx.Matcher for the entry forms.
	ExcludedCalls []string `yaml:"excluded_calls"`
	// IgnoreFolders are directory names skipped during traversal.
	IgnoreFolders []string `yaml:"ignore_folders"`
	// FolderSuffixes skip directories whose name ends with any entry,
	// compared case-insensitively.
	FolderSuffixes []string `yaml:"folder_suffixes"`
	// IgnoreGlobs are slash-separated patterns matched against paths
	// relative to the scan root.
	IgnoreGlobs []string `yaml:"ignore_globs"`
	Extensions  []string `yaml:"extensions"`
	// Glossary adds or overrides Chinese to English words used when
	// naming keys offline.
	Glossary map[string]string `yaml:"glossary"`
	// Replace discards the defaults instead of extending them.
	Replace bool `yaml:"replace"`
}

var exceptionTypes = []string{
	"Exception",
	"NullReferenceException",
	"ArgumentNullException",
	"ArgumentException",
	"IndexOutOfRangeException",
	"InvalidOperationException",
	"NotImplementedException",
	"UnauthorizedAccessException",
	"KeyNotFoundException",
	"DivideByZeroException",
	"OverflowException",
	"FormatException",
	"TimeoutException",
	"IOException",
	"DirectoryNotFoundException",
	"FileNotFoundException",
	"PathTooLongException",
}

// DefaultExclusions returns the built-in logging APIs, exception
// constructors and folders.
func DefaultExclusions() *Exclusions {
	calls := []string{
		"Debug.Log",
		"Debug.LogError",
		"Debug.LogWarning",
		"Debug.LogFormat",
		"Debug.LogException",
		"SLApp.Log.Info",
		"SLApp.Log.Warning",
		"SLApp.Log.Error",
		"SLApp.Debug.Log",
		"SLApp.Debug.LogFormat",
		"SLApp.Debug.LogError",
		"SLApp.Debug.LogWatchBegin",
		"SLApp.Debug.LogWatchEnd",
		"UnityEngine.Debug.",
		"Console.WriteLine",
		"System.Console.WriteLine",
		"UnityEditor.EditorUtility.DisplayDialog",
		"EditorUtility.DisplayDialog",
		".LogException",
		".LogErrorException",
		"ExceptionHelper.",
	}
	for _, t := range exceptionTypes {
		calls = append(calls, "new "+t, "new System."+t)
	}

	return &Exclusions{
		ExcludedCalls:  calls,
		IgnoreFolders:  []string{".git", ".svn", "node_modules"},
		FolderSuffixes: []string{"bind"},
		Extensions:     []string{".cs"},
	}
}

// LoadExclusions returns the defaults extended by the YAML file at path.
// An empty path yields the defaults.
func LoadExclusions(path string) (*Exclusions, error) {
	ex := DefaultExclusions()
	if path == "" {
		return ex, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exclusions: %w", err)
	}
	var file Exclusions
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse exclusions %s: %w", path, err)
	}

	if file.Replace {
		if len(file.Extensions) == 0 {
			file.Extensions = ex.Extensions
		}
		file.Replace = false
		return &file, nil
	}

	ex.ExcludedCalls = append(ex.ExcludedCalls, file.ExcludedCalls...)
	ex.IgnoreFolders = append(ex.IgnoreFolders, file.IgnoreFolders...)
	ex.FolderSuffixes = append(ex.FolderSuffixes, file.FolderSuffixes...)
	ex.IgnoreGlobs = append(ex.IgnoreGlobs, file.IgnoreGlobs...)
	if len(file.Extensions) > 0 {
		ex.Extensions = file.Extensions
	}
	ex.Glossary = file.Glossary
	return ex, nil
}
