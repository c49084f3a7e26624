package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
	ignore "github.com/sabhiram/go-gitignore"

	"zh-extractor/internal/parser"
)

// Options controls which directories and files a Walker visits.
type Options struct {
	// IgnoreFolders are directory names skipped wherever they appear.
	IgnoreFolders []string
	// FolderSuffixes skip directories whose name ends with any entry,
	// compared case-insensitively.
	FolderSuffixes []string
	// IgnoreGlobs are matched against slash-separated paths relative to the
	// walk root.
	IgnoreGlobs []string
	// UseGitignore honours a .gitignore at the walk root.
	UseGitignore bool
	// Filter, when set, must return true for a file to be kept.
	Filter func(path string) bool
}

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Walker traverses directories and dispatches files to the correct parser.
type Walker struct {
	parsers       []parser.Parser
	ignoreFolders map[string]bool
	suffixes      []string
	globs         []compiledPattern
	gitignore     bool
	filter        func(path string) bool
}

// NewWalker creates a Walker. It fails only on an invalid glob pattern.
func NewWalker(opts Options, parsers ...parser.Parser) (*Walker, error) {
	w := &Walker{
		parsers:       parsers,
		ignoreFolders: make(map[string]bool, len(opts.IgnoreFolders)),
		gitignore:     opts.UseGitignore,
		filter:        opts.Filter,
	}
	for _, name := range opts.IgnoreFolders {
		w.ignoreFolders[name] = true
	}
	for _, s := range opts.FolderSuffixes {
		if s != "" {
			w.suffixes = append(w.suffixes, strings.ToLower(s))
		}
	}
	for _, pattern := range opts.IgnoreGlobs {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", pattern, err)
		}
		w.globs = append(w.globs, compiledPattern{pattern: pattern, glob: g})
	}
	return w, nil
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path string
	// Rel is Path relative to the walk root, slash-separated.
	Rel    string
	Ext    string
	Parser parser.Parser
}

// SkipFolder reports whether a directory with this base name is excluded.
func (w *Walker) SkipFolder(name string) bool {
	if w.ignoreFolders[name] {
		return true
	}
	lower := strings.ToLower(name)
	for _, s := range w.suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// Folders lists the immediate, non-excluded subdirectories of root in name
// order.
func (w *Walker) Folders(root string) ([]string, error) {
	items, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var names []string
	for _, item := range items {
		if item.IsDir() && !w.SkipFolder(item.Name()) {
			names = append(names, item.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Walk discovers all supported files under the given root directory.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var gitignore *ignore.GitIgnore
	if w.gitignore {
		gitignore = loadGitignore(root)
	}

	var entries []FileEntry

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if path != root && (w.SkipFolder(info.Name()) || w.ignored(rel, gitignore)) {
				return filepath.SkipDir
			}
			return nil
		}

		if w.ignored(rel, gitignore) {
			return nil
		}
		if w.filter != nil && !w.filter(path) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		for _, p := range w.parsers {
			if p.CanParse(ext) {
				entries = append(entries, FileEntry{
					Path:   path,
					Rel:    rel,
					Ext:    ext,
					Parser: p,
				})
				break
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}

// ParseFile parses a single file using the appropriate parser.
func (w *Walker) ParseFile(entry FileEntry) (*parser.ParseResult, error) {
	return entry.Parser.Parse(entry.Path)
}

func (w *Walker) ignored(rel string, gitignore *ignore.GitIgnore) bool {
	if gitignore != nil && gitignore.MatchesPath(rel) {
		return true
	}
	for _, cp := range w.globs {
		if cp.glob.Match(rel) || cp.glob.Match(rel+"/**") {
			return true
		}
		// "**/x" also matches x at the root.
		if !strings.Contains(rel, "/") && strings.HasPrefix(cp.pattern, "**/") {
			if g, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/'); err == nil && g.Match(rel) {
				return true
			}
		}
	}
	return false
}

// loadGitignore loads .gitignore from root if it exists.
func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Invalid .gitignore, ignoring it")
		return nil
	}
	return gi
}
