package filewalker

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zh-extractor/internal/callctx"
	"zh-extractor/internal/parser"
)

// Test Plan:
// - Walk returns only files a parser accepts, with slash-separated Rel paths
// - ignored folder names, folder suffixes, globs and .gitignore prune the tree
// - Filter drops files
// - Folders lists top-level module folders in order without excluded ones

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("class A {}"), 0o644))
	}
	return root
}

func csParser() parser.Parser {
	return parser.NewCSharpParser(callctx.NewResolver(callctx.NewMatcher(nil)))
}

func rels(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Rel
	}
	sort.Strings(out)
	return out
}

func TestWalk_FiltersByParserAndFolders(t *testing.T) {
	root := writeTree(t,
		"Battle/BattlePanel.cs",
		"Battle/readme.txt",
		"Battle/View/Hud.CS",
		"Battle/UIBind/BattleBind.cs",
		"Battle/Bind/Gen.cs",
		".git/hooks/x.cs",
		"node_modules/pkg/y.cs",
		"Draw/DrawPanel.cs",
	)

	w, err := NewWalker(Options{
		IgnoreFolders:  []string{".git", "node_modules"},
		FolderSuffixes: []string{"bind"},
	}, csParser())
	require.NoError(t, err)

	entries, err := w.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Battle/BattlePanel.cs",
		"Battle/View/Hud.CS",
		"Draw/DrawPanel.cs",
	}, rels(entries))
	for _, e := range entries {
		assert.True(t, filepath.IsAbs(e.Path))
		assert.Equal(t, ".cs", e.Ext)
		assert.NotNil(t, e.Parser)
	}
}

func TestWalk_Globs(t *testing.T) {
	root := writeTree(t,
		"Form.Designer.cs",
		"UI/Main.Designer.cs",
		"UI/Main.cs",
		"Generated/Proto.cs",
	)

	w, err := NewWalker(Options{
		IgnoreGlobs: []string{"**/*.Designer.cs", "Generated"},
	}, csParser())
	require.NoError(t, err)

	entries, err := w.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"UI/Main.cs"}, rels(entries))
}

func TestWalk_Gitignore(t *testing.T) {
	root := writeTree(t,
		"Keep.cs",
		"Temp/Scratch.cs",
		"Old.cs",
	)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("Temp/\nOld.cs\n"), 0o644))

	w, err := NewWalker(Options{UseGitignore: true}, csParser())
	require.NoError(t, err)
	entries, err := w.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"Keep.cs"}, rels(entries))

	w, err = NewWalker(Options{}, csParser())
	require.NoError(t, err)
	entries, err = w.Walk(root)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestWalk_Filter(t *testing.T) {
	root := writeTree(t, "A.cs", "B.cs")

	w, err := NewWalker(Options{
		Filter: func(path string) bool { return strings.HasSuffix(path, "B.cs") },
	}, csParser())
	require.NoError(t, err)

	entries, err := w.Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"B.cs"}, rels(entries))
}

func TestWalk_Errors(t *testing.T) {
	w, err := NewWalker(Options{}, csParser())
	require.NoError(t, err)

	_, err = w.Walk(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "stat root")

	root := writeTree(t, "A.cs")
	_, err = w.Walk(filepath.Join(root, "A.cs"))
	assert.ErrorContains(t, err, "not a directory")

	_, err = NewWalker(Options{IgnoreGlobs: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestFolders(t *testing.T) {
	root := writeTree(t,
		"Draw/A.cs",
		"Battle/B.cs",
		"CommonBind/C.cs",
		".svn/D.cs",
		"root.cs",
	)

	w, err := NewWalker(Options{
		IgnoreFolders:  []string{".svn"},
		FolderSuffixes: []string{"Bind"},
	})
	require.NoError(t, err)

	names, err := w.Folders(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"Battle", "Draw"}, names)

	assert.True(t, w.SkipFolder("bind"))
	assert.True(t, w.SkipFolder("HeroBIND"))
	assert.False(t, w.SkipFolder("Binding"))
}
