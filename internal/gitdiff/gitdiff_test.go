package gitdiff

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNameList(t *testing.T) {
	out := "Battle/BattlePanel.cs\n\n  Draw/DrawPanel.cs  \n\"UI/\\346\\212\\275\\345\\215\\241.cs\"\n\"a\\\"b.cs\"\n"

	assert.Equal(t, []string{
		"Battle/BattlePanel.cs",
		"Draw/DrawPanel.cs",
		"UI/抽卡.cs",
		`a"b.cs`,
	}, ParseNameList(out))
	assert.Empty(t, ParseNameList(""))
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func TestChangedFiles(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	repo, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	write := func(rel, body string) {
		path := filepath.Join(repo, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	runGit(t, repo, "init", "-q")
	write("Function/Battle/A.cs", "class A {}")
	write("Function/Battle/B.cs", "class B {}")
	write("Other/C.cs", "class C {}")
	runGit(t, repo, "add", ".")
	runGit(t, repo, "commit", "-q", "-m", "init")

	write("Function/Battle/A.cs", `class A { string s = "中文"; }`)
	write("Function/Battle/New.cs", "class N {}")
	write("Other/C.cs", "class C { }")
	require.NoError(t, os.Remove(filepath.Join(repo, "Function", "Battle", "B.cs")))

	files, err := ChangedFiles(context.Background(), filepath.Join(repo, "Function"), "HEAD")
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{
		filepath.Join(repo, "Function", "Battle", "A.cs"):   true,
		filepath.Join(repo, "Function", "Battle", "New.cs"): true,
	}, files)
}

func TestChangedFiles_NotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	_, err := ChangedFiles(context.Background(), t.TempDir(), "HEAD")
	assert.ErrorContains(t, err, "find repository root")
}
