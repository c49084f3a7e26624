// Package gitdiff lists files changed since a git revision so a scan can be
// limited to them.
package gitdiff

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ChangedFiles returns absolute paths of files under dir that differ between
// base and the working tree, untracked files included. Deleted files are
// not reported.
func ChangedFiles(ctx context.Context, dir, base string) (map[string]bool, error) {
	top, err := git(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, fmt.Errorf("find repository root: %w", err)
	}
	repoRoot := strings.TrimSpace(top)

	diff, err := git(ctx, dir, "diff", "--name-only", "--diff-filter=d", base, "--", ".")
	if err != nil {
		return nil, fmt.Errorf("git diff --name-only: %w", err)
	}
	untracked, err := git(ctx, dir, "ls-files", "--others", "--exclude-standard", "--full-name", "--", ".")
	if err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	files := make(map[string]bool)
	for _, name := range append(ParseNameList(diff), ParseNameList(untracked)...) {
		files[filepath.Join(repoRoot, filepath.FromSlash(name))] = true
	}

	log.Info().Int("files", len(files)).Str("base", base).Msg("Found changed files in Git diff")
	return files, nil
}

// ParseNameList splits `git diff --name-only` style output into paths.
func ParseNameList(output string) []string {
	var files []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			files = append(files, unquote(line))
		}
	}
	return files
}

// unquote undoes git's C-style quoting of paths with special characters,
// e.g. "UI/\346\212\275\345\215\241.cs".
func unquote(name string) string {
	if len(name) < 2 || name[0] != '"' || name[len(name)-1] != '"' {
		return name
	}
	body := name[1 : len(name)-1]
	var out []byte
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			out = append(out, c)
			continue
		}
		i++
		switch e := body[i]; {
		case e >= '0' && e <= '7' && i+2 < len(body):
			out = append(out, (e-'0')<<6|(body[i+1]-'0')<<3|(body[i+2]-'0'))
			i += 2
		case e == 'n':
			out = append(out, '\n')
		case e == 't':
			out = append(out, '\t')
		default:
			out = append(out, e)
		}
	}
	return string(out)
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	output, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(ee.Stderr)))
		}
		return "", err
	}
	return string(output), nil
}
