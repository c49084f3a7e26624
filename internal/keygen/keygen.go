// Package keygen turns extracted records into localization table rows: one
// row per distinct value, keyed by a unique symbolic name.
package keygen

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"zh-extractor/internal/interpolation"
	"zh-extractor/internal/parser"
	"zh-extractor/internal/textutil"
	"zh-extractor/internal/worker"
)

// Namer proposes an UPPER_SNAKE name for a piece of Chinese text. folder is
// the module the text was found in and may be used as context.
type Namer interface {
	Name(ctx context.Context, text, folder string) (string, error)
}

// Row is one line of a localization table.
type Row struct {
	Key   string
	Value string
	// Pos is "File.cs---line" of the first occurrence.
	Pos string
}

type Generator struct {
	namer   Namer
	maxLen  int
	workers int
}

// NewGenerator creates a Generator. Keys are cut to maxLen before any
// collision suffix is added; maxLen <= 0 disables the limit.
func NewGenerator(namer Namer, maxLen, workers int) *Generator {
	return &Generator{namer: namer, maxLen: maxLen, workers: workers}
}

// Unique keeps the first record of each distinct normalized value.
func Unique(records []parser.ExtractionRecord) []parser.ExtractionRecord {
	seen := make(map[string]bool, len(records))
	var out []parser.ExtractionRecord
	for _, r := range records {
		if seen[r.NormalizedValue] {
			continue
		}
		seen[r.NormalizedValue] = true
		out = append(out, r)
	}
	return out
}

// Prefix is the key prefix for a module folder: "Battle" -> "BATTLE".
func Prefix(folder string) string {
	return Sanitize(folder)
}

// Build deduplicates records and names each distinct value. Rows keep the
// order in which values were first seen. Names that collide get _2, _3, ...
// suffixes in that order.
func (g *Generator) Build(ctx context.Context, folder string, records []parser.ExtractionRecord) ([]Row, error) {
	unique := Unique(records)
	prefix := Prefix(folder)

	pool := worker.NewPool(g.workers, func(ctx context.Context, rec parser.ExtractionRecord) (string, error) {
		return g.key(ctx, prefix, folder, rec.NormalizedValue)
	})
	results := pool.Execute(ctx, unique)

	rows := make([]Row, 0, len(results))
	used := make(map[string]int, len(results))
	for _, res := range results {
		if res.Err != nil {
			return nil, fmt.Errorf("name %q: %w", res.Input.NormalizedValue, res.Err)
		}
		key := res.Result
		if n := used[key]; n > 0 {
			for {
				n++
				candidate := key + "_" + strconv.Itoa(n)
				if used[candidate] == 0 {
					used[key] = n
					key = candidate
					break
				}
			}
			log.Debug().Str("key", key).Str("value", res.Input.NormalizedValue).Msg("Resolved key collision")
		}
		used[key] = 1

		rows = append(rows, Row{
			Key:   key,
			Value: res.Input.NormalizedValue,
			Pos:   Pos(res.Input),
		})
	}
	return rows, nil
}

func (g *Generator) key(ctx context.Context, prefix, folder, value string) (string, error) {
	text := strings.TrimSpace(interpolation.Strip(value))
	if !textutil.ContainsChinese(text) {
		if n := interpolation.Placeholders(value); n > 0 {
			return join(prefix, "PARAM_"+strconv.Itoa(n)), nil
		}
		return join(prefix, "TEXT"), nil
	}

	name, err := g.namer.Name(ctx, value, folder)
	if err != nil {
		return "", err
	}
	body := Sanitize(name)
	if prefix != "" {
		body = strings.TrimPrefix(body, prefix+"_")
	}
	if body == "" || body == prefix {
		body = "TEXT"
	}

	if limit := g.maxLen - len(prefix) - 1; g.maxLen > 0 && limit > 0 && len(body) > limit {
		cut := body[:limit]
		if body[limit] != '_' {
			if i := strings.LastIndexByte(cut, '_'); i > 0 {
				cut = cut[:i]
			}
		}
		body = strings.TrimRight(cut, "_")
	}
	return join(prefix, body), nil
}

func join(prefix, body string) string {
	if prefix == "" {
		return body
	}
	return prefix + "_" + body
}

// Pos formats a record position as "File.cs---line".
func Pos(r parser.ExtractionRecord) string {
	return filepath.Base(r.FilePath) + "---" + strconv.Itoa(r.Line)
}

// Sanitize upper-cases s and reduces it to [A-Z0-9_] with single
// underscores between words.
func Sanitize(s string) string {
	var sb strings.Builder
	pending := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			r -= 'a' - 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			pending = sb.Len() > 0
			continue
		}
		if pending {
			sb.WriteByte('_')
			pending = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
