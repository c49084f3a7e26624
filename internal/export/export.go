// Package export writes localization tables to disk.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"zh-extractor/internal/keygen"
)

// Format selects the table file format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// ParseFormat accepts "csv" or "json".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case CSV, JSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
}

// Ext is the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

var header = []string{"key", "value", "pos"}

// WriteFile writes rows to dir/<folder>.<ext>, creating dir if needed, and
// returns the written path.
func WriteFile(dir, folder string, rows []keygen.Row, format Format) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if format == "" {
		format = CSV
	}
	path := filepath.Join(dir, folder+format.Ext())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s file: %w", format, err)
	}
	defer f.Close()

	switch format {
	case JSON:
		err = writeJSON(f, rows)
	default:
		err = writeCSV(f, rows)
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("rows", len(rows)).Msg("Exported localization table")
	return path, nil
}

// writeCSV writes a header line and one line per row, UTF-8 with a BOM so
// spreadsheet tools detect the encoding.
func writeCSV(f *os.File, rows []keygen.Row) error {
	bw := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	w := csv.NewWriter(bw)

	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Key, r.Value, r.Pos}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return bw.Close()
}

type jsonRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Pos   string `json:"pos"`
}

func writeJSON(f *os.File, rows []keygen.Row) error {
	out := make([]jsonRow, len(rows))
	for i, r := range rows {
		out[i] = jsonRow(r)
	}

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(out)
}
