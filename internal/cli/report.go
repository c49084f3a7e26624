package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"zh-extractor/internal/parser"
	"zh-extractor/internal/textutil"
)

// printSummary renders one line per exported folder with a totals footer.
func printSummary(out io.Writer, summaries []folderSummary) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Folder", "Files", "Literals", "Extracted", "Skipped", "Keys", "Output"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	var files, keys int
	var total parser.Stats
	for _, s := range summaries {
		output := s.Path
		if output == "" {
			output = "-"
		}
		table.Append([]string{
			s.Name,
			strconv.Itoa(s.Files),
			strconv.Itoa(s.Stats.Literals),
			strconv.Itoa(s.Stats.Extracted),
			strconv.Itoa(skipped(s.Stats)),
			strconv.Itoa(s.Rows),
			output,
		})
		files += s.Files
		keys += s.Rows
		total.Add(s.Stats)
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(summaries)),
		strconv.Itoa(files),
		strconv.Itoa(total.Literals),
		strconv.Itoa(total.Extracted),
		strconv.Itoa(skipped(total)),
		strconv.Itoa(keys),
		"",
	})
	table.Render()
}

// skipped counts literals that contained Chinese but were excluded.
func skipped(s parser.Stats) int {
	return s.InHeader + s.InAttribute + s.ExcludedCall + s.Unterminated
}

// printRecords lists extracted literals with paths relative to the scanned
// directory.
func printRecords(out io.Writer, res *folderResult) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"File", "Line", "Call", "Value"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, r := range res.Records {
		path := r.FilePath
		if rel, err := filepath.Rel(res.Dir, r.FilePath); err == nil {
			path = filepath.ToSlash(rel)
		}
		call := r.Call
		if call == "" {
			call = "-"
		}
		table.Append([]string{path, strconv.Itoa(r.Line), call, textutil.Truncate(r.NormalizedValue, 60)})
	}
	table.Render()
}

func printStats(out io.Writer, res *folderResult) {
	s := res.Stats
	fmt.Fprintf(out, "\n%d files, %d literals: %d extracted, %d without Chinese, %d in headers, %d in attributes, %d in excluded calls, %d unterminated\n",
		res.Files, s.Literals, s.Extracted, s.NoChinese, s.InHeader, s.InAttribute, s.ExcludedCall, s.Unterminated)
}

func printDiagnostics(out io.Writer, diags []parser.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%d diagnostics:\n", len(diags))
	for i := range diags {
		fmt.Fprintf(out, "  %s\n", diags[i].Error())
	}
}
