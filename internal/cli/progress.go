package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progress is a per-folder parse progress bar. The zero value and quiet
// runs draw nothing.
type progress struct {
	bar *progressbar.ProgressBar
}

func newProgress(quiet bool, folder string, totalFiles int) *progress {
	if quiet || totalFiles == 0 {
		return &progress{}
	}
	return &progress{
		bar: progressbar.NewOptions(totalFiles,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Scanning "+folder),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files/s"),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		),
	}
}

// Add advances the bar by one file. Safe for concurrent use.
func (p *progress) Add() {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
