package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

func barTheme() progressbar.Theme {
	return progressbar.Theme{
		Saucer:        "[green]=[reset]",
		SaucerHead:    "[green]>[reset]",
		SaucerPadding: " ",
		BarStart:      "[",
		BarEnd:        "]",
	}
}

func finishLine(w io.Writer) func() {
	return func() {
		if _, err := fmt.Fprintln(w); err != nil {
			slog.Warn("Failed to write newline after progress bar", "error", err)
		}
	}
}

// NewCountBar returns a progress bar over total items.
func NewCountBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(barTheme()),
		progressbar.OptionOnCompletion(finishLine(w)),
	)
}

// NewByteBar returns a progress bar for a download of total bytes. An
// unknown size (-1) renders a spinner instead.
func NewByteBar(w io.Writer, total int64, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100_000_000),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(barTheme()),
		progressbar.OptionOnCompletion(finishLine(w)),
	)
}

// Advance moves bar forward by one, logging instead of failing on a
// terminal write error.
func Advance(bar *progressbar.ProgressBar) {
	if bar == nil {
		return
	}
	if err := bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}
