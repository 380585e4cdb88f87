package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// printProgress renders a single-line ASCII progress bar, throttled by the
// caller to avoid flicker on fast links.
func printProgress(current, total int64, start time.Time) {
	elapsed := time.Since(start).Seconds()
	if elapsed == 0 {
		elapsed = 0.001
	}
	speed := float64(current) / elapsed

	var pct float64
	if total > 0 {
		pct = float64(current) / float64(total) * 100
	}

	bar := renderProgressBar(pct, 30)
	fmt.Printf("\r%s %.1f%% %s/s  ", bar, pct, humanize.Bytes(uint64(speed)))
}

func renderProgressBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled
	if filled > 0 {
		return "[" + strings.Repeat("=", filled-1) + ">" + strings.Repeat(" ", empty) + "]"
	}
	return "[" + strings.Repeat(" ", width) + "]"
}

// progressTrackingWriter wraps an io.Writer, printing a throttled progress
// bar as bytes flow through it. Used to watch download writes land on disk.
type progressTrackingWriter struct {
	w           io.Writer
	total       int64
	written     int64
	start       time.Time
	quiet       bool
	lastPrinted time.Time
}

func (p *progressTrackingWriter) Write(buf []byte) (int, error) {
	n, err := p.w.Write(buf)
	if n > 0 {
		p.written += int64(n)
		if !p.quiet && time.Since(p.lastPrinted) > 100*time.Millisecond {
			printProgress(p.written, p.total, p.start)
			p.lastPrinted = time.Now()
		}
	}
	return n, err
}

func finishProgress(quiet bool) {
	if !quiet {
		fmt.Println()
	}
}

// progressCallback builds a transfer.ProgressFunc-shaped closure that prints
// a throttled progress bar against total.
func progressCallback(total int64, quiet bool) func(sent int64) {
	start := time.Now()
	var lastPrinted time.Time
	return func(sent int64) {
		if quiet {
			return
		}
		if time.Since(lastPrinted) > 100*time.Millisecond {
			printProgress(sent, total, start)
			lastPrinted = time.Now()
		}
	}
}
