package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/andri/cdtable/pkg/source"
)

// WatchOptions configures watch mode behavior
type WatchOptions struct {
	// Interval is the poll interval shown in the header
	Interval time.Duration

	// Format is the output format
	Format Format

	// Updates delivers one fetch result per poll. The watch ends when it closes.
	Updates <-chan source.Update

	// Apply feeds an update into the table and snapshots the page to render
	Apply func(source.Update) *Data

	// Writer is where to write output
	Writer io.Writer

	// Command is the command string to display in header
	Command string
}

// RunWatch renders a frame for every update until ctx is done or the update
// channel closes.
func RunWatch(ctx context.Context, opts WatchOptions) error {
	if opts.Updates == nil || opts.Apply == nil {
		return errors.New("watch requires an update channel and an apply func")
	}

	isTermOut := isTerminal(opts.Writer)

	for {
		select {
		case <-ctx.Done():
			if isTermOut {
				// Print newline so next command starts on fresh line
				_, _ = fmt.Fprintln(opts.Writer)
			}
			return nil

		case upd, ok := <-opts.Updates:
			if !ok {
				return nil
			}
			if err := renderWatchFrame(opts, upd, isTermOut); err != nil {
				return err
			}
		}
	}
}

func renderWatchFrame(opts WatchOptions, upd source.Update, isTerm bool) error {
	if isTerm {
		clearScreen(opts.Writer)
	}

	printWatchHeader(opts.Writer, opts.Interval, opts.Command, upd.Time)

	if err := Render(opts.Writer, opts.Apply(upd), opts.Format); err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	return nil
}

// printWatchHeader prints the watch header similar to the Unix watch command
func printWatchHeader(w io.Writer, interval time.Duration, command string, at time.Time) {
	if at.IsZero() {
		at = time.Now()
	}

	// Format: "Every 2.0s: cdtable query    Sun Jan 4 12:00:00 2026"
	_, _ = fmt.Fprintf(w, "Every %.1fs: %s    %s\n\n",
		interval.Seconds(),
		command,
		at.Local().Format("Mon Jan 2 15:04:05 2006"),
	)
}

// clearScreen moves the cursor home and clears the terminal.
func clearScreen(w io.Writer) {
	_, _ = fmt.Fprint(w, "\033[H\033[2J")
}
