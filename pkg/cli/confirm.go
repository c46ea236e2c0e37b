// Package cli provides prompts for non-TUI commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConfirmOptions holds options for the confirmation prompt.
type ConfirmOptions struct {
	// Question is the prompt to display to the user.
	Question string

	// Items are listed one per line above the question, e.g. the tables
	// about to be deleted.
	Items []string

	// Default is the answer for an empty reply.
	Default bool

	// SkipPrompt skips the confirmation and returns true immediately.
	// Use this with -y/--yes flags.
	SkipPrompt bool

	// Input is the reader for user input (defaults to os.Stdin).
	Input io.Reader

	// Output is the writer for the prompt (defaults to os.Stdout).
	Output io.Writer
}

// Confirm prompts the user with a y/n question. An empty reply selects
// opts.Default; end of input declines.
func Confirm(opts ConfirmOptions) (bool, error) {
	if opts.SkipPrompt {
		return true, nil
	}

	input := opts.Input
	if input == nil {
		input = os.Stdin
	}
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	for _, item := range opts.Items {
		_, _ = fmt.Fprintf(output, "  - %s\n", item)
	}
	suffix := "(y/N)"
	if opts.Default {
		suffix = "(Y/n)"
	}
	_, _ = fmt.Fprintf(output, "%s %s: ", opts.Question, suffix)

	scanner := bufio.NewScanner(input)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("failed to read input: %w", err)
		}
		return false, nil
	}

	switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
	case "y", "yes":
		return true, nil
	case "":
		return opts.Default, nil
	default:
		return false, nil
	}
}
