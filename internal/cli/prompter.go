package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pennyflow/pennyflow/internal/review"
)

// Prompter asks the user yes/no questions during an import review.
type Prompter struct {
	writer io.Writer
	reader *LineReader
}

// NewPrompter creates a prompter over the given streams. Nil streams fall
// back to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// ConfirmCommit shows the commit confirmation box and asks for approval.
// Returns false when the user declines or input is canceled.
func (p *Prompter) ConfirmCommit(ctx context.Context, c review.Confirmation) (bool, error) {
	if _, err := fmt.Fprintln(p.writer, RenderConfirmation(c)); err != nil {
		return false, fmt.Errorf("failed to write confirmation: %w", err)
	}
	return p.confirm(ctx, "Proceed with import?")
}

// ConfirmDiscard asks before throwing away the whole pending review.
func (p *Prompter) ConfirmDiscard(ctx context.Context, pendingCount int) (bool, error) {
	msg := fmt.Sprintf("Discard all %d pending transactions without importing?", pendingCount)
	if _, err := fmt.Fprintln(p.writer, FormatWarning(msg)); err != nil {
		return false, fmt.Errorf("failed to write warning: %w", err)
	}
	return p.confirm(ctx, "Are you sure?")
}

func (p *Prompter) confirm(ctx context.Context, question string) (bool, error) {
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		if _, err := fmt.Fprint(p.writer, FormatPrompt(question+" [y/N]")); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		default:
			if _, err := fmt.Fprintln(p.writer, SubtleStyle.Render("Please answer y or n.")); err != nil {
				return false, fmt.Errorf("failed to write hint: %w", err)
			}
		}
	}
}
