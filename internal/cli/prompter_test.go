package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennyflow/pennyflow/internal/review"
)

func TestConfirmCommit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "yes full word", input: "yes\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "default is no", input: "\n", want: false},
		{name: "garbage then yes", input: "maybe\ny\n", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.ConfirmCommit(context.Background(), review.Confirmation{
				SelectedCount: 3,
				DiscardCount:  1,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "3 transactions")
		})
	}
}

func TestConfirmCommitCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("y\n"), &out)

	_, err := p.ConfirmCommit(ctx, review.Confirmation{SelectedCount: 1})
	require.Error(t, err)
}

func TestConfirmDiscard(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("y\n"), &out)

	got, err := p.ConfirmDiscard(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, got)
	assert.Contains(t, out.String(), "5 pending transactions")
}

func TestReadLineCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A reader that never produces data
	r := NewLineReader(strings.NewReader(""))
	// Pre-canceled context wins the select even though the read errors
	_, err := r.ReadLine(ctx)
	require.Error(t, err)
}

func TestReadLineTrimsWhitespace(t *testing.T) {
	r := NewLineReader(strings.NewReader("  hello  \n"))
	line, err := r.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", line)
}

func TestReadLineWithoutTrailingNewline(t *testing.T) {
	r := NewLineReader(strings.NewReader("y"))
	line, err := r.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "y", line)
}
