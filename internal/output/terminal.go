package output

import (
	"context"
	"fmt"
	"io"
)

// TerminalSink prints the payload as indented JSON.
type TerminalSink struct {
	Out io.Writer
}

func (t *TerminalSink) Name() string { return "terminal" }

func (t *TerminalSink) Emit(_ context.Context, p *Payload) (string, error) {
	data, err := Encode(p.Body())
	if err != nil {
		return "", err
	}
	if _, err := t.Out.Write(data); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	return "stdout", nil
}
