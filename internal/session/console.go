package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ConsoleInput reads one line per sentence from a plain text stream.
type ConsoleInput struct {
	r *bufio.Reader
	w io.Writer
}

// NewConsoleInput constructs a ConsoleInput that prompts on w and reads from r.
func NewConsoleInput(r io.Reader, w io.Writer) *ConsoleInput {
	return &ConsoleInput{r: bufio.NewReader(r), w: w}
}

// WaitReady blocks until the user presses Enter.
func (c *ConsoleInput) WaitReady(ctx context.Context) error {
	if _, err := fmt.Fprintln(c.w, "Press Enter when you're ready to start..."); err != nil {
		return err
	}
	_, err := c.readLine(ctx)
	return err
}

// Ask prints prompt and returns the trimmed answer line.
func (c *ConsoleInput) Ask(ctx context.Context, prompt string) (string, error) {
	if _, err := fmt.Fprint(c.w, prompt); err != nil {
		return "", err
	}
	line, err := c.readLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadSentence implements Input.
func (c *ConsoleInput) ReadSentence(ctx context.Context, index, total int, sentence string) (string, error) {
	if _, err := fmt.Fprintf(c.w, "\nSentence %d of %d:\n%s\n\nType here: ", index+1, total, sentence); err != nil {
		return "", err
	}
	return c.readLine(ctx)
}

func (c *ConsoleInput) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := c.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
