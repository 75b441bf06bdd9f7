package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var affirmativeAnswers = map[string]struct{}{"y": {}, "yes": {}}

// ConfirmationPrompter asks the operator to approve running the queued commands.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}

// IOConfirmationPrompter prints the prompt and reads a single answer line.
// Only "y" and "yes" approve; an empty answer or end of input declines.
type IOConfirmationPrompter struct {
	scanner *bufio.Scanner
	writer  io.Writer
}

// NewIOConfirmationPrompter constructs a prompter over the provided streams.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	if output == nil {
		output = io.Discard
	}
	return &IOConfirmationPrompter{scanner: bufio.NewScanner(input), writer: output}
}

func (prompter *IOConfirmationPrompter) Confirm(prompt string) (bool, error) {
	if _, writeError := fmt.Fprint(prompter.writer, prompt); writeError != nil {
		return false, writeError
	}
	if !prompter.scanner.Scan() {
		return false, prompter.scanner.Err()
	}
	_, approved := affirmativeAnswers[strings.ToLower(strings.TrimSpace(prompter.scanner.Text()))]
	return approved, nil
}
