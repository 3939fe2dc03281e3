package helpers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadActionInput resolves command input from a file, stdin ("-") or args.
// A file wins over args.
func ReadActionInput(stdin io.Reader, file string, args []string) (string, error) {
	if file != "" {
		var (
			data []byte
			err  error
		)
		if file == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return "", fmt.Errorf("read input %s: %w", file, err)
		}
		return string(data), nil
	}

	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

// Prompter reads menu choices and free text from an interactive terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// PromptForChoice shows a prompt and returns the trimmed answer. io.EOF is
// returned once input is exhausted.
func (p *Prompter) PromptForChoice(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptForBlock reads lines until an empty line or end of input.
func (p *Prompter) PromptForBlock(prompt string) (string, error) {
	fmt.Fprintln(p.out, prompt)
	var lines []string
	for {
		line, err := p.in.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(trimmed) == "" && err == nil {
			break
		}
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(lines) == 0 {
					return "", io.EOF
				}
				break
			}
			return "", err
		}
	}
	return strings.Join(lines, "\n"), nil
}
