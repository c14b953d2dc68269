// Package cli adapts terminal input to the closed choice values the
// attribution engine works with. All free-text parsing lives here.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jhodges/shuttlepay/internal/domain/attribution"
	"github.com/shopspring/decimal"
)

// Escape codes accepted alongside a numeric selection.
const (
	codeUnknown      = "?"
	codeCarryForward = "c"
	codeIncidental   = "i"
	codeIgnore       = "x"
)

// Prompter reads operator decisions from a terminal. It blocks
// indefinitely awaiting input and re-prompts on anything it can't parse.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading from in and writing to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Choose presents a numbered option list plus the escape codes and returns
// the parsed choice. Out-of-range numbers re-prompt rather than abort.
func (p *Prompter) Choose(prompt string, options []string) (attribution.Choice, error) {
	entries := make([]string, 0, len(options)+4)
	for i, option := range options {
		entries = append(entries, fmt.Sprintf("[%d] %s", i, option))
	}
	entries = append(entries,
		"[?] Don't know",
		"[c] Another session",
		"[i] Incidental payment",
		"[x] Ignore",
	)

	for {
		fmt.Fprintln(p.out, prompt)
		fmt.Fprintln(p.out, FormatOptions(entries))

		line, err := p.readLine()
		if err != nil {
			return attribution.Choice{}, err
		}

		switch strings.ToLower(line) {
		case codeUnknown:
			return attribution.Choice{Kind: attribution.ChoiceUnknown}, nil
		case codeCarryForward:
			return attribution.Choice{Kind: attribution.ChoiceCarryForward}, nil
		case codeIncidental:
			return attribution.Choice{Kind: attribution.ChoiceIncidental}, nil
		case codeIgnore:
			return attribution.Choice{Kind: attribution.ChoiceIgnore}, nil
		}

		if index, err := strconv.Atoi(line); err == nil && index >= 0 && index < len(options) {
			return attribution.Select(index), nil
		}
		fmt.Fprintf(p.out, "Please enter a number between 0 and %d, or ?/c/i/x\n", len(options)-1)
	}
}

// Text asks a free-form question.
func (p *Prompter) Text(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	return p.readLine()
}

// Amount asks for a currency amount, accepting an optional £ prefix.
func (p *Prompter) Amount(prompt string) (decimal.Decimal, error) {
	for {
		fmt.Fprint(p.out, prompt)
		line, err := p.readLine()
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := decimal.NewFromString(strings.TrimPrefix(line, "£"))
		if err == nil {
			return amount, nil
		}
		fmt.Fprintln(p.out, "Please enter an amount like 4.40")
	}
}

// Confirm asks a yes/no question; anything but y/yes is no.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(line)
	return answer == "y" || answer == "yes", nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
