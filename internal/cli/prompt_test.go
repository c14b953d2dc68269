package cli_test

import (
	"strings"
	"testing"

	"github.com/jhodges/shuttlepay/internal/cli"
	"github.com/jhodges/shuttlepay/internal/domain/attribution"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Choose_Select(t *testing.T) {
	var out strings.Builder
	p := cli.NewPrompter(strings.NewReader("1\n"), &out)

	choice, err := p.Choose("Who is SMITH J?", []string{"Josy", "Moz"})
	require.NoError(t, err)
	require.Equal(t, attribution.Select(1), choice)
	require.Contains(t, out.String(), "[0] Josy")
	require.Contains(t, out.String(), "[1] Moz")
	require.Contains(t, out.String(), "[?] Don't know")
}

func TestPrompter_Choose_EscapeCodes(t *testing.T) {
	tests := []struct {
		input string
		want  attribution.ChoiceKind
	}{
		{"?\n", attribution.ChoiceUnknown},
		{"c\n", attribution.ChoiceCarryForward},
		{"i\n", attribution.ChoiceIncidental},
		{"x\n", attribution.ChoiceIgnore},
		{"C\n", attribution.ChoiceCarryForward},
	}
	for _, tt := range tests {
		p := cli.NewPrompter(strings.NewReader(tt.input), &strings.Builder{})
		choice, err := p.Choose("Who?", []string{"Josy"})
		require.NoError(t, err)
		require.Equal(t, tt.want, choice.Kind)
	}
}

func TestPrompter_Choose_RepromptsOnOutOfRange(t *testing.T) {
	var out strings.Builder
	p := cli.NewPrompter(strings.NewReader("7\nbanana\n0\n"), &out)

	choice, err := p.Choose("Who?", []string{"Josy", "Moz"})
	require.NoError(t, err)
	require.Equal(t, attribution.Select(0), choice)
	require.Contains(t, out.String(), "between 0 and 1")
}

func TestPrompter_Amount(t *testing.T) {
	p := cli.NewPrompter(strings.NewReader("£4.40\n"), &strings.Builder{})
	amount, err := p.Amount("How much? £")
	require.NoError(t, err)
	require.Equal(t, "4.40", amount.StringFixed(2))
}

func TestPrompter_Amount_RepromptsOnGarbage(t *testing.T) {
	p := cli.NewPrompter(strings.NewReader("a fiver\n5.00\n"), &strings.Builder{})
	amount, err := p.Amount("How much? £")
	require.NoError(t, err)
	require.Equal(t, "5.00", amount.StringFixed(2))
}

func TestPrompter_Confirm(t *testing.T) {
	p := cli.NewPrompter(strings.NewReader("y\nn\nyes\n\n"), &strings.Builder{})

	for _, want := range []bool{true, false, true, false} {
		got, err := p.Confirm("Did anyone pay in cash? ")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestPrompter_Text(t *testing.T) {
	p := cli.NewPrompter(strings.NewReader("train ticket\n"), &strings.Builder{})
	text, err := p.Text("What for? ")
	require.NoError(t, err)
	require.Equal(t, "train ticket", text)
}

func TestFormatOptions_WrapsLongLists(t *testing.T) {
	long := strings.Repeat("hello ", 12)
	entries := []string{long, "short", "short", "short", "short", "short"}

	formatted := cli.FormatOptions(entries)
	for _, line := range strings.Split(formatted, "\n") {
		require.LessOrEqual(t, len(line), 80+len(long), "line unreasonably long: %q", line)
	}
	require.Greater(t, strings.Count(formatted, "\n"), 0, "expected wrapping")
}

func TestFormatOptions_ShortListSingleLine(t *testing.T) {
	formatted := cli.FormatOptions([]string{"[0] Josy", "[1] Moz"})
	require.NotContains(t, formatted, "\n")
}
