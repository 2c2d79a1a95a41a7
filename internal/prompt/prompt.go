// Package prompt asks the interactive questions that pick the input file and
// the sort mode when they are not given on the command line.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/FocuswithJustin/citesort/core/sorting"
)

// Questions of the sort-mode cascade, in the order they are asked.
const (
	QuestionPath       = "Provide the file path: "
	QuestionIDThenYear = "Do you want to sort by identifier, then year (true/false): "
	QuestionYearThenID = "Do you want to sort by year, then identifier: "
	QuestionIDOnly     = "Do you want to sort by identifier only: "
	QuestionYearOnly   = "Do you want to sort by year only: "
)

// ErrNoAnswer is returned when input ends before a question is answered.
var ErrNoAnswer = errors.New("no answer: input closed")

// Prompter reads one answer per line.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// Echo controls whether questions are written to out. It is turned off
	// when answers are piped in.
	Echo bool
}

// New returns a Prompter that writes questions to out and reads answers from in.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, Echo: true}
}

// AskPath asks for the bibliography path. Blank answers are asked again.
func (p *Prompter) AskPath() (string, error) {
	for {
		answer, err := p.ask(QuestionPath)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

// AskMode runs the yes/no cascade and returns the selected mode. Each
// question is skipped once an earlier one was answered yes; four no answers
// select sorting.None.
func (p *Prompter) AskMode() (sorting.Mode, error) {
	questions := []string{QuestionIDThenYear, QuestionYearThenID, QuestionIDOnly, QuestionYearOnly}
	answers := make([]bool, len(questions))

	for i, q := range questions {
		yes, err := p.AskBool(q)
		if err != nil {
			return "", err
		}
		answers[i] = yes
		if yes {
			break
		}
	}

	return sorting.ModeFromAnswers(answers[0], answers[1], answers[2], answers[3]), nil
}

// AskBool asks question until the answer is a recognizable yes or no.
func (p *Prompter) AskBool(question string) (bool, error) {
	for {
		answer, err := p.ask(question)
		if err != nil {
			return false, err
		}
		if v, ok := ParseBool(answer); ok {
			return v, nil
		}
		p.say("Please answer true or false.\n")
	}
}

// ParseBool accepts true/false, yes/no and y/n in any case.
func ParseBool(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "yes", "y":
		return true, true
	case "false", "f", "no", "n":
		return false, true
	default:
		return false, false
	}
}

func (p *Prompter) ask(question string) (string, error) {
	p.say(question)

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: %q", ErrNoAnswer, strings.TrimSpace(question))
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) say(s string) {
	if p.Echo {
		fmt.Fprint(p.out, s)
	}
}
