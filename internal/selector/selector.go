// Package selector implements the console prompts that pick a country and a
// year from the loaded table.
package selector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"unpop/internal/apperr"
)

const (
	CountryPrompt  = "Please enter a Country or Area: "
	CountryInvalid = "You must enter a valid Country or Area."
	YearPrompt     = "Please choose one of the years above in order to display more stats: "
	YearInvalid    = "[ERROR] Invalid year. Please choose a year from the ones displayed above."
)

// Selector reads answers line by line from in and writes prompts to out.
type Selector struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Selector.
func New(in io.Reader, out io.Writer) *Selector {
	return &Selector{in: bufio.NewReader(in), out: out}
}

// Country prompts until the answer exactly matches one of countries.
func (s *Selector) Country(countries []string) (string, error) {
	valid := make(map[string]bool, len(countries))
	for _, c := range countries {
		valid[c] = true
	}

	for {
		answer, err := s.ask(CountryPrompt)
		if err != nil {
			return "", err
		}
		if !valid[answer] {
			s.reject(&apperr.ValidationError{Field: "country", Input: answer}, CountryInvalid)
			continue
		}
		fmt.Fprintln(s.out)
		return answer, nil
	}
}

// Year prompts until the answer is an integer contained in years.
func (s *Selector) Year(years []int) (int, error) {
	valid := make(map[int]bool, len(years))
	for _, y := range years {
		valid[y] = true
	}

	for {
		answer, err := s.ask(YearPrompt)
		if err != nil {
			return 0, err
		}
		year, convErr := strconv.Atoi(strings.TrimSpace(answer))
		if convErr != nil || !valid[year] {
			s.reject(&apperr.ValidationError{Field: "year", Input: answer}, YearInvalid)
			continue
		}
		fmt.Fprintln(s.out)
		return year, nil
	}
}

// ask prints prompt and returns the next line without its line terminator.
// A final line without a newline is still returned; only an empty read at
// end of input is ErrInputExhausted.
func (s *Selector) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)

	line, err := s.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read answer: %w", err)
		}
		if line == "" {
			fmt.Fprintln(s.out)
			return "", apperr.ErrInputExhausted
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Selector) reject(err *apperr.ValidationError, message string) {
	slog.Debug("Rejected answer", slog.String("field", err.Field), slog.String("input", err.Input))
	fmt.Fprintln(s.out, message)
}
