package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The line is trimmed. If EOF occurs after some input was read, the partial
// line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	return readLine(reader)
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password without
// echo when stdin is a terminal. Otherwise (piped input) the next line of
// reader is used.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(reader *bufio.Reader, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := readLine(reader)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// getWithDefault prompts with the current value shown; an empty answer
// keeps current.
func getWithDefault(reader *bufio.Reader, prompt, current string, w io.Writer) (string, error) {
	v, err := getSimpleText(reader, fmt.Sprintf("%s [%s]", prompt, current), w)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

// clearValue is the answer that empties an optional field.
const clearValue = "-"

// getOptional works like getWithDefault for fields that may be empty:
// answering clearValue returns "".
func getOptional(reader *bufio.Reader, prompt, current string, w io.Writer) (string, error) {
	v, err := getWithDefault(reader, prompt+" ('-' clears)", current, w)
	if err != nil {
		return "", err
	}
	if v == clearValue {
		return "", nil
	}
	return v, nil
}

// confirm asks a yes/no question; anything but y or yes is no.
func confirm(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	v, err := getSimpleText(reader, prompt+" (y/N)", w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
