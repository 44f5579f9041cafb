package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"library/internal/errors"

	"golang.org/x/term"
)

// Test seams for the terminal functions.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// passwordReader reads passwords from a terminal without echo, or line by
// line when stdin is redirected.
type passwordReader struct {
	in     io.Reader
	lines  *bufio.Scanner
	prompt io.Writer
}

func newPasswordReader(in io.Reader, prompt io.Writer) *passwordReader {
	return &passwordReader{
		in:     in,
		lines:  bufio.NewScanner(in),
		prompt: prompt,
	}
}

func (r *passwordReader) terminalFd() (int, bool) {
	f, ok := r.in.(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(f.Fd())

	return fd, isTerminal(fd)
}

// ReadPassword returns one password without its trailing newline.
func (r *passwordReader) ReadPassword() (string, error) {
	if fd, ok := r.terminalFd(); ok {
		fmt.Fprint(r.prompt, "Password: ")
		pw, err := readPassword(fd)
		fmt.Fprintln(r.prompt)
		if err != nil {
			return "", errors.Wrap(err, "read password")
		}

		return string(pw), nil
	}

	if !r.lines.Scan() {
		if err := r.lines.Err(); err != nil {
			return "", errors.Wrap(err, "read password")
		}

		return "", errors.New("no password on stdin")
	}

	return strings.TrimSuffix(r.lines.Text(), "\r"), nil
}

// ReadAll returns every remaining line of stdin. Blank lines are kept so
// that output lines stay aligned with input lines.
func (r *passwordReader) ReadAll() ([]string, error) {
	var passwords []string
	for r.lines.Scan() {
		passwords = append(passwords, strings.TrimSuffix(r.lines.Text(), "\r"))
	}
	if err := r.lines.Err(); err != nil {
		return nil, errors.Wrap(err, "read passwords")
	}

	return passwords, nil
}
