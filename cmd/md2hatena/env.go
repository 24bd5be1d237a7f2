package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	md2hatena "github.com/alnah/go-md2hatena"
)

// readPassword reads a line from the terminal without echo.
var readPassword = term.ReadPassword

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTerminal reports whether stdin is interactive.
	IsTerminal func() bool
	// ReadSecret reads a secret without echo.
	ReadSecret func() (string, error)

	// Client replaces the AtomPub client; nil uses the real service.
	Client md2hatena.EntryClient
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	fd := int(os.Stdin.Fd()) // #nosec G115 -- file descriptors fit in int
	return &Environment{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		IsTerminal: func() bool { return term.IsTerminal(fd) },
		ReadSecret: func() (string, error) {
			b, err := readPassword(fd)
			return string(b), err
		},
	}
}

// readLine reads one line from r without the trailing newline. EOF with no
// data yields "".
func readLine(r io.Reader) string {
	line, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
