package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads answers from a line-oriented input
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal used for hidden password input, or -1
	fd int
}

// New returns a prompter reading from in and writing labels to out.
// Passwords are read as plain lines.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
}

// Default prompts on stdin/stdout and hides passwords when stdin is a terminal
func Default() *Prompter {
	p := New(os.Stdin, os.Stdout)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		p.fd = fd
	}
	return p
}

func (p *Prompter) readLine() (string, error) {
	input, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// String prompts for a string input
func (p *Prompter) String(label string) (string, error) {
	fmt.Fprint(p.out, label)
	return p.readLine()
}

// Required prompts until a non-empty answer is given
func (p *Prompter) Required(label string) (string, error) {
	for {
		v, err := p.String(label)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		fmt.Fprintln(p.out, "A value is required.")
	}
}

// Password prompts for a password without echo on a terminal
func (p *Prompter) Password(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if p.fd < 0 {
		return p.readLine()
	}
	pw, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// Confirm prompts for yes/no confirmation
func (p *Prompter) Confirm(label string) (bool, error) {
	fmt.Fprint(p.out, label+" (y/n) ")
	input, err := p.readLine()
	if err != nil {
		return false, err
	}
	response := strings.ToLower(input)
	return response == "y" || response == "yes", nil
}
