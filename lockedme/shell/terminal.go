package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/lockedme/lockedme/ports"
)

// MaxLineLength is the longest input line Prompt accepts, in bytes.
const MaxLineLength = 64 * 1024

// ErrLineTooLong is returned by Prompt for a line over MaxLineLength. The
// rest of the line has been consumed, so the next Prompt reads fresh input.
var ErrLineTooLong = errors.New("input line too long")

var _ ports.Interactor = (*Terminal)(nil)

// Terminal is a line-oriented ports.Interactor over a reader and a writer.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal reading lines from in and writing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (t *Terminal) Output(message string) {
	fmt.Fprintln(t.out, message)
}

func (t *Terminal) Outputf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
}

func (t *Terminal) Success(message string) {
	fmt.Fprintln(t.out, message)
}

func (t *Terminal) Warning(message string) {
	fmt.Fprintf(t.out, "Warning: %s\n", message)
}

func (t *Terminal) Error(message string, err error) {
	if err == nil {
		fmt.Fprintf(t.out, "Error: %s\n", message)
		return
	}
	fmt.Fprintf(t.out, "Error: %s: %v\n", message, err)
}

// Prompt writes message and reads one line. A final line without a newline
// is still returned; io.EOF is reported only once nothing is left.
func (t *Terminal) Prompt(message string) (string, error) {
	fmt.Fprint(t.out, message)

	line, err := t.readLine()
	if errors.Is(err, io.EOF) {
		// Keep the next output off the prompt line.
		fmt.Fprintln(t.out)
	}
	return line, err
}

// readLine reads up to the next line terminator. Over-long lines are
// drained to their end and reported as ErrLineTooLong.
func (t *Terminal) readLine() (string, error) {
	var sb strings.Builder
	read, tooLong := false, false

	for {
		chunk, isPrefix, err := t.in.ReadLine()
		if err != nil {
			if !read {
				return "", err
			}
			break
		}
		read = true

		if !tooLong && sb.Len()+len(chunk) > MaxLineLength {
			tooLong = true
			sb.Reset()
		}
		if !tooLong {
			sb.Write(chunk)
		}
		if !isPrefix {
			break
		}
	}

	if tooLong {
		return "", ErrLineTooLong
	}
	return sb.String(), nil
}

// Confirm asks a yes/no question. Only "y" and "yes", in any case, confirm;
// an over-long answer counts as no.
func (t *Terminal) Confirm(message string) (bool, error) {
	answer, err := t.Prompt(message + " (y/n): ")
	if errors.Is(err, ErrLineTooLong) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
