// Package lineread acquires lines of input of unbounded length for the
// interpreter.
package lineread

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var (
	// ErrAllocation is returned if the line buffer could not be grown. It's
	// the only fatal error of the interpreter.
	ErrAllocation = errors.New("allocation error")

	// ErrInterrupted is returned when the operator interrupts the line
	// being edited.
	ErrInterrupted = errors.New("interrupted")
)

// LineReader reads one line of input at a time.
type LineReader interface {
	// SetPrompt sets the prompt written before each read.
	SetPrompt(prompt string)
	// ReadLine returns the next line without its trailing newline. At end of
	// input it returns whatever was accumulated along with io.EOF.
	ReadLine() (string, error)
	io.Closer
}

// Options configures New.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// HistoryFile is where interactive history is persisted, blank disables
	// persistence.
	HistoryFile string

	// Interactive selects the line editor over the plain reader.
	Interactive bool
}

// New creates a LineReader for the options.
func New(opts Options) (LineReader, error) {
	if opts.Interactive {
		return NewReadline(opts)
	}
	return NewReader(opts.Stdin, opts.Stdout), nil
}

// IsTerminal reports whether r is a file attached to a terminal.
func IsTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Reader reads lines one byte at a time so no input past the newline is
// consumed, leaving the rest of the stream to launched programs.
type Reader struct {
	in     io.Reader
	out    io.Writer
	prompt string
	buf    *Buffer
	one    [1]byte
}

var _ LineReader = (*Reader)(nil)

// NewReader creates a Reader over in. The prompt is written to out, which
// may be nil to disable prompting.
func NewReader(in io.Reader, out io.Writer) *Reader {
	return &Reader{
		in:  in,
		out: out,
		buf: NewBuffer(DefaultBufferSize),
	}
}

// SetPrompt implements LineReader.SetPrompt.
func (r *Reader) SetPrompt(prompt string) {
	r.prompt = prompt
}

// ReadLine implements LineReader.ReadLine.
func (r *Reader) ReadLine() (line string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec != ErrTooLarge {
				panic(rec)
			}
			line, err = "", fmt.Errorf("%w: %v", ErrAllocation, ErrTooLarge)
		}
	}()

	if r.out != nil && r.prompt != "" {
		if _, err := io.WriteString(r.out, r.prompt); err != nil {
			return "", err
		}
	}

	r.buf.Reset()
	for {
		c, err := r.readByte()
		switch {
		case err != nil:
			return r.buf.String(), err
		case c == '\n':
			return r.buf.String(), nil
		default:
			r.buf.Append(c)
		}
	}
}

func (r *Reader) readByte() (byte, error) {
	if br, ok := r.in.(io.ByteReader); ok {
		return br.ReadByte()
	}

	for {
		n, err := r.in.Read(r.one[:])
		if n == 1 {
			return r.one[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// Close implements io.Closer, the underlying reader is left open.
func (r *Reader) Close() error {
	return nil
}
