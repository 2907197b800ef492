package lineread

import "errors"

// DefaultBufferSize is the starting capacity of a line buffer.
const DefaultBufferSize = 1024

// ErrTooLarge is passed to panic if memory cannot be allocated to grow a
// Buffer.
var ErrTooLarge = errors.New("lineread: buffer too large")

const maxInt = int(^uint(0) >> 1)

// Buffer is a growable byte buffer that owns its contents. It doubles in
// capacity whenever an append would overflow and never truncates.
type Buffer struct {
	buf []byte
}

// NewBuffer creates a Buffer with the given starting capacity, if size is
// not positive DefaultBufferSize is used.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Buffer{buf: makeSlice(size)}
}

// Append adds a single byte to the end of the buffer.
func (b *Buffer) Append(c byte) {
	if len(b.buf) == cap(b.buf) {
		b.grow()
	}
	b.buf = append(b.buf, c)
}

// Len returns the number of bytes held.
func (b *Buffer) Len() int {
	return len(b.buf)
}

// Cap returns the current capacity.
func (b *Buffer) Cap() int {
	return cap(b.buf)
}

// String finalizes the buffer into a Raw Line. The buffer may be reused
// afterwards, the returned string does not alias it.
func (b *Buffer) String() string {
	return string(b.buf)
}

// Reset empties the buffer but keeps the allocated capacity.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
}

func (b *Buffer) grow() {
	c := cap(b.buf)
	if c == 0 {
		c = DefaultBufferSize / 2
	}
	if c > maxInt/2 {
		panic(ErrTooLarge)
	}

	next := makeSlice(2 * c)
	next = next[:copy(next[:len(b.buf)], b.buf)]
	b.buf = next
}

// makeSlice allocates a slice of size n. If the allocation fails, it panics
// with ErrTooLarge.
func makeSlice(n int) []byte {
	defer func() {
		if recover() != nil {
			panic(ErrTooLarge)
		}
	}()
	return make([]byte, 0, n)
}
