// Package chunked decodes the HTTP/1.1 chunked transfer coding as a stream.
//
// The decoder owns the byte-level chunk syntax: hex size lines (chunk
// extensions after ';' are ignored), per-chunk CRLF terminators and the
// trailer section after the terminal zero-size chunk. Callers drive it
// through the io.Reader interface and get back the concatenated chunk
// payloads; io.EOF is reported only after the trailer section has been
// consumed, which leaves the underlying buffered reader positioned at the
// first byte following the message.
package chunked

import (
	"bufio"
	"errors"
	"io"
	"strconv"
)

// Error variables for chunk decoding
var (
	// ErrInvalidChunk is returned when chunk syntax is violated.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrLineTooLong is returned when a chunk-size or trailer line exceeds
	// the reader's buffer.
	ErrLineTooLong = errors.New("chunk line too long")
)

// maxLineBytes bounds chunk-size and trailer lines so a hostile peer cannot
// force unbounded buffering.
const maxLineBytes = 4096

// Reader decodes one chunked message body from br.
//
// br must be the connection's shared buffered reader: the decoder reads
// through it line by line, and any bytes it leaves buffered still belong to
// the connection cursor.
type Reader struct {
	br        *bufio.Reader
	remaining int64 // unread bytes of the current chunk
	done      bool
	err       error
}

// NewReader creates a Reader decoding from r. If r is not already a
// *bufio.Reader it is wrapped in one; in that case the wrapper, not r,
// becomes the connection cursor for anything read after this body.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{br: br}
}

// Read implements io.Reader. It returns payload bytes in chunk order and
// io.EOF once the terminal chunk and its trailer section are fully consumed.
// Any syntax or I/O error is sticky.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.done {
		return 0, io.EOF
	}

	if r.remaining == 0 {
		size, err := r.readChunkSize()
		if err != nil {
			r.err = err
			return 0, err
		}
		if size == 0 {
			if err := r.discardTrailer(); err != nil {
				r.err = err
				return 0, err
			}
			r.done = true
			return 0, io.EOF
		}
		r.remaining = size
	}

	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.br.Read(p)
	r.remaining -= int64(n)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
		return n, err
	}
	if r.remaining == 0 {
		if err := r.expectCRLF(); err != nil {
			r.err = err
			return n, err
		}
	}
	return n, nil
}

// readChunkSize consumes one chunk-size line and returns the decoded size.
func (r *Reader) readChunkSize() (int64, error) {
	line, err := r.readLine()
	if err != nil {
		return 0, err
	}
	// Drop any chunk extension.
	for i := 0; i < len(line); i++ {
		if line[i] == ';' {
			line = line[:i]
			break
		}
	}
	size, err := strconv.ParseInt(string(line), 16, 64)
	if err != nil || size < 0 {
		return 0, ErrInvalidChunk
	}
	return size, nil
}

// expectCRLF consumes the CRLF that terminates a chunk's payload.
func (r *Reader) expectCRLF() error {
	cr, err := r.br.ReadByte()
	if err != nil {
		return unexpectedEOF(err)
	}
	lf, err := r.br.ReadByte()
	if err != nil {
		return unexpectedEOF(err)
	}
	if cr != '\r' || lf != '\n' {
		return ErrInvalidChunk
	}
	return nil
}

// discardTrailer consumes trailer lines up to and including the blank line
// that ends the message. Trailer fields are dropped.
func (r *Reader) discardTrailer() error {
	for {
		line, err := r.readLine()
		if err != nil {
			return err
		}
		if len(line) == 0 {
			return nil
		}
	}
}

// readLine reads one CRLF-terminated line, without the terminator.
// A bare LF is accepted for robustness.
func (r *Reader) readLine() ([]byte, error) {
	line, err := r.br.ReadSlice('\n')
	if err != nil {
		if err == bufio.ErrBufferFull {
			return nil, ErrLineTooLong
		}
		return nil, unexpectedEOF(err)
	}
	if len(line) > maxLineBytes {
		return nil, ErrLineTooLong
	}
	line = line[:len(line)-1]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line, nil
}

// unexpectedEOF maps a bare io.EOF inside a chunk structure to
// io.ErrUnexpectedEOF; a chunked body is never legitimately truncated.
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
