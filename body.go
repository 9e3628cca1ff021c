package besi

import (
	"io"

	"github.com/ryanbekhen/besi/internal/chunked"
)

// Framing identifies the body-framing strategy chosen for one message.
type Framing int

const (
	// FramingEmpty is a bodiless message: reads never touch the connection.
	FramingEmpty Framing = iota

	// FramingSized is a Content-Length delimited body.
	FramingSized

	// FramingChunked is a Transfer-Encoding: chunked body.
	FramingChunked
)

// String returns the framing name.
func (f Framing) String() string {
	switch f {
	case FramingSized:
		return "sized"
	case FramingChunked:
		return "chunked"
	default:
		return "empty"
	}
}

// Body exposes the still-unread payload of one message as a flat byte
// stream. Whichever framing is selected, reads never yield bytes beyond the
// message boundary, and an exhausted Body reports io.EOF on every further
// read. Draining a Body leaves the connection cursor at the first byte of
// the next message, which is what makes pipelining safe.
//
// A Body borrows the connection's reader for the duration of one message
// and must not be retained after the message is handled.
type Body struct {
	framing Framing
	r       io.Reader
}

// NewBody selects a framing strategy over src from the declared transfer
// metadata and returns the Body driving it.
//
// chunked takes precedence over any declared length, per RFC 7230 §3.3.3.
// A declared contentLength (>= 0) selects sized framing. When neither is
// declared the message is treated as bodiless; reading until connection
// close would leave a handler blocked on an undelimited body, so that mode
// is deliberately not offered.
//
// For chunked framing src should be the connection's shared *bufio.Reader
// so that bytes buffered past the terminal chunk remain part of the
// connection cursor.
func NewBody(src io.Reader, contentLength int64, isChunked bool) *Body {
	switch {
	case isChunked:
		return &Body{framing: FramingChunked, r: chunked.NewReader(src)}
	case contentLength > 0:
		return &Body{framing: FramingSized, r: &sizedReader{src: src, remaining: contentLength}}
	case contentLength == 0:
		return &Body{framing: FramingSized, r: eofReader{}}
	default:
		return &Body{framing: FramingEmpty, r: eofReader{}}
	}
}

// Read implements io.Reader over the selected framing.
// I/O failures from the underlying connection surface unchanged; framing
// violations (truncated sized body, bad chunk syntax) surface as errors
// from the strategy in use. Either way the connection's framing state is
// unreliable afterwards and the caller should close it.
func (b *Body) Read(p []byte) (int, error) {
	return b.r.Read(p)
}

// Framing returns the strategy selected for this body.
func (b *Body) Framing() Framing {
	return b.framing
}

// Remaining returns the number of declared bytes still unread for a sized
// body, and -1 for any other framing.
func (b *Body) Remaining() int64 {
	if sr, ok := b.r.(*sizedReader); ok {
		return sr.remaining
	}
	if b.framing == FramingSized {
		return 0
	}
	return -1
}

// sizedReader reads exactly remaining bytes from src, then reports io.EOF
// forever without touching src again.
type sizedReader struct {
	src       io.Reader
	remaining int64
}

func (r *sizedReader) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.src.Read(p)
	r.remaining -= int64(n)
	if err == io.EOF && r.remaining > 0 {
		// The connection ended inside a declared body.
		err = io.ErrUnexpectedEOF
	}
	return n, err
}

// eofReader is the empty framing: always end-of-stream, never any I/O.
type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}
