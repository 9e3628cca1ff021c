package besi

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
)

// RawRequest is the hand-off from the protocol tokenizer: the already
// parsed head of one message plus a live reader over the connection's
// unread tail. It is input only; nothing downstream sees it.
type RawRequest struct {
	// Method is the request method exactly as tokenized.
	Method string

	// Target is the request-target in its original textual form.
	Target string

	// Proto is the protocol version, e.g. "HTTP/1.1".
	Proto string

	// Header is the tokenized header section.
	Header Header

	// ContentLength is the declared Content-Length, or -1 when the header
	// is absent.
	ContentLength int64

	// Chunked reports whether chunked transfer-encoding was declared.
	Chunked bool

	// Body is the unread tail of the connection, positioned at the first
	// body byte. For chunked messages it should be the connection's shared
	// *bufio.Reader.
	Body io.Reader
}

// Request is the assembled representation of one inbound HTTP message,
// handed to application logic once per message.
//
// All fields are fixed at construction; the only mutation point afterwards
// is the Extensions store. The URL is always fully resolved; a Request
// with a partial or missing URL never exists.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, ...).
	Method string

	// URL is the resolved, always absolute request URL.
	URL *url.URL

	// Proto is the protocol version.
	Proto string

	// Header contains the request header fields.
	Header Header

	// Body reads the remaining message payload. It must be drained before
	// the connection is reused for a pipelined message; abandoning a
	// partially read body leaves the connection's framing undefined, and
	// the only safe follow-up is closing the connection.
	Body *Body

	// ContentLength is the declared body length, or -1 when unknown
	// (absent header or chunked framing).
	ContentLength int64

	// Host is the Host header value as sent by the client.
	Host string

	// RemoteAddr is the peer's network address.
	RemoteAddr net.Addr

	// LocalAddr is the address the request arrived on.
	LocalAddr net.Addr

	// RequestURI is the unmodified request-target from the request line.
	RequestURI string

	// Extensions carries data attached by middleware for this request.
	Extensions *Extensions

	// ctx is the request's context.
	ctx context.Context
}

// NewRequest assembles a Request from the tokenized head and connection
// state of one message.
//
// Assembly is all-or-nothing: the URL is resolved first, and a resolution
// failure aborts with that error before anything else is built, so no
// partially constructed Request is ever observable. On success the body
// framing is selected from the declared transfer metadata and a fresh,
// empty Extensions store is attached. NewRequest has no other side effects;
// in particular it reads nothing from raw.Body.
func NewRequest(raw *RawRequest, remoteAddr, localAddr net.Addr, proto Protocol) (*Request, error) {
	u, err := ResolveURL(raw.Target, raw.Header.Get("Host"), proto.Name(), addrPort(localAddr))
	if err != nil {
		return nil, err
	}

	contentLength := raw.ContentLength
	if raw.Chunked {
		contentLength = -1
	}

	return &Request{
		Method:        raw.Method,
		URL:           u,
		Proto:         raw.Proto,
		Header:        raw.Header,
		Body:          NewBody(raw.Body, raw.ContentLength, raw.Chunked),
		ContentLength: contentLength,
		Host:          raw.Header.Get("Host"),
		RemoteAddr:    remoteAddr,
		LocalAddr:     localAddr,
		RequestURI:    raw.Target,
		Extensions:    NewExtensions(),
		ctx:           context.Background(),
	}, nil
}

// Context returns the request's context.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext returns a shallow copy of r with its context changed to ctx.
// The copy shares the Body and Extensions with r.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx == nil {
		panic("nil context")
	}
	r2 := new(Request)
	*r2 = *r
	r2.ctx = ctx
	return r2
}

// SetContext replaces the request's context in place.
func (r *Request) SetContext(ctx context.Context) {
	if ctx == nil {
		panic("nil context")
	}
	r.ctx = ctx
}

// UserAgent returns the client's User-Agent header.
func (r *Request) UserAgent() string {
	return r.Header.Get("User-Agent")
}

// String implements fmt.Stringer for debug logging; the body is not
// touched.
func (r *Request) String() string {
	return fmt.Sprintf("%s %s (%s body, remote %v)", r.Method, r.URL, r.Body.Framing(), r.RemoteAddr)
}

// addrPort extracts the port of a network address, or 0 when the address
// carries none.
func addrPort(addr net.Addr) int {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return a.Port
	case nil:
		return 0
	}
	_, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}
