// Package httpcodec is the raw protocol layer: it tokenizes HTTP/1.1
// message heads with wildcat, reports how far one complete message extends
// into a connection buffer, and serializes responses.
package httpcodec

import (
	"bytes"
	"errors"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/evanphx/wildcat"
	"github.com/valyala/bytebufferpool"
)

// Wire terminators
var (
	crlf       = []byte("\r\n")
	doubleCrlf = []byte("\r\n\r\n")
	zeroChunk  = []byte("\r\n0\r\n")
)

// Error variables for head and extent analysis
var (
	// ErrIncompleteHead is returned when the buffer does not yet hold a
	// full header section. The caller should wait for more bytes.
	ErrIncompleteHead = errors.New("incomplete request head")

	// ErrIncompleteBody is returned when the head is complete but the
	// declared body has not fully arrived.
	ErrIncompleteBody = errors.New("incomplete request body")

	// ErrMalformedHead is returned when the header section violates
	// HTTP/1.1 grammar.
	ErrMalformedHead = errors.New("malformed request head")
)

// Head is the tokenized header section of one request.
type Head struct {
	// Method, Target and Proto are the three request-line tokens.
	Method string
	Target string
	Proto  string

	// Header holds the header fields, keys canonicalized.
	Header map[string][]string

	// ContentLength is the declared Content-Length, -1 when absent.
	ContentLength int64

	// Chunked reports a declared chunked transfer-encoding.
	Chunked bool

	// Len is the byte length of the head including the blank line.
	Len int
}

// parserPool reuses wildcat parsers across connections.
var parserPool = sync.Pool{
	New: func() interface{} {
		return wildcat.NewHTTPParser()
	},
}

// Codec parses requests and writes responses for one connection.
type Codec struct {
	parser *wildcat.HTTPParser
}

// codecPool reuses Codec objects.
var codecPool = sync.Pool{
	New: func() interface{} {
		return &Codec{parser: parserPool.Get().(*wildcat.HTTPParser)}
	},
}

// NewCodec returns a Codec from the pool.
func NewCodec() *Codec {
	c := codecPool.Get().(*Codec)
	if c.parser == nil {
		c.parser = parserPool.Get().(*wildcat.HTTPParser)
	}
	return c
}

// ReleaseCodec returns a codec to the pool.
func ReleaseCodec(c *Codec) {
	codecPool.Put(c)
}

// ParseHead tokenizes the header section at the start of data.
// It returns ErrIncompleteHead when the blank line has not arrived yet and
// ErrMalformedHead when the head cannot be parsed.
func (c *Codec) ParseHead(data []byte) (*Head, error) {
	end := bytes.Index(data, doubleCrlf)
	if end == -1 {
		return nil, ErrIncompleteHead
	}
	headLen := end + len(doubleCrlf)

	if _, err := c.parser.Parse(data[:headLen]); err != nil {
		return nil, ErrMalformedHead
	}

	lines := strings.Split(string(data[:end]), "\r\n")
	requestLine := strings.Split(lines[0], " ")
	if len(requestLine) < 3 {
		return nil, ErrMalformedHead
	}

	header := make(map[string][]string, len(lines)-1)
	for _, line := range lines[1:] {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			return nil, ErrMalformedHead
		}
		key := textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(k))
		header[key] = append(header[key], strings.TrimSpace(v))
	}

	h := &Head{
		Method:        requestLine[0],
		Target:        requestLine[1],
		Proto:         requestLine[2],
		Header:        header,
		ContentLength: contentLength(header),
		Chunked:       chunkedDeclared(header),
		Len:           headLen,
	}
	return h, nil
}

// MessageExtent returns the total byte length of the message described by
// head once it is fully present in data, or ErrIncompleteBody while bytes
// are still missing. Chunked takes precedence over a declared length.
func MessageExtent(data []byte, head *Head) (int, error) {
	switch {
	case head.Chunked:
		return chunkedExtent(data, head.Len)
	case head.ContentLength > 0:
		total := head.Len + int(head.ContentLength)
		if len(data) < total {
			return 0, ErrIncompleteBody
		}
		return total, nil
	default:
		return head.Len, nil
	}
}

// chunkedExtent scans for the terminal zero-size chunk and the blank line
// closing its trailer section.
func chunkedExtent(data []byte, headLen int) (int, error) {
	body := data[headLen:]

	var zeroStart int
	if bytes.HasPrefix(body, zeroChunk[2:]) {
		zeroStart = 0
	} else if idx := bytes.Index(body, zeroChunk); idx != -1 {
		zeroStart = idx + 2
	} else {
		return 0, ErrIncompleteBody
	}

	// The message ends at the blank line closing the trailer section; for
	// a trailerless message that is the CRLF pair right after "0\r\n".
	end := bytes.Index(body[zeroStart:], doubleCrlf)
	if end == -1 {
		return 0, ErrIncompleteBody
	}
	return headLen + zeroStart + end + len(doubleCrlf), nil
}

// contentLength reads the declared Content-Length, -1 when absent or
// unparseable.
func contentLength(header map[string][]string) int64 {
	vv := header["Content-Length"]
	if len(vv) == 0 {
		return -1
	}
	n, err := strconv.ParseInt(strings.TrimSpace(vv[0]), 10, 64)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// chunkedDeclared reports whether the final transfer coding is chunked.
func chunkedDeclared(header map[string][]string) bool {
	vv := header["Transfer-Encoding"]
	if len(vv) == 0 {
		return false
	}
	tokens := strings.Split(vv[len(vv)-1], ",")
	last := strings.TrimSpace(tokens[len(tokens)-1])
	return strings.EqualFold(last, "chunked")
}

// Response serialization below.

// dateHeader caching: RFC 7231 dates have second precision, so the
// formatted header is rebuilt at most once per second.
var (
	dateMu     sync.RWMutex
	dateUnix   int64
	dateHeader []byte
)

func currentDateHeader() []byte {
	now := time.Now()
	unix := now.Unix()

	dateMu.RLock()
	if unix == dateUnix && dateHeader != nil {
		h := dateHeader
		dateMu.RUnlock()
		return h
	}
	dateMu.RUnlock()

	dateMu.Lock()
	defer dateMu.Unlock()
	if unix != dateUnix || dateHeader == nil {
		buf := make([]byte, 0, 40)
		buf = append(buf, "Date: "...)
		buf = now.UTC().AppendFormat(buf, http.TimeFormat)
		buf = append(buf, crlf...)
		dateHeader = buf
		dateUnix = unix
	}
	return dateHeader
}

// responsePool holds response serialization buffers.
var responsePool bytebufferpool.Pool

// AcquireResponse serializes an HTTP/1.1 response into a pooled buffer.
// The caller writes the buffer's bytes to the connection and must hand the
// buffer back through ReleaseResponse.
func AcquireResponse(statusCode int, header map[string][]string, body []byte) *bytebufferpool.ByteBuffer {
	buf := responsePool.Get()

	buf.B = append(buf.B, "HTTP/1.1 "...)
	buf.B = strconv.AppendInt(buf.B, int64(statusCode), 10)
	buf.B = append(buf.B, ' ')
	buf.B = append(buf.B, http.StatusText(statusCode)...)
	buf.B = append(buf.B, crlf...)
	buf.B = append(buf.B, currentDateHeader()...)

	for k, vv := range header {
		for _, v := range vv {
			buf.B = append(buf.B, k...)
			buf.B = append(buf.B, ": "...)
			buf.B = append(buf.B, v...)
			buf.B = append(buf.B, crlf...)
		}
	}

	buf.B = append(buf.B, "Content-Length: "...)
	buf.B = strconv.AppendInt(buf.B, int64(len(body)), 10)
	buf.B = append(buf.B, doubleCrlf...)
	buf.B = append(buf.B, body...)

	return buf
}

// ReleaseResponse returns a response buffer to the pool.
func ReleaseResponse(buf *bytebufferpool.ByteBuffer) {
	responsePool.Put(buf)
}
