package besi

import (
	"net/textproto"
	"strings"
)

// Header represents the key-value pairs of an HTTP header section.
// Keys are kept in canonical form as produced by
// textproto.CanonicalMIMEHeaderKey; multiple values per key are preserved
// in the order they appeared on the wire.
type Header map[string][]string

// NewHeader creates an empty Header.
func NewHeader() Header {
	return make(Header)
}

// Add appends value to the values already associated with key.
// The key is case insensitive; it is canonicalized before use.
func (h Header) Add(key, value string) {
	textproto.MIMEHeader(h).Add(key, value)
}

// Set replaces any existing values for key with the single value.
// The key is case insensitive; it is canonicalized before use.
func (h Header) Set(key, value string) {
	textproto.MIMEHeader(h).Set(key, value)
}

// Get returns the first value associated with key, or "" when the key is
// absent. The key is case insensitive.
func (h Header) Get(key string) string {
	return textproto.MIMEHeader(h).Get(key)
}

// Values returns all values associated with key in wire order.
// The returned slice is not a copy. The key is case insensitive.
func (h Header) Values(key string) []string {
	return textproto.MIMEHeader(h).Values(key)
}

// Del removes all values associated with key.
// The key is case insensitive.
func (h Header) Del(key string) {
	textproto.MIMEHeader(h).Del(key)
}

// Clone returns a deep copy of h, or nil if h is nil.
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}

	nv := 0
	for _, vv := range h {
		nv += len(vv)
	}
	sv := make([]string, nv) // shared backing array for the copied values
	h2 := make(Header, len(h))
	for k, vv := range h {
		n := copy(sv, vv)
		h2[k] = sv[:n:n]
		sv = sv[n:]
	}
	return h2
}

// HasChunkedEncoding reports whether the Transfer-Encoding header declares
// the chunked coding. Per RFC 7230 chunked is always the final coding
// applied, so only the last token of the last field value is considered.
func (h Header) HasChunkedEncoding() bool {
	vv := h.Values("Transfer-Encoding")
	if len(vv) == 0 {
		return false
	}
	tokens := strings.Split(vv[len(vv)-1], ",")
	last := strings.TrimSpace(tokens[len(tokens)-1])
	return strings.EqualFold(last, "chunked")
}
