package besi

// Protocol describes the protocol a listener speaks. The resolver uses its
// scheme when synthesizing absolute URLs for absolute-path request-targets.
type Protocol struct {
	name string
}

// HTTP is plaintext HTTP/1.1.
var HTTP = Protocol{name: "http"}

// HTTPS is HTTP/1.1 over TLS.
var HTTPS = Protocol{name: "https"}

// Name returns the scheme name of the protocol, "http" or "https".
func (p Protocol) Name() string {
	return p.name
}

// String implements fmt.Stringer.
func (p Protocol) String() string {
	return p.name
}
