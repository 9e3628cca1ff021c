package besi

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Resolution errors. All of them are fatal to the message being assembled:
// the caller must reject the request (typically with a 4xx response) or
// close the connection. Nothing is retried.
var (
	// ErrMissingHost is returned when an absolute-path request-target
	// arrives without a Host header. HTTP/1.1 makes the header mandatory,
	// and without it there is no hostname to resolve against.
	ErrMissingHost = errors.New("no Host header in request")

	// ErrMalformedURL is returned when the given or synthesized URL string
	// fails URL grammar.
	ErrMalformedURL = errors.New("malformed request URL")

	// ErrUnsupportedTarget is returned for authority-form, asterisk-form
	// and any other request-target besi does not resolve.
	ErrUnsupportedTarget = errors.New("unsupported request-target")
)

// ResolveURL turns a request-target into one canonical absolute URL.
//
// Two target forms are supported:
//
//   - absolute-URI ("http://host:port/path?q"): parsed and taken as given,
//     no component is rewritten.
//   - absolute-path ("/path?q"): the Host header supplies the hostname and
//     the URL is synthesized as scheme://hostname:localPort/path. The local
//     listening port is authoritative; a port embedded in the Host header
//     is ignored.
//
// Virtual-host ownership of the resulting URL is not validated here; that
// belongs to whatever routes the assembled request.
func ResolveURL(target string, host string, scheme string, localPort int) (*url.URL, error) {
	switch {
	case strings.HasPrefix(target, "/"):
		if host == "" {
			return nil, ErrMissingHost
		}
		raw := fmt.Sprintf("%s://%s:%d%s", scheme, hostname(host), localPort, target)
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedURL, err)
		}
		return u, nil

	case strings.Contains(target, "://"):
		u, err := url.Parse(target)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedURL, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: %q has no authority", ErrMalformedURL, target)
		}
		return u, nil

	default:
		// Asterisk-form ("*") and authority-form ("host:port") land here.
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedTarget, target)
	}
}

// hostname strips an optional port from a Host header value. IPv6 literals
// keep their brackets so the result stays valid inside a URL authority.
func hostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		if strings.Contains(h, ":") {
			return "[" + h + "]"
		}
		return h
	}
	return host
}
