package besi

// Handler processes one assembled request and produces the response to
// write back. The handler owns the request exclusively while it runs; any
// body bytes it leaves unread are discarded before the next message on the
// connection is served.
type Handler func(r *Request) *Response

// Middleware wraps a Handler with additional behavior. Middleware
// typically communicates with downstream handlers through the request's
// Extensions store.
type Middleware func(next Handler) Handler

// Chain composes middleware around handler. The first middleware is the
// outermost: Chain(h, a, b) runs a, then b, then h.
func Chain(handler Handler, middleware ...Middleware) Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}
