package besi

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/panjf2000/gnet/v2"
	"github.com/ryanbekhen/besi/internal/httpcodec"
	"github.com/ryanbekhen/besi/log"
)

// gnetLogger forwards gnet's internal logging to the besi logger.
type gnetLogger struct{}

func (l *gnetLogger) Debugf(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}
func (l *gnetLogger) Infof(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}
func (l *gnetLogger) Warnf(format string, args ...interface{}) {
	logger.Warn().Msgf(format, args...)
}
func (l *gnetLogger) Errorf(format string, args ...interface{}) {
	logger.Error().Msgf(format, args...)
}
func (l *gnetLogger) Fatalf(format string, args ...interface{}) {
	logger.Fatal().Msgf(format, args...)
}

// Server accepts connections and hands each assembled Request to its
// Handler.
type Server struct {
	httpServer            *httpServer
	disableStartupMessage bool
}

type httpServer struct {
	gnet.BuiltinEventEngine

	addr    string
	cfg     Config
	proto   Protocol
	handler Handler
	eng     gnet.Engine
}

// New creates a server that dispatches every request to handler.
// Use DefaultConfig() for sensible defaults.
func New(handler Handler, config ...Config) *Server {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	hs := &httpServer{
		cfg:     cfg,
		proto:   cfg.Protocol,
		handler: handler,
	}

	return &Server{
		httpServer:            hs,
		disableStartupMessage: cfg.DisableStartupMessage,
	}
}

func (hs *httpServer) OnBoot(eng gnet.Engine) gnet.Action {
	hs.eng = eng
	return gnet.None
}

func (hs *httpServer) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	c.SetContext(httpcodec.NewCodec())
	return nil, gnet.None
}

func (hs *httpServer) OnClose(c gnet.Conn, err error) gnet.Action {
	if codec, ok := c.Context().(*httpcodec.Codec); ok && codec != nil {
		httpcodec.ReleaseCodec(codec)
	}
	return gnet.None
}

func (hs *httpServer) OnTraffic(c gnet.Conn) gnet.Action {
	codec := c.Context().(*httpcodec.Codec)
	buf, _ := c.Peek(-1)

	var processed int
	for processed < len(buf) {
		head, err := codec.ParseHead(buf[processed:])
		if err != nil {
			if errors.Is(err, httpcodec.ErrIncompleteHead) {
				// Wait for the rest of the head.
				break
			}
			// The framing state of the connection is unknown; answer and
			// close.
			hs.writeError(c, http.StatusBadRequest, "malformed request")
			if processed > 0 {
				c.Discard(processed)
			}
			return gnet.Close
		}

		extent, err := httpcodec.MessageExtent(buf[processed:], head)
		if err != nil {
			// Body bytes still in flight.
			break
		}

		if action := hs.serveMessage(c, head, buf[processed:processed+extent]); action != gnet.None {
			if processed > 0 {
				c.Discard(processed)
			}
			return action
		}
		processed += extent
	}

	if processed > 0 {
		c.Discard(processed)
	}
	return gnet.None
}

// serveMessage assembles one complete, fully buffered message into a
// Request, runs the handler and writes its response.
func (hs *httpServer) serveMessage(c gnet.Conn, head *httpcodec.Head, msg []byte) gnet.Action {
	body := bufio.NewReader(bytes.NewReader(msg[head.Len:]))
	raw := &RawRequest{
		Method:        head.Method,
		Target:        head.Target,
		Proto:         head.Proto,
		Header:        Header(head.Header),
		ContentLength: head.ContentLength,
		Chunked:       head.Chunked,
		Body:          body,
	}

	req, err := NewRequest(raw, c.RemoteAddr(), c.LocalAddr(), hs.proto)
	if err != nil {
		// Resolution failures are fatal to the message, not the
		// connection. The message extent is known, so the connection
		// cursor stays valid for whatever follows.
		hs.writeError(c, resolutionStatus(err), err.Error())
		return gnet.None
	}

	resp := hs.handler(req)
	if resp == nil {
		resp = NewResponse(http.StatusNoContent)
	}

	// Drain whatever the handler left unread so the next pipelined
	// message starts from a clean cursor. The message is fully buffered,
	// so this never blocks.
	_, _ = io.Copy(io.Discard, req.Body)

	hs.writeResponse(c, resp)
	return gnet.None
}

func (hs *httpServer) writeResponse(c gnet.Conn, resp *Response) {
	buf := httpcodec.AcquireResponse(resp.Status, resp.Header, resp.Body)
	_, _ = c.Write(buf.B)
	httpcodec.ReleaseResponse(buf)
}

func (hs *httpServer) writeError(c gnet.Conn, status int, message string) {
	hs.writeResponse(c, ErrorResponse(status, message))
}

// resolutionStatus maps a URL resolution error to the response status for
// rejecting the message.
func resolutionStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingHost),
		errors.Is(err, ErrMalformedURL),
		errors.Is(err, ErrUnsupportedTarget):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Listen starts the server and blocks serving connections on addr.
func (s *Server) Listen(addr string) error {
	if addr == "" {
		addr = ":3000"
	}
	s.httpServer.addr = "tcp://" + addr

	initLogger(log.InfoLevel)
	if !s.disableStartupMessage {
		displayStartupMessage(addr)
	}

	return gnet.Run(
		s.httpServer,
		s.httpServer.addr,
		gnet.WithMulticore(s.httpServer.cfg.Multicore),
		gnet.WithReuseAddr(true),
		gnet.WithReusePort(true),
		gnet.WithLogger(&gnetLogger{}),
		gnet.WithTCPNoDelay(gnet.TCPNoDelay),
		gnet.WithTCPKeepAlive(s.httpServer.cfg.IdleTimeout),
	)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.eng.Stop(ctx)
}
