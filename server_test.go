package besi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewServer tests config selection
func TestNewServer(t *testing.T) {
	noop := func(r *Request) *Response { return nil }

	s := New(noop)
	assert.Equal(t, HTTP, s.httpServer.proto, "default protocol is http")
	assert.False(t, s.disableStartupMessage)

	s = New(noop, Config{Protocol: HTTPS, DisableStartupMessage: true})
	assert.Equal(t, HTTPS, s.httpServer.proto)
	assert.True(t, s.disableStartupMessage)
}

// TestResolutionStatus tests error-to-status mapping for rejected messages
func TestResolutionStatus(t *testing.T) {
	for _, err := range []error{ErrMissingHost, ErrMalformedURL, ErrUnsupportedTarget} {
		assert.Equal(t, http.StatusBadRequest, resolutionStatus(err), "%v", err)
		assert.Equal(t, http.StatusBadRequest, resolutionStatus(fmt.Errorf("%w: detail", err)), "wrapped %v", err)
	}
	assert.Equal(t, http.StatusInternalServerError, resolutionStatus(fmt.Errorf("boom")))
}

// TestErrorResponse tests the JSON rejection body
func TestErrorResponse(t *testing.T) {
	resp := ErrorResponse(http.StatusBadRequest, "no Host header in request")

	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var e Error
	require.NoError(t, json.Unmarshal(resp.Body, &e))
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, "no Host header in request", e.Message)
	assert.Equal(t, "no Host header in request", e.Error())
}

// TestChain tests middleware composition order
func TestChain(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(r *Request) *Response {
				order = append(order, name)
				return next(r)
			}
		}
	}
	handler := Chain(func(r *Request) *Response {
		order = append(order, "handler")
		return Text(http.StatusOK, "done")
	}, mw("outer"), mw("inner"))

	resp := handler(&Request{})
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "done", string(resp.Body))
}

// TestResponseHelpers tests the Text and JSON constructors
func TestResponseHelpers(t *testing.T) {
	resp := Text(http.StatusNotFound, "nothing here")
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "nothing here", string(resp.Body))

	resp = JSON(http.StatusOK, map[string]int{"n": 3})
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"n":3}`, string(resp.Body))
}
