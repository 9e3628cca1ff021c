package besi

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Response is what a Handler returns for one request. Serialization to the
// wire (status line, Date, Content-Length) is the codec's job; handlers
// only fill in status, headers and body.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Header contains the response header fields.
	Header Header

	// Body is the response payload.
	Body []byte
}

// NewResponse creates an empty response with the given status code.
func NewResponse(status int) *Response {
	return &Response{
		Status: status,
		Header: NewHeader(),
	}
}

// Text builds a plain-text response.
func Text(status int, body string) *Response {
	r := NewResponse(status)
	r.Header.Set("Content-Type", "text/plain; charset=utf-8")
	r.Body = []byte(body)
	return r
}

// JSON builds a response with v marshaled as its JSON body. A marshal
// failure degrades to a plain 500.
func JSON(status int, v interface{}) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		return Text(http.StatusInternalServerError, "response serialization failed")
	}
	r := NewResponse(status)
	r.Header.Set("Content-Type", "application/json")
	r.Body = body
	return r
}
