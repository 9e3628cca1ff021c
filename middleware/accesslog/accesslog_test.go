package accesslog

import (
	"bytes"
	"net"
	"net/http"
	"os"
	"testing"

	"github.com/ryanbekhen/besi"
	"github.com/ryanbekhen/besi/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAccessLog tests that one line per request reaches the logger
func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stdout)

	header := besi.NewHeader()
	header.Set("Host", "log.test")
	raw := &besi.RawRequest{
		Method:        "GET",
		Target:        "/metrics",
		Proto:         "HTTP/1.1",
		Header:        header,
		ContentLength: -1,
	}
	remote := &net.TCPAddr{IP: net.IPv4(10, 0, 0, 9), Port: 40000}
	local := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 3000}
	req, err := besi.NewRequest(raw, remote, local, besi.HTTP)
	require.NoError(t, err)

	handler := New()(func(r *besi.Request) *besi.Response {
		return besi.Text(http.StatusTeapot, "short and stout")
	})
	resp := handler(req)

	require.NotNil(t, resp)
	assert.Equal(t, http.StatusTeapot, resp.Status, "the response must pass through unchanged")

	line := buf.String()
	assert.Contains(t, line, "418")
	assert.Contains(t, line, "GET /metrics")
	assert.Contains(t, line, "10.0.0.9")
}
