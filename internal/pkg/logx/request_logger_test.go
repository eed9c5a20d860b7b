package logx

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := map[string]string{
		"203.0.113.42:5555":          "203.0.113.0",
		"203.0.113.42":               "203.0.113.0",
		"127.0.0.1:80":               "127.0.0.1",
		"[2001:db8:1:2:3:4:5:6]:443": "2001:db8:1:2::",
		"not-an-ip":                  "unknown_ip",
	}

	for in, want := range tests {
		assert.Equal(t, want, anonymizeIP(in), in)
	}
}

func TestRequestLoggerWritesOneLine(t *testing.T) {
	var buf bytes.Buffer
	initWith(&buf, false)
	t.Cleanup(func() { initWith(&bytes.Buffer{}, false) })

	h := RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/messages", nil)
	req.RemoteAddr = "198.51.100.7:1234"
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, `"status":418`)
	assert.Contains(t, line, `"remote_ip":"198.51.100.0"`)
	assert.Contains(t, line, `"component":"http"`)
	assert.Contains(t, line, `"level":"warn"`)
}
