package core

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/goccy/go-json"
)

// declaredLength extracts the Content-Length header from a raw response.
func declaredLength(t *testing.T, response []byte) int {
	t.Helper()
	idx := bytes.Index(response, []byte("Content-Length: "))
	if idx == -1 {
		t.Fatalf("no Content-Length in %q", response)
	}
	rest := response[idx+len("Content-Length: "):]
	end := bytes.IndexByte(rest, '\r')
	n, err := strconv.Atoi(string(rest[:end]))
	if err != nil {
		t.Fatalf("bad Content-Length in %q: %v", response, err)
	}
	return n
}

func body(response []byte) []byte {
	idx := bytes.Index(response, []byte("\r\n\r\n"))
	return response[idx+4:]
}

func TestErrorTemplatesConsistent(t *testing.T) {
	tmpl, err := NewTemplates()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		response []byte
		status   string
		body     string
	}{
		{"not found", tmpl.NotFound, "HTTP/1.1 404 Not Found", "File not found"},
		{"method not allowed", tmpl.MethodNotAllowed, "HTTP/1.1 405 Method Not Allowed", "Method not allowed"},
		{"request too large", tmpl.RequestTooLarge, "HTTP/1.1 413 Request Entity Too Large", "Request too large"},
		{"bad request", tmpl.BadRequest, "HTTP/1.1 400 Bad Request", "Malformed request"},
		{"request timeout", tmpl.RequestTimeout, "HTTP/1.1 408 Request Timeout", "Request timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.HasPrefix(tt.response, []byte(tt.status+"\r\n")) {
				t.Errorf("status line = %q, want %q", tt.response, tt.status)
			}
			got := body(tt.response)
			if string(got) != tt.body {
				t.Errorf("body = %q, want %q", got, tt.body)
			}
			if n := declaredLength(t, tt.response); n != len(got) {
				t.Errorf("Content-Length = %d, body is %d bytes", n, len(got))
			}
			if !bytes.Contains(tt.response, []byte("X-Content-Type-Options: nosniff\r\n")) {
				t.Error("missing nosniff header")
			}
			if !bytes.Contains(tt.response, []byte("Content-Type: text/plain\r\n")) {
				t.Error("missing text/plain content type")
			}
		})
	}
}

func TestStatusTemplates(t *testing.T) {
	tmpl, err := NewTemplates()
	if err != nil {
		t.Fatal(err)
	}

	for _, tt := range []struct {
		name        string
		complete    []byte
		headersOnly []byte
		status      string
	}{
		{"health", tmpl.HealthComplete, tmpl.HealthHeadersOnly, "healthy"},
		{"ready", tmpl.ReadyComplete, tmpl.ReadyHeadersOnly, "ready"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if !bytes.HasPrefix(tt.complete, tt.headersOnly) {
				t.Fatal("complete response must start with the headers-only buffer")
			}
			payload := tt.complete[len(tt.headersOnly):]
			if n := declaredLength(t, tt.headersOnly); n != len(payload) {
				t.Errorf("Content-Length = %d, body is %d bytes", n, len(payload))
			}
			if !bytes.Contains(tt.headersOnly, []byte("Content-Type: application/json\r\n")) {
				t.Error("missing application/json content type")
			}

			var decoded struct {
				Status    string `json:"status"`
				Timestamp string `json:"timestamp"`
			}
			if err := json.Unmarshal(payload, &decoded); err != nil {
				t.Fatalf("body %q is not valid JSON: %v", payload, err)
			}
			if decoded.Status != tt.status {
				t.Errorf("status = %q, want %q", decoded.Status, tt.status)
			}
			if decoded.Timestamp == "" {
				t.Error("timestamp missing")
			}
		})
	}
}
