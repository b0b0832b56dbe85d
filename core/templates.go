package core

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Templates holds every precompiled non-file response. Error responses are
// headers plus body in one buffer since they are small; the health endpoints
// follow the unified single-write pattern with a headers-only variant for
// HEAD. All buffers are rendered once at startup and never mutated.
type Templates struct {
	NotFound         []byte
	MethodNotAllowed []byte
	RequestTooLarge  []byte
	BadRequest       []byte
	RequestTimeout   []byte

	HealthComplete    []byte
	HealthHeadersOnly []byte
	ReadyComplete     []byte
	ReadyHeadersOnly  []byte
}

type statusPayload struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewTemplates renders all precompiled responses. A render failure here is
// a fatal startup error: the server must not accept connections without its
// templates.
func NewTemplates() (*Templates, error) {
	t := &Templates{
		NotFound:         []byte("HTTP/1.1 404 Not Found\r\nContent-Type: text/plain\r\nContent-Length: 14\r\nX-Content-Type-Options: nosniff\r\nConnection: keep-alive\r\n\r\nFile not found"),
		MethodNotAllowed: []byte("HTTP/1.1 405 Method Not Allowed\r\nContent-Type: text/plain\r\nContent-Length: 18\r\nX-Content-Type-Options: nosniff\r\nConnection: keep-alive\r\n\r\nMethod not allowed"),
		RequestTooLarge:  []byte("HTTP/1.1 413 Request Entity Too Large\r\nContent-Type: text/plain\r\nContent-Length: 17\r\nX-Content-Type-Options: nosniff\r\nConnection: keep-alive\r\n\r\nRequest too large"),
		BadRequest:       []byte("HTTP/1.1 400 Bad Request\r\nContent-Type: text/plain\r\nContent-Length: 17\r\nX-Content-Type-Options: nosniff\r\nConnection: keep-alive\r\n\r\nMalformed request"),
		RequestTimeout:   []byte("HTTP/1.1 408 Request Timeout\r\nContent-Type: text/plain\r\nContent-Length: 15\r\nX-Content-Type-Options: nosniff\r\nConnection: keep-alive\r\n\r\nRequest timeout"),
	}

	now := strconv.FormatInt(time.Now().Unix(), 10)

	var err error
	t.HealthComplete, t.HealthHeadersOnly, err = statusResponse("healthy", now)
	if err != nil {
		return nil, fmt.Errorf("render health template: %w", err)
	}
	t.ReadyComplete, t.ReadyHeadersOnly, err = statusResponse("ready", now)
	if err != nil {
		return nil, fmt.Errorf("render ready template: %w", err)
	}

	return t, nil
}

func statusResponse(status, timestamp string) (complete, headersOnly []byte, err error) {
	body, err := json.Marshal(statusPayload{Status: status, Timestamp: timestamp})
	if err != nil {
		return nil, nil, err
	}

	headers := make([]byte, 0, 160)
	headers = append(headers, "HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nContent-Length: "...)
	headers = strconv.AppendInt(headers, int64(len(body)), 10)
	headers = append(headers, "\r\nX-Content-Type-Options: nosniff\r\nConnection: keep-alive\r\n\r\n"...)

	complete = make([]byte, 0, len(headers)+len(body))
	complete = append(complete, headers...)
	complete = append(complete, body...)

	return complete, headers, nil
}
