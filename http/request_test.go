package http

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestRequestParse(t *testing.T) {
	var req Request

	reqMsg := []byte("POST /api/chat HTTP/1.1\r\nHost: localhost\r\nContent-Type: application/json\r\nContent-Length: 5\r\n\r\nhello")

	br := bufio.NewReader(bytes.NewReader(reqMsg))
	if err := req.Parse(br); err != nil {
		t.Fatal(err)
	}

	if req.Method != "POST" {
		t.Errorf("Method = %q, want POST", req.Method)
	}
	if req.Path != "/api/chat" {
		t.Errorf("Path = %q, want /api/chat", req.Path)
	}
	if req.Protocol != "HTTP/1.1" {
		t.Errorf("Protocol = %q, want HTTP/1.1", req.Protocol)
	}
	if string(req.Body) != "hello" {
		t.Errorf("Body = %q, want hello", req.Body)
	}

	value, found := req.HeaderValue("Content-Type")
	if !found || value != "application/json" {
		t.Errorf("Content-Type = %q (found=%v)", value, found)
	}
}

func TestRequestParseBareLF(t *testing.T) {
	var req Request

	reqMsg := "OPTIONS /api/chat HTTP/1.1\nHost: localhost\n\n"

	if err := req.Parse(bufio.NewReader(strings.NewReader(reqMsg))); err != nil {
		t.Fatal(err)
	}
	if req.Method != "OPTIONS" || req.Path != "/api/chat" {
		t.Errorf("parsed %q %q", req.Method, req.Path)
	}
	if len(req.Body) != 0 {
		t.Errorf("Body = %q, want empty", req.Body)
	}
}

func TestRequestParseBodyWithoutContentLength(t *testing.T) {
	var req Request

	// Everything arrives in one segment; the body is whatever followed the
	// blank line.
	reqMsg := "POST /api/chat HTTP/1.1\r\n\r\n{\"user\":\"a\",\"message\":\"b\"}"

	if err := req.Parse(bufio.NewReader(strings.NewReader(reqMsg))); err != nil {
		t.Fatal(err)
	}
	if string(req.Body) != `{"user":"a","message":"b"}` {
		t.Errorf("Body = %q", req.Body)
	}
}

func TestRequestParseSpansSegments(t *testing.T) {
	var req Request

	// A reader that returns one byte per Read call: the request arrives in
	// many segments, none aligned with any buffer boundary.
	reqMsg := "POST /api/chat HTTP/1.1\r\nContent-Length: 4\r\n\r\nabcd"

	if err := req.Parse(bufio.NewReader(iotest.OneByteReader(strings.NewReader(reqMsg)))); err != nil {
		t.Fatal(err)
	}
	if string(req.Body) != "abcd" {
		t.Errorf("Body = %q, want abcd", req.Body)
	}
}

func TestRequestParseLenientRequestLine(t *testing.T) {
	var req Request

	if err := req.Parse(bufio.NewReader(strings.NewReader("garbage\r\n\r\n"))); err != nil {
		t.Fatal(err)
	}
	if req.Method != "garbage" || req.Path != "" {
		t.Errorf("parsed %q %q", req.Method, req.Path)
	}
}

func TestRequestParseEmpty(t *testing.T) {
	var req Request

	if err := req.Parse(bufio.NewReader(strings.NewReader(""))); err != io.EOF {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestRequestParseTruncatedHeaders(t *testing.T) {
	var req Request

	// Header block never terminated: classification still possible, no body.
	if err := req.Parse(bufio.NewReader(strings.NewReader("GET / HTTP/1.1\r\nHost: x"))); err != nil {
		t.Fatal(err)
	}
	if req.Method != "GET" {
		t.Errorf("Method = %q, want GET", req.Method)
	}
}

func TestRequestParseLimits(t *testing.T) {
	var req Request

	tooManyHeaders := "GET / HTTP/1.1\r\n" + strings.Repeat("X-Filler: y\r\n", MaxRequestHeaders+1) + "\r\n"
	if err := req.Parse(bufio.NewReader(strings.NewReader(tooManyHeaders))); err != ErrTooManyHeaders {
		t.Errorf("err = %v, want ErrTooManyHeaders", err)
	}

	req.Reset()
	hugeBody := "POST / HTTP/1.1\r\nContent-Length: " + "99999999" + "\r\n\r\n"
	if err := req.Parse(bufio.NewReader(strings.NewReader(hugeBody))); err != ErrBodyTooLarge {
		t.Errorf("err = %v, want ErrBodyTooLarge", err)
	}

	req.Reset()
	hugeHeader := "GET / HTTP/1.1\r\nX-Big: " + strings.Repeat("a", MaxRequestSize) + "\r\n\r\n"
	if err := req.Parse(bufio.NewReader(strings.NewReader(hugeHeader))); err != ErrHeaderBlockTooLarge {
		t.Errorf("err = %v, want ErrHeaderBlockTooLarge", err)
	}
}

func TestRequestParseMalformedContentLength(t *testing.T) {
	var req Request

	reqMsg := "POST / HTTP/1.1\r\nContent-Length: abc\r\n\r\n"
	if err := req.Parse(bufio.NewReader(strings.NewReader(reqMsg))); err == nil {
		t.Error("malformed content-length should fail")
	}
}
