package http

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

var (
	ErrHeaderBlockTooLarge = errors.New("http: header block exceeds limit")
	ErrTooManyHeaders      = errors.New("http: too many headers")
	ErrBodyTooLarge        = errors.New("http: request body exceeds limit")
)

type Request struct {
	Method   string
	Path     string
	Protocol string
	Headers  map[string]string // keys are lowercased during parsing
	Body     []byte
}

// Parse reads one request from the reader: request line, header block until
// the blank line, then the body. The header block is read incrementally, so a
// request split across several network segments still parses instead of being
// truncated at an arbitrary buffer boundary.
//
// Parsing is deliberately lenient about the request line: a line that does not
// carry a full METHOD PATH VERSION triple still yields a Request, so the
// router can answer it with 405 rather than dropping the connection. The
// version token, when present, is recorded but never interpreted.
func (req *Request) Parse(r *bufio.Reader) error {
	requestLine, err := r.ReadString('\n')
	if err != nil && strings.TrimSpace(requestLine) == "" {
		return io.EOF
	}
	consumed := len(requestLine)

	requestLine = strings.TrimSpace(requestLine)
	if requestLine == "" {
		return io.EOF
	}

	parts := strings.Fields(requestLine)
	req.Method = parts[0]
	if len(parts) > 1 {
		req.Path = parts[1]
	}
	if len(parts) > 2 {
		req.Protocol = parts[2]
	}

	req.Headers = make(map[string]string)
	for headerCount := 0; ; headerCount++ {
		if headerCount >= MaxRequestHeaders {
			return ErrTooManyHeaders
		}

		line, err := r.ReadString('\n')
		if err != nil {
			// A request that ends mid-header block has no body; classification
			// can still proceed on what was read.
			break
		}

		consumed += len(line)
		if consumed > MaxRequestSize {
			return ErrHeaderBlockTooLarge
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break // end of headers
		}

		if i := strings.Index(line, ":"); i >= 0 {
			key := strings.ToLower(strings.TrimSpace(line[:i]))
			value := strings.TrimSpace(line[i+1:])
			req.Headers[key] = value
		}
	}

	return req.parseBody(r)
}

func (req *Request) parseBody(r *bufio.Reader) error {
	if raw, found := req.HeaderValue("content-length"); found {
		length, err := strconv.Atoi(raw)
		if err != nil || length < 0 {
			return errors.New("http: malformed content-length")
		}
		if length > MaxRequestSize {
			return ErrBodyTooLarge
		}
		if length == 0 {
			return nil
		}

		body := make([]byte, length)
		if _, err := io.ReadFull(r, body); err != nil {
			return err
		}
		req.Body = body
		return nil
	}

	// No declared length: take what already arrived with the header block.
	// Covers callers that write the whole request in one segment and then
	// wait for the reply without ever sending a Content-Length.
	if n := r.Buffered(); n > 0 {
		body := make([]byte, n)
		if _, err := io.ReadFull(r, body); err != nil {
			return err
		}
		req.Body = body
	}
	return nil
}

func (req *Request) HeaderValue(name string) (string, bool) {
	value, found := req.Headers[strings.ToLower(name)]
	return value, found
}

func (req *Request) Reset() {
	req.Method = ""
	req.Path = ""
	req.Protocol = ""
	req.Headers = nil
	req.Body = nil
}
