package http

import "time"

const (
	MaxRequestSize         = 64 * 1024 // request line + headers + body
	MaxRequestHeaders      = 64
	DefaultReadBufferSize  = 4096 // 4kB
	DefaultWriteBufferSize = 4096 // 4kB

	DefaultMaxConns  = 256
	DefaultIOTimeout = 10 * time.Second
)

// Handler processes one parsed request and fills in the response. The
// response is framed and written by the server after the handler returns.
type Handler func(req *Request, res *Response)

var (
	crlf            = []byte("\r\n")
	headerSeparator = []byte(": ")
)
