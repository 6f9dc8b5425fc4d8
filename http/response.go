package http

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/freekieb7/rusty/json"
)

type headerField struct {
	name  string
	value string
}

// Response is accumulated in memory by the handler chain and only hits the
// wire once Write is called, so a peer never observes a half-framed reply.
type Response struct {
	Status uint16
	Body   []byte

	fields []headerField
}

func (res *Response) Reset() {
	res.Status = StatusOK
	res.Body = nil
	res.fields = res.fields[:0]
}

// SetHeader sets a header field, replacing an earlier value under the same
// name. Insertion order is preserved on the wire.
func (res *Response) SetHeader(name, value string) {
	for i := range res.fields {
		if strings.EqualFold(res.fields[i].name, name) {
			res.fields[i].value = value
			return
		}
	}
	res.fields = append(res.fields, headerField{name: name, value: value})
}

func (res *Response) Header(name string) (string, bool) {
	for i := range res.fields {
		if strings.EqualFold(res.fields[i].name, name) {
			return res.fields[i].value, true
		}
	}
	return "", false
}

func (res *Response) WithStatus(status uint16) *Response {
	res.Status = status
	return res
}

func (res *Response) WithJson(payload any) *Response {
	body, err := json.Marshal(payload)
	if err != nil {
		res.Status = StatusInternalServerError
		res.Body = nil
		return res
	}

	res.SetHeader("Content-Type", "application/json")
	res.Body = body
	return res
}

func (res *Response) WithText(payload string) *Response {
	res.SetHeader("Content-Type", "text/plain")
	res.Body = []byte(payload)
	return res
}

// Write frames the response and flushes it: status line, header fields, a
// Content-Length that always equals the exact body length, blank line, body.
// Any Content-Length set earlier is ignored; the declared length coming from
// anywhere but len(Body) is how replies get corrupted.
func (res *Response) Write(w *bufio.Writer) error {
	if _, err := w.WriteString("HTTP/1.1 " + strconv.Itoa(int(res.Status)) + " " + StatusText(res.Status)); err != nil {
		return err
	}
	if _, err := w.Write(crlf); err != nil {
		return err
	}

	for _, field := range res.fields {
		if strings.EqualFold(field.name, "Content-Length") {
			continue
		}
		w.WriteString(field.name)
		w.Write(headerSeparator)
		w.WriteString(field.value)
		w.Write(crlf)
	}

	w.WriteString("Content-Length")
	w.Write(headerSeparator)
	w.WriteString(strconv.Itoa(len(res.Body)))
	w.Write(crlf)
	w.Write(crlf)

	if len(res.Body) > 0 {
		if _, err := w.Write(res.Body); err != nil {
			return err
		}
	}

	return w.Flush()
}
