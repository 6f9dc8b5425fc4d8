// Package client implements the caller side of the chat contract: one new
// connection per send, one JSON-encoded user/message pair out, one framed
// JSON reply back.
package client

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/freekieb7/rusty/chat"
	"github.com/freekieb7/rusty/json"
)

type Client struct {
	Addr    string
	Timeout time.Duration
}

func New(addr string) *Client {
	return &Client{
		Addr:    addr,
		Timeout: 5 * time.Second,
	}
}

// Send posts one message and returns the decoded reply. The connection is
// never reused.
func (c *Client) Send(ctx context.Context, user, message string) (chat.ChatMessage, error) {
	var reply chat.ChatMessage

	body, err := json.Marshal(chat.ChatMessage{User: user, Message: message})
	if err != nil {
		return reply, errors.Wrap(err, "encode payload")
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", c.Addr)
	if err != nil {
		return reply, errors.Wrapf(err, "dial %s", c.Addr)
	}
	defer conn.Close()

	if c.Timeout > 0 {
		conn.SetDeadline(time.Now().Add(c.Timeout))
	}

	var request bytes.Buffer
	request.WriteString("POST /api/chat HTTP/1.1\r\n")
	request.WriteString("Host: " + c.Addr + "\r\n")
	request.WriteString("Content-Type: application/json\r\n")
	request.WriteString("Content-Length: " + strconv.Itoa(len(body)) + "\r\n")
	request.WriteString("\r\n")
	request.Write(body)

	if _, err := conn.Write(request.Bytes()); err != nil {
		return reply, errors.Wrap(err, "write request")
	}

	status, respBody, err := readResponse(bufio.NewReader(conn))
	if err != nil {
		return reply, errors.Wrap(err, "read response")
	}
	if status != 200 {
		return reply, errors.Errorf("server answered %d: %s", status, respBody)
	}

	if err := json.Unmarshal(respBody, &reply); err != nil {
		return reply, errors.Wrap(err, "decode reply")
	}
	return reply, nil
}

func readResponse(r *bufio.Reader) (int, []byte, error) {
	statusLine, err := r.ReadString('\n')
	if err != nil {
		return 0, nil, err
	}

	parts := strings.Fields(statusLine)
	if len(parts) < 2 {
		return 0, nil, errors.Errorf("malformed status line: %q", statusLine)
	}
	status, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, nil, errors.Errorf("malformed status code: %q", parts[1])
	}

	contentLength := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return 0, nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}

		key, value, found := strings.Cut(line, ":")
		if found && strings.EqualFold(strings.TrimSpace(key), "Content-Length") {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return 0, nil, errors.Wrap(err, "malformed content-length")
			}
		}
	}

	if contentLength < 0 {
		body, err := io.ReadAll(r)
		return status, body, err
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	return status, body, nil
}
