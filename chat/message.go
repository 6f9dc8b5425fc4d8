// Package chat holds the wire payload, the bot that answers it and the
// in-memory history of completed exchanges.
package chat

import (
	"errors"

	"github.com/freekieb7/rusty/json"
)

var ErrIncompleteMessage = errors.New("chat: message requires both user and message fields")

// ChatMessage is the payload shape shared by request and reply. A decoded
// message is never mutated; responding produces a new value.
type ChatMessage struct {
	User    string `json:"user"`
	Message string `json:"message"`
}

// wireMessage probes field presence via pointers, so a payload missing either
// field is rejected instead of silently defaulting to "".
type wireMessage struct {
	User    *string `json:"user"`
	Message *string `json:"message"`
}

// DecodeMessage parses data strictly: malformed syntax, a mistyped field or a
// missing field all fail.
func DecodeMessage(data []byte) (ChatMessage, error) {
	var wire wireMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return ChatMessage{}, err
	}

	if wire.User == nil || wire.Message == nil {
		return ChatMessage{}, ErrIncompleteMessage
	}

	return ChatMessage{User: *wire.User, Message: *wire.Message}, nil
}
