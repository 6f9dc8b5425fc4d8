package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freekieb7/rusty/http"
)

func invoke(handler http.Handler, body []byte) *http.Response {
	req := http.Request{Method: "POST", Path: "/api/chat", Body: body}

	var res http.Response
	res.Reset()

	handler(&req, &res)
	return &res
}

func TestChatHandler(t *testing.T) {
	bot := NewBot()
	history := NewHistory()

	res := invoke(ChatHandler(bot, history), []byte(`{"user":"Alice","message":"hi"}`))

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, `{"user":"Rusty","message":"You said: hi"}`, string(res.Body))

	contentType, _ := res.Header("Content-Type")
	assert.Equal(t, "application/json", contentType)

	require.Equal(t, 1, history.Len())
	entry := history.Snapshot()[0]
	assert.Equal(t, "Alice", entry.Request.User)
	assert.Equal(t, "Rusty", entry.Reply.User)
	assert.NotEmpty(t, entry.Id)
	assert.False(t, entry.At.IsZero())
}

func TestChatHandlerBadPayload(t *testing.T) {
	bot := NewBot()
	history := NewHistory()
	handler := ChatHandler(bot, history)

	for _, body := range [][]byte{
		nil,
		[]byte(``),
		[]byte(`not json at all`),
		[]byte(`{"user":"Alice"}`),
		[]byte(`{"user":1,"message":"hi"}`),
	} {
		res := invoke(handler, body)

		assert.Equal(t, http.StatusBadRequest, res.Status, "body %q", body)
		assert.Equal(t, "Invalid JSON payload", string(res.Body), "body %q", body)

		contentType, _ := res.Header("Content-Type")
		assert.Equal(t, "text/plain", contentType, "body %q", body)
	}

	assert.Equal(t, 0, history.Len(), "rejected payloads must not reach the history")
}

func TestPreflightHandler(t *testing.T) {
	res := invoke(PreflightHandler(), nil)

	assert.Equal(t, http.StatusOK, res.Status)
	assert.Empty(t, res.Body)

	_, found := res.Header("Content-Type")
	assert.False(t, found, "preflight reply carries no Content-Type")
}
