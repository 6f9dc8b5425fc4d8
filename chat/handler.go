package chat

import (
	"github.com/freekieb7/rusty/http"
)

// ChatHandler serves the POST branch: decode the payload, ask the bot,
// answer 200 with the encoded reply. Any decode failure is the caller's
// fault and answered 400 without invoking the bot.
func ChatHandler(bot *Bot, history *History) http.Handler {
	return func(req *http.Request, res *http.Response) {
		msg, err := DecodeMessage(req.Body)
		if err != nil {
			res.WithStatus(http.StatusBadRequest).WithText("Invalid JSON payload")
			return
		}

		reply := bot.Respond(msg)
		res.WithJson(reply)

		history.Append(msg, reply)
	}
}

// PreflightHandler serves the OPTIONS branch: 200, empty body, no
// Content-Type. The cross-origin headers come from the router middleware.
func PreflightHandler() http.Handler {
	return func(req *http.Request, res *http.Response) {
		res.WithStatus(http.StatusOK)
	}
}
