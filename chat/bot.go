package chat

const (
	BotName     = "Rusty"
	ReplyPrefix = "You said: "
)

// Bot is the whole of the application logic: a pure transform from incoming
// message to reply.
type Bot struct {
	name   string
	prefix string
}

func NewBot() *Bot {
	return &Bot{
		name:   BotName,
		prefix: ReplyPrefix,
	}
}

// Respond builds the reply for msg. Total over all inputs: no failure mode,
// no side effects, the input is never modified. The reply user is always the
// bot's identity regardless of who asked, and the incoming message text is
// echoed verbatim after the fixed prefix.
func (bot *Bot) Respond(msg ChatMessage) ChatMessage {
	return ChatMessage{
		User:    bot.name,
		Message: bot.prefix + msg.Message,
	}
}
