package discord

// Gateway is a persistent connection to Discord that reports lifecycle
// events and carries presence updates and replies.
type Gateway interface {
	Open() error
	Close() error
	SetPresence(status string) error
	SendMessage(channelID, content string) error
	// OnReady registers fn for every Ready event and returns a func that
	// unregisters it.
	OnReady(fn func()) func()
	OnLog(fn func(LogMessage))
	OnMessage(fn func(Message)) func()
}

// LogMessage is a log line emitted by the gateway library.
type LogMessage struct {
	Severity int
	Text     string
}

// Message is an incoming chat message.
type Message struct {
	ID         string
	ChannelID  string
	GuildID    string
	AuthorID   string
	AuthorName string
	AuthorBot  bool
	Content    string
}
