package discord

// Config holds gateway connection settings.
type Config struct {
	Token string
	// MessageCacheSize is the number of messages kept per channel in the
	// session state. Zero uses the default.
	MessageCacheSize int
}
