package logger

// Logger defines the logging interface used throughout the bot.
type Logger interface {
	DebugW(msg string, keysAndValues ...any)
	InfoW(msg string, keysAndValues ...any)
	WarnW(msg string, keysAndValues ...any)
	ErrorW(msg string, keysAndValues ...any)
	// Log writes text as a single console line with no extra fields.
	Log(text string)
	// Named returns a child logger scoped to a component.
	Named(name string) Logger
	Sync() error
}
