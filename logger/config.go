package logger

// Config holds logger configuration.
type Config struct {
	Level       string   `yaml:"Level"`
	OutputPaths []string `yaml:"OutputPaths"`
}
