package config

import "fmt"

// ConfigError reports a configuration file that could not be read, parsed or
// validated. Startup treats it as fatal.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
