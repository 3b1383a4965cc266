package app

import "errors"

// LogFileDisabled as the LogFile value turns file logging off entirely.
const LogFileDisabled = "-"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ForeignImports lists plugin path specifications to import, in
	// command-line order.
	ForeignImports []string

	// Machine, User and LSAServer are the raw command-line selectors;
	// empty strings mean "not given". They are reconciled at startup.
	Machine   string
	User      string
	LSAServer string

	// KeepGoing continues the import phase past a failing plugin.
	KeepGoing bool
	// Builtins controls whether the compiled-in problem providers load.
	Builtins bool

	LogFormat string
	LogLevel  string
	// LogFile receives a JSON copy of all log records. Empty means a
	// fresh file in the temp directory, LogFileDisabled means none.
	LogFile string
}

// NewConfig validates and returns the configuration. Empty LogFormat and
// LogLevel stand for the defaults ("text", "info").
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.LogFormat {
	case "", "text", "json":
		// valid
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	return &cfg, nil
}
