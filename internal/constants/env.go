// Package constants provides centralized definitions of constants used throughout the application
package constants

// Environment variable names
const (
	// EnvPrefix is the prefix viper uses for every configuration variable
	EnvPrefix = "TASKMAN"

	// EnvServerAddress is the API address the CLI talks to
	EnvServerAddress = "TASKMAN_SERVER_ADDRESS"

	// EnvLogLevel sets the log level (trace, debug, info, warn, error)
	EnvLogLevel = "LOG_LEVEL"

	// EnvLogFormat selects the log formatter (json or text)
	EnvLogFormat = "LOG_FORMAT"
)
