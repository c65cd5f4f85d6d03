package config

import "strings"

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}

// NormalizeLogLevel maps raw onto a LogLevel, returning "" when unknown.
func NormalizeLogLevel(raw string) LogLevel {
	return logLevels[strings.ToLower(strings.TrimSpace(raw))]
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// NormalizeLogFormat maps raw onto a LogFormat, returning "" when unknown.
func NormalizeLogFormat(raw string) LogFormat {
	switch LogFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case LogFormatJSON:
		return LogFormatJSON
	case LogFormatText:
		return LogFormatText
	}
	return ""
}
