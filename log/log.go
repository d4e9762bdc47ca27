package log

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const envLogLevel = "KVROUTER_LOGLEVEL"

var log = logrus.New()

func init() {
	log.Formatter = NewFormatter("")
	log.Level = levelFromEnv()
}

// Get returns the process logger. The level is taken from
// KVROUTER_LOGLEVEL on first use and may be changed with Setup.
func Get() *logrus.Logger {
	return log
}

// NewFormatter returns the formatter for the configured log format.
// Anything other than "json" falls back to the text formatter.
func NewFormatter(format string) logrus.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return &JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		}
	default:
		return &logrus.TextFormatter{
			TimestampFormat: "Jan 02 15:04:05",
			FullTimestamp:   true,
			DisableColors:   true,
		}
	}
}

// ParseLevel maps a config level name onto a logrus level. Unknown
// names resolve to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "error":
		return logrus.ErrorLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// Setup applies the configured level and format to the process logger.
// An explicit KVROUTER_LOGLEVEL always wins over the config file.
func Setup(level, format string) {
	log.Formatter = NewFormatter(format)
	log.Level = ParseLevel(level)
	if os.Getenv(envLogLevel) != "" {
		log.Level = levelFromEnv()
	}
}

func levelFromEnv() logrus.Level {
	return ParseLevel(os.Getenv(envLogLevel))
}
