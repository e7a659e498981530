package internal

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var (
	DefaultAppName        = "lockedme"
	DefaultAppDisplayName = "LockedMe.com"
	DefaultEnvPrefix      = "LOCKEDME"
	DefaultConfigPath     = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultSystemConfig   = filepath.Join("/etc", DefaultAppName)
	DefaultDotEnvFile     = ".env"

	// Default interactive settings
	DefaultMaxAttempts = 3
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = LogFormatAuto
)

// Log output formats accepted by NewLogger.
const (
	LogFormatAuto    = "auto"
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return NewLogger(os.Stderr, DefaultLogLevel, DefaultLogFormat)
}

// NewLogger builds a timestamped logger writing to w. An unknown level falls
// back to warn. In auto format the console writer is used only when w is a
// terminal.
func NewLogger(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}

	tty := isTerminal(w)
	switch strings.ToLower(format) {
	case LogFormatJSON:
	case LogFormatConsole:
		w = zerolog.ConsoleWriter{Out: w, NoColor: !tty}
	default:
		if tty {
			w = zerolog.ConsoleWriter{Out: w}
		}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
