// Package logger is the CLI's diagnostic log. It writes logfmt lines to the
// configured log file so stdout stays clean for command output.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/courtside-app/courtside/cli/pkg/config"
)

var (
	logger  = log.New(io.Discard)
	logFile io.Closer
)

// Init opens log.file (falling back to stderr) at log.level, or at debug
// when verbose is set. Calling it again closes the previous file.
func Init(verbose bool) {
	level, err := log.ParseLevel(config.GetString("log.level"))
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	var sink io.Writer = os.Stderr
	formatter := log.TextFormatter
	if path := config.GetString("log.file"); path != "" {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600); err == nil {
			sink, logFile, formatter = f, f, log.LogfmtFormatter
		}
	}

	logger = log.NewWithOptions(sink, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		Prefix:          "courtside",
	})
}

func Debug(msg string, keyvals ...any) { logger.Debug(msg, keyvals...) }
func Info(msg string, keyvals ...any)  { logger.Info(msg, keyvals...) }
func Warn(msg string, keyvals ...any)  { logger.Warn(msg, keyvals...) }
func Error(msg string, keyvals ...any) { logger.Error(msg, keyvals...) }

func GetLogger() *log.Logger { return logger }
