// Package logger holds the process-wide zap logger. Console output is human
// readable; the rotated log file gets one JSON object per line.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFile = "courtside.log"

// Log discards everything until Initialize runs
var Log = zap.NewNop()

// Initialize replaces Log with a logger that tees to stdout and a rotated
// JSON file. An empty logFile means courtside.log.
func Initialize(logLevel string, logFile string) error {
	if logFile == "" {
		logFile = defaultLogFile
	}
	level := parseLogLevel(logLevel)

	Log = zap.New(
		zapcore.NewTee(consoleCore(level), fileCore(logFile, level)),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	Log.Info("Logger initialized", zap.Stringer("level", level), zap.String("file", logFile))
	return nil
}

func consoleCore(level zapcore.Level) zapcore.Core {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level)
}

// fileCore keeps five compressed 100 MB files for at most a week
func fileCore(path string, level zapcore.Level) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     7,
		Compress:   true,
	})
	return zapcore.NewCore(zapcore.NewJSONEncoder(cfg), sink, level)
}

// parseLogLevel accepts zap's level names plus "warning". Unknown or empty
// names mean info.
func parseLogLevel(name string) zapcore.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		return zapcore.WarnLevel
	}
	level, err := zapcore.ParseLevel(name)
	if err != nil || level > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return level
}

// Close flushes buffered entries
func Close() error {
	return Log.Sync()
}

func WarnWithFields(msg string, err error) {
	Log.Warn(msg, errField(err)...)
}

func ErrorWithFields(msg string, err error) {
	Log.Error(msg, errField(err)...)
}

// FatalWithFields logs and exits the process
func FatalWithFields(msg string, err error) {
	Log.Fatal(msg, errField(err)...)
}

func errField(err error) []zap.Field {
	if err == nil {
		return nil
	}
	return []zap.Field{zap.Error(err)}
}
