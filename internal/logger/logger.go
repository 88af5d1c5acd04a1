// Package logger provides structured logging using zap.
//
// The package-level loggers start out as no-ops so library packages and
// tests can log freely before Init runs.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance.
var Log = zap.NewNop()

// Sugar is the sugared logger for printf-style call sites.
var Sugar = Log.Sugar()

// FileConfig holds file logging configuration.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Init initializes the logger with the given level and optional file output.
func Init(level string, logFile string) error {
	if logFile != "" {
		return InitWithFileConfig(level, DefaultFileConfig(logFile), true)
	}
	return InitWithFileConfig(level, FileConfig{}, true)
}

// InitWithFileConfig initializes the logger with custom file configuration.
// Set consoleOutput to false to disable console logging (useful for tests).
func InitWithFileConfig(level string, fileCfg FileConfig, consoleOutput bool) error {
	lvl := ParseLevel(level)

	var cores []zapcore.Core

	if consoleOutput {
		consoleEncoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:          "time",
			LevelKey:         "level",
			NameKey:          "logger",
			MessageKey:       "msg",
			CallerKey:        "caller",
			EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05.000"),
			EncodeLevel:      zapcore.CapitalColorLevelEncoder,
			EncodeCaller:     zapcore.ShortCallerEncoder,
			EncodeName:       zapcore.FullNameEncoder,
			ConsoleSeparator: " ",
		})
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), lvl))
	}

	if fileCfg.Path != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   fileCfg.Path,
			MaxSize:    fileCfg.MaxSizeMB,
			MaxBackups: fileCfg.MaxBackups,
			MaxAge:     fileCfg.MaxAgeDays,
			Compress:   fileCfg.Compress,
			LocalTime:  true,
		}

		fileEncoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			MessageKey:     "msg",
			CallerKey:      "caller",
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
		})
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(fileWriter), lvl))
	}

	if len(cores) == 0 {
		Log = zap.NewNop()
	} else {
		Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	}
	Sugar = Log.Sugar()

	return nil
}

// ParseLevel converts a level name to zapcore.Level; unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Named returns a child of the global logger tagged with a component name.
// The child is bound at call time, so packages should call it lazily.
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// Sync flushes any buffered log entries.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Log.WithOptions(zap.AddCallerSkip(1)).Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Log.WithOptions(zap.AddCallerSkip(1)).Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Log.WithOptions(zap.AddCallerSkip(1)).Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Log.WithOptions(zap.AddCallerSkip(1)).Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	Log.WithOptions(zap.AddCallerSkip(1)).Fatal(msg, fields...)
}
