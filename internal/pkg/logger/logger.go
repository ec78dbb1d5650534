package logger

import (
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

var globalLogger *slog.Logger // один глобальный логгер

// Init builds the zap logger for levelStr, installs a slog default bridged onto it
// and returns the zap logger for services that log through zap directly.
func Init(levelStr string) *zap.Logger {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(levelStr)))
	if err != nil {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Sampling = nil
	zapLogger, err := cfg.Build()
	if err != nil {
		// конфиг статический, сборка не должна падать
		zapLogger = zap.NewExample()
	}
	if levelStr != "" && level.String() != strings.ToLower(strings.TrimSpace(levelStr)) {
		zapLogger.Warn("Invalid log level string, defaulting to info", zap.String("input", levelStr))
	}

	SetZap(zapLogger)
	return zapLogger
}

// SetZap installs l as the backend of the global slog logger.
func SetZap(l *zap.Logger) {
	globalLogger = slog.New(zapslog.NewHandler(l.Core(), zapslog.WithName("app")))
	slog.SetDefault(globalLogger)
}

// ensureInitialized проверяет, инициализирован ли логгер.
func ensureInitialized() {
	if globalLogger == nil {
		Init("info")
	}
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Debug(msg, args...)
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Info(msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Warn(msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Error(msg, args...)
}

// Fatal logs a message at ErrorLevel then exits.
func Fatal(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Error(msg, args...)
	os.Exit(1)
}
