package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	logger     *zap.SugaredLogger
	loggerOnce sync.Once
	atomicLvl  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// initLogger builds the global logger writing to stderr with timestamps.
func initLogger() {
	loggerOnce.Do(func() {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			atomicLvl,
		)
		logger = zap.New(core).Sugar()
	})
}

// SetLevel changes the minimum level for all subsequent log calls.
func SetLevel(l Level) {
	initLogger()
	atomicLvl.SetLevel(toZap(l))
}

// Use replaces the backing logger. Tests use it with zaptest/observer cores.
func Use(l *zap.Logger) {
	initLogger()
	logger = l.Sugar()
}

func Debug(msg string, kv ...any) {
	initLogger()
	logger.Debugw(msg, kv...)
}

func Info(msg string, kv ...any) {
	initLogger()
	logger.Infow(msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	initLogger()
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	logger.Errorw(msg, extended...)
}

// Sync flushes buffered entries; main calls it on exit.
func Sync() {
	initLogger()
	_ = logger.Sync()
}

func toZap(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
