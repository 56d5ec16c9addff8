package logging

import (
	"maps"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap.Logger to the Logger interface so drivers that
// already run zap can feed library logs into their existing sinks.
type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
	fields Fields
}

// NewZapLogger creates a production zap logger wrapped in the Logger interface.
func NewZapLogger() (*ZapLogger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg := zap.NewProductionConfig()
	cfg.Level = level

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{
		logger: logger,
		level:  level,
		fields: make(Fields),
	}, nil
}

// WrapZap wraps an existing zap.Logger. Level changes through SetLevel only
// take effect when the wrapped logger shares the returned atomic level.
func WrapZap(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{
		logger: logger,
		level:  zap.NewAtomicLevelAt(zapcore.InfoLevel),
		fields: make(Fields),
	}
}

func (z *ZapLogger) zapFields(extra ...Fields) []zap.Field {
	merged := make(Fields)
	maps.Copy(merged, z.fields)
	for _, f := range extra {
		maps.Copy(merged, f)
	}

	out := make([]zap.Field, 0, len(merged))
	for k, v := range merged {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func (z *ZapLogger) Debug(msg string, fields ...Fields) {
	z.logger.Debug(msg, z.zapFields(fields...)...)
}

func (z *ZapLogger) Info(msg string, fields ...Fields) {
	z.logger.Info(msg, z.zapFields(fields...)...)
}

func (z *ZapLogger) Warn(msg string, fields ...Fields) {
	z.logger.Warn(msg, z.zapFields(fields...)...)
}

func (z *ZapLogger) Error(err error, msg string, fields ...Fields) {
	zf := z.zapFields(fields...)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	z.logger.Error(msg, zf...)
}

func (z *ZapLogger) Fatal(err error, msg string, fields ...Fields) {
	zf := z.zapFields(fields...)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	z.logger.Fatal(msg, zf...)
}

func (z *ZapLogger) WithFields(fields Fields) Logger {
	newFields := make(Fields)
	maps.Copy(newFields, z.fields)
	maps.Copy(newFields, fields)

	return &ZapLogger{
		logger: z.logger,
		level:  z.level,
		fields: newFields,
	}
}

func (z *ZapLogger) SetLevel(level Level) {
	switch level {
	case DebugLevel:
		z.level.SetLevel(zapcore.DebugLevel)
	case InfoLevel:
		z.level.SetLevel(zapcore.InfoLevel)
	case WarnLevel:
		z.level.SetLevel(zapcore.WarnLevel)
	case ErrorLevel:
		z.level.SetLevel(zapcore.ErrorLevel)
	case FatalLevel:
		z.level.SetLevel(zapcore.FatalLevel)
	}
}

// Sync flushes buffered log entries.
func (z *ZapLogger) Sync() error {
	return z.logger.Sync()
}
