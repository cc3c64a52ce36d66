package infra

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds the process logger. JSON output in production,
// console output everywhere else, switched on APP_ENV.
func NewZapLogger() Logger {
	env := os.Getenv("APP_ENV")

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}

	var encoder zapcore.Encoder
	if env == "production" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zap.NewAtomicLevelAt(zap.InfoLevel))
	return &zapLogger{sugar: zap.New(core).Sugar()}
}

func (l *zapLogger) Infof(format string, v ...interface{})  { l.sugar.Infof(format, v...) }
func (l *zapLogger) Warnf(format string, v ...interface{})  { l.sugar.Warnf(format, v...) }
func (l *zapLogger) Errorf(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }
