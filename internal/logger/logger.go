package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/samvad-hq/restclient/internal/config"
	"github.com/samvad-hq/restclient/pkg/restclient"
)

// Package-level logger to be used across packages after Init.
var S *zap.SugaredLogger

// Init initializes a zap SugaredLogger using settings from config. Output goes to stderr so
// stdout stays free for command results.
func Init(cfg *config.Config) (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(os.Stderr)),
		ParseLevel(cfg.LogLevel),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	sugar := logger.Sugar()
	S = sugar
	return sugar, nil
}

// ParseLevel maps a config string to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Close flushes any buffered loggers.
func Close() error {
	if S == nil {
		return nil
	}
	return S.Sync()
}

// FromSugar adapts a sugared logger for restclient.WithLogger. A nil logger discards output.
func FromSugar(s *zap.SugaredLogger) restclient.Logger {
	if s == nil {
		return &zapLogger{l: zap.NewNop()}
	}
	return &zapLogger{l: s.Desugar()}
}

type zapLogger struct {
	l *zap.Logger
}

func (z *zapLogger) InfoObj(msg, key string, obj interface{})  { z.l.Info(msg, zap.Any(key, obj)) }
func (z *zapLogger) DebugObj(msg, key string, obj interface{}) { z.l.Debug(msg, zap.Any(key, obj)) }
func (z *zapLogger) WarnObj(msg, key string, obj interface{})  { z.l.Warn(msg, zap.Any(key, obj)) }
func (z *zapLogger) ErrorObj(msg, key string, obj interface{}) { z.l.Error(msg, zap.Any(key, obj)) }

// InfoObj logs obj under key on the package logger. Before Init the helpers discard output.
func InfoObj(msg, key string, obj interface{}) { FromSugar(S).InfoObj(msg, key, obj) }

// DebugObj is InfoObj at debug level.
func DebugObj(msg, key string, obj interface{}) { FromSugar(S).DebugObj(msg, key, obj) }

// WarnObj is InfoObj at warn level.
func WarnObj(msg, key string, obj interface{}) { FromSugar(S).WarnObj(msg, key, obj) }

// ErrorObj is InfoObj at error level.
func ErrorObj(msg, key string, obj interface{}) { FromSugar(S).ErrorObj(msg, key, obj) }
