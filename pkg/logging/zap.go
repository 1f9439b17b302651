// Copyright 2026 The in-toto Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verify ZapLogger implements Logger at compile time.
var _ Logger = (*ZapLogger)(nil)

// ZapLogger adapts a zap logger to the Logger interface, for callers
// that want zap's encoders and sampling instead of the built-in logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
	level LogLevel
}

// NewZapLogger builds a zap-backed Logger writing to stderr.
func NewZapLogger(level LogLevel, format LogFormat) *ZapLogger {
	return NewZapLoggerWithOutput(level, format, os.Stderr)
}

// NewZapLoggerWithOutput builds a zap-backed Logger writing to out.
func NewZapLoggerWithOutput(level LogLevel, format LogFormat, out io.Writer) *ZapLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch format {
	case FormatJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), zapLevel(level))
	return &ZapLogger{
		sugar: zap.New(core).Sugar(),
		level: level,
	}
}

func zapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelSilent:
		// Nothing logs at FatalLevel+1 through the Logger interface.
		return zapcore.FatalLevel + 1
	default:
		return zapcore.InfoLevel
	}
}

// Debug logs a message at debug level.
func (l *ZapLogger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs a message at info level.
func (l *ZapLogger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs a message at warn level.
func (l *ZapLogger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs a message at error level.
func (l *ZapLogger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// GetLevel returns the configured minimum log level.
func (l *ZapLogger) GetLevel() LogLevel {
	return l.level
}

// WithField returns a new Logger with the given key-value pair added.
func (l *ZapLogger) WithField(key string, value interface{}) Logger {
	return &ZapLogger{sugar: l.sugar.With(key, value), level: l.level}
}

// WithFields returns a new Logger with the given fields added.
func (l *ZapLogger) WithFields(fields map[string]interface{}) Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &ZapLogger{sugar: l.sugar.With(args...), level: l.level}
}

// Sync flushes any buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}
