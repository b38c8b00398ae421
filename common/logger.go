// Copyright © 2025 Microsoft <wastore@microsoft.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package common

import (
	"reflect"
	"runtime"

	"github.com/JeffreyRichter/enum/enum"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ELogLevel = LogLevel(0)

type LogLevel uint8

func (LogLevel) None() LogLevel    { return LogLevel(0) }
func (LogLevel) Panic() LogLevel   { return LogLevel(1) }
func (LogLevel) Fatal() LogLevel   { return LogLevel(2) }
func (LogLevel) Error() LogLevel   { return LogLevel(3) }
func (LogLevel) Warning() LogLevel { return LogLevel(4) }
func (LogLevel) Info() LogLevel    { return LogLevel(5) }
func (LogLevel) Debug() LogLevel   { return LogLevel(6) }

func (ll *LogLevel) Parse(s string) error {
	val, err := enum.ParseInt(reflect.TypeOf(ll), s, true, true)
	if err == nil {
		*ll = val.(LogLevel)
	}
	return err
}

func (ll LogLevel) String() string {
	return enum.StringInt(ll, reflect.TypeOf(ll))
}

func (ll LogLevel) zapLevel() zapcore.Level {
	switch ll {
	case ELogLevel.Panic():
		return zapcore.PanicLevel
	case ELogLevel.Fatal(), ELogLevel.Error():
		return zapcore.ErrorLevel
	case ELogLevel.Warning():
		return zapcore.WarnLevel
	case ELogLevel.Info():
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

type ILogger interface {
	ShouldLog(level LogLevel) bool
	Log(level LogLevel, msg string)
	Panic(err error)
}

type ILoggerCloser interface {
	ILogger
	CloseLog()
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

type runLogger struct {
	// any message with severity lower than this (i.e. a higher LogLevel value) is ignored
	minimumLevelToLog LogLevel
	runID             RunID
	logger            *zap.Logger
	sanitizer         LogSanitizer
}

// NewRunLogger returns a logger that writes every message of a run, sanitized, to ws.
// Text output uses zap's console encoder, JSON output its production encoder.
func NewRunLogger(runID RunID, minimumLevelToLog LogLevel, format OutputFormat, ws zapcore.WriteSyncer) ILoggerCloser {
	var encoder zapcore.Encoder
	if format == EOutputFormat.Json() {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, ws, zap.NewAtomicLevelAt(minimumLevelToLog.zapLevel()))
	z := zap.New(core).With(
		zap.String("runID", runID.String()),
		zap.String("version", Version),
	)

	l := &runLogger{
		minimumLevelToLog: minimumLevelToLog,
		runID:             runID,
		logger:            z,
		sanitizer:         NewIngestLogSanitizer(),
	}
	if minimumLevelToLog != ELogLevel.None() {
		z.Debug("logger opened", zap.String("os", runtime.GOOS), zap.String("arch", runtime.GOARCH))
	}
	return l
}

func (rl *runLogger) ShouldLog(level LogLevel) bool {
	if level == ELogLevel.None() {
		return false
	}
	return level <= rl.minimumLevelToLog
}

func (rl *runLogger) Log(level LogLevel, msg string) {
	if !rl.ShouldLog(level) {
		return
	}

	// ensure all secrets are redacted
	msg = rl.sanitizer.SanitizeLogMessage(msg)

	switch level {
	case ELogLevel.Panic(), ELogLevel.Fatal(), ELogLevel.Error():
		rl.logger.Error(msg)
	case ELogLevel.Warning():
		rl.logger.Warn(msg)
	case ELogLevel.Info():
		rl.logger.Info(msg)
	default:
		rl.logger.Debug(msg)
	}
}

func (rl *runLogger) Panic(err error) {
	rl.logger.Error(rl.sanitizer.SanitizeLogMessage(err.Error())) // We do NOT rely on zap's panic level; the caller gets a plain panic
	_ = rl.logger.Sync()
	panic(err)
}

func (rl *runLogger) CloseLog() {
	_ = rl.logger.Sync() // syncing a terminal returns EINVAL on some platforms; nothing useful to do with it
}

////////////////////////////////////////////////////////////////////////////////////////////////////////////////////////

// NopLogger discards everything. Useful for tests and for library callers that bring no logger.
type NopLogger struct{}

func (NopLogger) ShouldLog(LogLevel) bool { return false }
func (NopLogger) Log(LogLevel, string)    {}
func (NopLogger) Panic(err error)         { panic(err) }
func (NopLogger) CloseLog()               {}
