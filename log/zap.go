package log

import (
	"io"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

type (
	Level  = zapcore.Level
	Field  = zap.Field
	Option = zap.Option
)

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	FatalLevel = zapcore.FatalLevel
)

var (
	WithCaller    = zap.WithCaller
	AddCallerSkip = zap.AddCallerSkip
)

type Logger struct {
	l     *zap.Logger
	level Level
}

var (
	std   = New(io.Discard, InfoLevel)
	stdMu sync.RWMutex
)

// New creates a json logger writing to w
func New(w io.Writer, level Level, opts ...Option) *Logger {
	return newLogger(w, level, jsonEncoder(), "", opts...)
}

// DevLogger creates a console logger writing to w
func DevLogger(w io.Writer, level Level, opts ...Option) *Logger {
	return newLogger(w, level, consoleEncoder(), "", opts...)
}

// NewWithFilter is like New/DevLogger but applies zapfilter rules
// (for example "*:resolver debug+:*"). Invalid rules are returned as error.
//
//nolint:whitespace // can't make both editor and linter happy
func NewWithFilter(
	w io.Writer, level Level, format, rules string, opts ...Option,
) (*Logger, error) {
	if rules != "" {
		if _, err := zapfilter.ParseRules(rules); err != nil {
			return nil, err
		}
	}
	enc := jsonEncoder()
	if format != "json" {
		enc = consoleEncoder()
	}
	return newLogger(w, level, enc, rules, opts...), nil
}

//nolint:whitespace // can't make both editor and linter happy
func newLogger(
	w io.Writer, level Level, enc zapcore.Encoder, rules string, opts ...Option,
) *Logger {
	if w == nil {
		panic("the writer is nil")
	}
	var core zapcore.Core = zapcore.NewCore(enc, zapcore.AddSync(w), level)
	if rules != "" {
		core = zapfilter.NewFilteringCore(core, zapfilter.MustParseRules(rules))
	}
	return &Logger{l: zap.New(core, opts...), level: level}
}

func jsonEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// Default returns the logger installed with ResetDefault
func Default() *Logger {
	stdMu.RLock()
	defer stdMu.RUnlock()
	return std
}

// ResetDefault replaces the package level logger.
func ResetDefault(l *Logger) {
	stdMu.Lock()
	std = l
	stdMu.Unlock()
}

func ParseLevel(text string) (Level, error) {
	return zapcore.ParseLevel(text)
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) WithOptions(opts ...Option) *Logger {
	return &Logger{l: l.l.WithOptions(opts...), level: l.level}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l: l.l.With(fields...), level: l.level}
}

func (l *Logger) Level() Level { return l.level }

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }
func (l *Logger) Fatal(msg string, fields ...Field) { l.l.Fatal(msg, fields...) }

func (l *Logger) Sync() error { return l.l.Sync() }

func Debug(msg string, fields ...Field) { Default().l.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { Default().l.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { Default().l.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { Default().l.Error(msg, fields...) }
func Fatal(msg string, fields ...Field) { Default().l.Fatal(msg, fields...) }

func Sync() error { return Default().Sync() }
