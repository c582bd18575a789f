package log

import (
	"errors"
	"os"
	"sort"
	"time"

	"github.com/Invicton-Labs/go-stackerr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/exp/maps"
)

type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})
	Panicf(template string, args ...interface{})

	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatalw(msg string, keysAndValues ...interface{})
	Panicw(msg string, keysAndValues ...interface{})

	// Error logs the error's message at the Error level, with the fields
	// of a stackerr.Error added as log fields.
	Error(err error)
	// Warn is Error at the Warn level.
	Warn(err error)

	With(args ...interface{}) Logger
	WithOptions(opts ...zap.Option) Logger
	WithError(err error) Logger

	// Config gets the config values that can be used to re-create this logger
	Config() NewInput

	// Clone returns a copy of the logger
	Clone() Logger

	// Sync flushes any buffered log entries.
	Sync() error
}

type logger struct {
	*zap.SugaredLogger
	config NewInput
}

func (l logger) Clone() Logger {
	return logger{
		SugaredLogger: l.SugaredLogger.With(),
		config:        l.config.Clone(),
	}
}

func (l logger) Config() NewInput {
	return l.config.Clone()
}

// errorFields converts the fields of a stackerr.Error into key/value pairs,
// sorted by key.
func errorFields(err error) []any {
	var serr stackerr.Error
	if !errors.As(err, &serr) {
		return nil
	}
	fields := serr.Fields()
	keys := maps.Keys(fields)
	sort.Strings(keys)
	kvp := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kvp = append(kvp, k, fields[k])
	}
	return kvp
}

func (l logger) Error(err error) {
	if err == nil {
		return
	}
	l.SugaredLogger.WithOptions(zap.AddCallerSkip(1)).Errorw(err.Error(), errorFields(err)...)
}

func (l logger) Warn(err error) {
	if err == nil {
		return
	}
	l.SugaredLogger.WithOptions(zap.AddCallerSkip(1)).Warnw(err.Error(), errorFields(err)...)
}

func (l logger) With(args ...interface{}) Logger {
	return logger{l.SugaredLogger.With(args...), l.config.Clone()}
}

func (l logger) WithOptions(opts ...zap.Option) Logger {
	return logger{l.SugaredLogger.WithOptions(opts...), l.config.Clone()}
}

func (l logger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.With(append([]any{"error", err.Error()}, errorFields(err)...)...)
}

type NewInput struct {
	Name          string
	Level         zapcore.Level
	IsDevelopment bool
	InitialFields map[string]any
	SkippedFrames int
	// Output is where entries are written. Defaults to stdout.
	Output zapcore.WriteSyncer
}

func (ni *NewInput) Clone() NewInput {
	return NewInput{
		Name:          ni.Name,
		Level:         ni.Level,
		IsDevelopment: ni.IsDevelopment,
		InitialFields: maps.Clone(ni.InitialFields),
		SkippedFrames: ni.SkippedFrames,
		Output:        ni.Output,
	}
}

func New(input NewInput) Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder

	if input.IsDevelopment {
		// If it's development mode, modify some settings
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	sink := input.Output
	if sink == nil {
		sink = zapcore.Lock(os.Stdout)
	}

	buildOpts := []zap.Option{
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	}

	if input.IsDevelopment {
		buildOpts = append(buildOpts, zap.Development())
	} else {
		buildOpts = append(buildOpts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewSamplerWithOptions(core, time.Second, 100, 100)
		}))
	}

	// Add any initial field as a build option
	if len(input.InitialFields) > 0 {
		keys := maps.Keys(input.InitialFields)
		sort.Strings(keys)
		fs := make([]zap.Field, 0, len(keys))
		for _, k := range keys {
			if f, ok := input.InitialFields[k].(zap.Field); ok {
				f.Key = k
				fs = append(fs, f)
			} else {
				fs = append(fs, zap.Any(k, input.InitialFields[k]))
			}
		}
		buildOpts = append(buildOpts, zap.Fields(fs...))
	}

	if input.SkippedFrames != 0 {
		buildOpts = append(buildOpts, zap.AddCallerSkip(input.SkippedFrames))
	}

	zapLogger := zap.New(
		zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(input.Level)),
		buildOpts...,
	)
	if input.Name != "" {
		zapLogger = zapLogger.Named(input.Name)
	}

	return logger{zapLogger.Sugar(), input.Clone()}
}

// FromZap wraps an existing zap logger, for example one built on a test
// observer core.
func FromZap(zapLogger *zap.Logger) Logger {
	return logger{zapLogger.Sugar(), NewInput{Level: zapLogger.Level()}}
}
