package log

import (
	"sync"

	"go.uber.org/zap/zapcore"
)

var defaultLogger Logger
var defaultLoggerLock sync.Mutex

var Debugf func(template string, args ...interface{})
var Infof func(template string, args ...interface{})
var Warnf func(template string, args ...interface{})
var Errorf func(template string, args ...interface{})
var Fatalf func(template string, args ...interface{})

var Debugw func(msg string, keysAndValues ...interface{})
var Infow func(msg string, keysAndValues ...interface{})
var Warnw func(msg string, keysAndValues ...interface{})
var Errorw func(msg string, keysAndValues ...interface{})

var Error func(err error)
var With func(args ...interface{}) Logger

func init() {
	InitDefault(NewInput{
		Level: zapcore.InfoLevel,
	})
}

// InitDefault will create a new logger with the given settings
// and will set it as the default global logger. This function
// IS NOT thread-safe and cannot be used while other routines
// are using the existing global default logger.
func InitDefault(input NewInput) {
	SetDefault(New(input))
}

// SetDefault installs an existing logger as the default global logger.
func SetDefault(l Logger) {
	defaultLoggerLock.Lock()
	defer defaultLoggerLock.Unlock()

	defaultLogger = l

	Debugf = defaultLogger.Debugf
	Infof = defaultLogger.Infof
	Warnf = defaultLogger.Warnf
	Errorf = defaultLogger.Errorf
	Fatalf = defaultLogger.Fatalf

	Debugw = defaultLogger.Debugw
	Infow = defaultLogger.Infow
	Warnw = defaultLogger.Warnw
	Errorw = defaultLogger.Errorw

	Error = defaultLogger.Error
	With = defaultLogger.With
}

// Default returns the default global logger.
func Default() Logger {
	defaultLoggerLock.Lock()
	defer defaultLoggerLock.Unlock()
	return defaultLogger
}

// SweetenDefaultLogger will add fields to the default logger.
func SweetenDefaultLogger(fields map[string]any) {
	input := Default().Config()
	if input.InitialFields == nil {
		input.InitialFields = map[string]any{}
	}
	for k, v := range fields {
		input.InitialFields[k] = v
	}
	InitDefault(input)
}
