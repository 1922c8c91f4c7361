package temporalclient

import (
	"fmt"

	"github.com/rs/zerolog"
	"go.temporal.io/sdk/log"
)

// Logger adapts zerolog to the SDK's key/value logger.
type Logger struct {
	logger zerolog.Logger
}

var (
	_ log.Logger     = (*Logger)(nil)
	_ log.WithLogger = (*Logger)(nil)
)

// NewLogger wraps logger.
func NewLogger(logger zerolog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	l.write(l.logger.Debug(), msg, keyvals)
}

func (l *Logger) Info(msg string, keyvals ...interface{}) {
	l.write(l.logger.Info(), msg, keyvals)
}

func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	l.write(l.logger.Warn(), msg, keyvals)
}

func (l *Logger) Error(msg string, keyvals ...interface{}) {
	l.write(l.logger.Error(), msg, keyvals)
}

// With returns a logger that adds keyvals to every event.
func (l *Logger) With(keyvals ...interface{}) log.Logger {
	ctx := l.logger.With()
	for i := 0; i < len(keyvals); i += 2 {
		key, val := pair(keyvals, i)
		ctx = ctx.Interface(key, val)
	}
	return &Logger{logger: ctx.Logger()}
}

func (l *Logger) write(e *zerolog.Event, msg string, keyvals []interface{}) {
	for i := 0; i < len(keyvals); i += 2 {
		key, val := pair(keyvals, i)
		if err, ok := val.(error); ok {
			e = e.AnErr(key, err)
			continue
		}
		e = e.Interface(key, val)
	}
	e.Msg(msg)
}

// pair returns the key at i and its value. A trailing key without a value
// is logged under "extra".
func pair(keyvals []interface{}, i int) (string, interface{}) {
	if i+1 >= len(keyvals) {
		return "extra", keyvals[i]
	}
	key, ok := keyvals[i].(string)
	if !ok {
		key = fmt.Sprint(keyvals[i])
	}
	return key, keyvals[i+1]
}
