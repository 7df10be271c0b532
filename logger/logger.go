package logger

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes one structured entry per call: trace id, layer and the
// caller's fields, plus the error when one is given.
type Logger struct {
	zap     *zap.Logger
	service string
}

// New builds a JSON production logger, or a console development logger when
// env is anything other than "production".
func New(env, service, level string) (*Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{zap: z, service: service}, nil
}

// NewWithCore wraps an existing core, mostly for tests that observe output.
func NewWithCore(core zapcore.Core, service string) *Logger {
	return &Logger{zap: zap.New(core), service: service}
}

// NewNop discards everything.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func (l *Logger) Log(level zapcore.Level, traceID, msg string, fields map[string]any, layer string, err error) {
	if l == nil || l.zap == nil {
		return
	}
	ce := l.zap.Check(level, msg)
	if ce == nil {
		return
	}

	zf := make([]zap.Field, 0, len(fields)+4)
	if l.service != "" {
		zf = append(zf, zap.String("service", l.service))
	}
	if traceID != "" {
		zf = append(zf, zap.String("traceId", traceID))
	}
	if layer != "" {
		zf = append(zf, zap.String("layer", layer))
	}

	// stable field order keeps log lines diffable
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		zf = append(zf, zap.Any(k, fields[k]))
	}
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	ce.Write(zf...)
}

// Zap exposes the underlying logger for libraries that want one.
func (l *Logger) Zap() *zap.Logger {
	if l == nil || l.zap == nil {
		return zap.NewNop()
	}
	return l.zap
}

func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}
