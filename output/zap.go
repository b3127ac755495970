package output

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapSink forwards messages to a structured logger.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink returns a sink logging through l. A nil l discards.
func NewZapSink(l *zap.Logger) *ZapSink {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapSink{logger: l}
}

func (s *ZapSink) Write(msg string, sev Severity) {
	s.logger.Log(zapLevel(sev), strings.TrimRight(msg, "\n"), zap.Stringer("severity", sev))
}

func zapLevel(sev Severity) zapcore.Level {
	switch sev {
	case SeverityAbort:
		return zapcore.ErrorLevel
	case SeverityLog, SeveritySuccess:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
