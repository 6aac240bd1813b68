package badgerfx

import (
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// zapLogger forwards badger output to zap. Badger reports routine events
// (replays, compactions, GC) at info level; they end up at debug so a one-shot
// command prints only its own result.
type zapLogger struct {
	logger *zap.Logger
}

func newLogger(l *zap.Logger) *zapLogger {
	return &zapLogger{
		logger: l.WithOptions(zap.AddCallerSkip(1)),
	}
}

func (l *zapLogger) Debugf(format string, a ...any) {
	l.logger.Debug(message(format, a))
}

func (l *zapLogger) Errorf(format string, a ...any) {
	l.logger.Error(message(format, a))
}

func (l *zapLogger) Infof(format string, a ...any) {
	l.logger.Debug(message(format, a))
}

func (l *zapLogger) Warningf(format string, a ...any) {
	l.logger.Warn(message(format, a))
}

// message formats a badger log line without its trailing newline.
func message(format string, a []any) string {
	return strings.TrimRight(fmt.Sprintf(format, a...), "\n")
}

var _ badger.Logger = (*zapLogger)(nil)
