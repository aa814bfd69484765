// Package logrus adapts a *logrus.Entry to recframe.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/recframe"
)

var _ recframe.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New wraps l with no preset fields.
func New(l *logrus.Logger) LogrusLogger { return LogrusLogger{E: logrus.NewEntry(l)} }

func (l LogrusLogger) Debug(msg string, f recframe.Fields) { l.with(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f recframe.Fields)  { l.with(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f recframe.Fields)  { l.with(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f recframe.Fields) { l.with(f).Error(msg) }

func (l LogrusLogger) with(f recframe.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	lf := make(logrus.Fields, len(f))
	for k, v := range f {
		// logrus renders errors only under ErrorKey
		if err, ok := v.(error); ok && k == "err" {
			lf[logrus.ErrorKey] = err
			continue
		}
		lf[k] = v
	}
	return l.E.WithFields(lf)
}
