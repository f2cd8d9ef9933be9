package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var _, enable_debug = os.LookupEnv("SQLSYNTAX_DEBUG")

var debugLog = newDebugLogger()

func newDebugLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.DebugLevel)
	return logger
}

// DPrint traces lexer and parser decisions when SQLSYNTAX_DEBUG is set.
func DPrint(format string, a ...any) {
	if !enable_debug {
		return
	}
	debugLog.WithField("component", "sqlparser").Debugf(format, a...)
}

// DebugEnabled reports whether DPrint produces output.
func DebugEnabled() bool {
	return enable_debug
}
