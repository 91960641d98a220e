// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"io"
	"log/slog"
)

// logger is an interface that defines the logging functions
// that are used by the archive engine
type logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// slog to discard
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
