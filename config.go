// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package pathutil

import "github.com/hashicorp/go-pathutil/archive"

// EngineOption is a function pointer to implement the option pattern
type EngineOption func(*Engine)

// WithLogger options pattern function to set a custom logger for the engine.
// The archive subsystem logs through the logger of its own [archive.Config].
func WithLogger(logger logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTelemetryHook options pattern function to set a [TelemetryHook], which is called after
// every archive operation.
func WithTelemetryHook(hook TelemetryHook) EngineOption {
	return func(e *Engine) {
		e.telemetryHook = hook
	}
}

// WithSubsystem options pattern function to replace the archive subsystem.
func WithSubsystem(a Archiver) EngineOption {
	return func(e *Engine) {
		e.archiver = a
	}
}

// WithArchiveConfig options pattern function to create the default archive subsystem
// with cfg. It has no effect together with [WithSubsystem].
func WithArchiveConfig(cfg *archive.Config) EngineOption {
	return func(e *Engine) {
		e.archiveConfig = cfg
	}
}

// ArchiveOption is a function pointer to implement the option pattern for
// [Path.MakeArchive] and [Path.UnpackArchive].
type ArchiveOption func(*archiveOptions)

// archiveOptions are the per call settings of an archive operation.
type archiveOptions struct {
	engine   *Engine
	existsOK bool
	format   string
}

// WithFormat options pattern function to set the archive format instead of resolving
// it from the file suffixes.
func WithFormat(format string) ArchiveOption {
	return func(o *archiveOptions) {
		o.format = format
	}
}

// WithExistsOK options pattern function to replace an existing archive in
// [Path.MakeArchive].
func WithExistsOK(ok bool) ArchiveOption {
	return func(o *archiveOptions) {
		o.existsOK = ok
	}
}

// WithEngine options pattern function to run the operation on e instead of the default engine.
func WithEngine(e *Engine) ArchiveOption {
	return func(o *archiveOptions) {
		o.engine = e
	}
}

func newArchiveOptions(opts []ArchiveOption) archiveOptions {
	o := archiveOptions{engine: defaultEngine}
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		o.engine = defaultEngine
	}
	return o
}
