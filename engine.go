// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/hashicorp/go-pathutil/archive"
)

// maxAttempts is the number of calls into the archive subsystem per operation. The
// format registration runs between the first and the second call.
const maxAttempts = 2

// Archiver creates and extracts archives. [archive.Subsystem] is the default implementation.
type Archiver interface {
	archive.Installer

	// CreateArchive archives baseDir, relative to rootDir, into baseName plus the
	// extension of format and returns the produced path.
	CreateArchive(ctx context.Context, baseName string, format string, rootDir string, baseDir string) (string, error)

	// ExtractArchive extracts archivePath into dest.
	ExtractArchive(ctx context.Context, archivePath string, dest string, format string) error

	// ArchiveFormats returns the formats that can be created, in table order.
	ArchiveFormats() []archive.ArchiveFormat

	// UnpackFormats returns the formats that can be extracted, in table order.
	UnpackFormats() []archive.UnpackFormat
}

// Engine runs archive operations. It owns the archive subsystem and the registry of
// formats that flavors declare. It is safe for concurrent use.
type Engine struct {
	archiver      Archiver
	archiveConfig *archive.Config
	registry      *FormatRegistry
	logger        logger
	telemetryHook TelemetryHook

	// declared holds the flavor types declared on this engine
	declared sync.Map
}

// defaultEngine is used by archive operations without [WithEngine].
var defaultEngine = NewEngine()

// DefaultEngine returns the engine used by archive operations without [WithEngine].
func DefaultEngine() *Engine {
	return defaultEngine
}

// NewEngine creates an [Engine] and applies opts. Without [WithSubsystem] the engine
// creates an [archive.Subsystem] with the built-in formats.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		registry:      NewFormatRegistry(),
		logger:        discardLogger,
		telemetryHook: noopTelemetryHook,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.archiver == nil {
		e.archiver = archive.New(e.archiveConfig)
	}
	return e
}

// Registry returns the format registry of e.
func (e *Engine) Registry() *FormatRegistry {
	return e.registry
}

// Archiver returns the archive subsystem of e.
func (e *Engine) Archiver() Archiver {
	return e.archiver
}

// ResolveFormat resolves the format of loc against the unpack table of e.
func (e *Engine) ResolveFormat(loc Location) string {
	return ResolveFormat(e.archiver.UnpackFormats(), loc)
}

// ArchiveFormats returns the sorted names of all declared formats and all formats the
// archive subsystem can create or extract.
func (e *Engine) ArchiveFormats() []string {
	names := e.registry.Formats()
	for _, f := range e.archiver.ArchiveFormats() {
		names = append(names, f.Name)
	}
	for _, f := range e.archiver.UnpackFormats() {
		names = append(names, f.Name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// ArchiveFormats returns the format names known to the default engine.
func ArchiveFormats() []string {
	return defaultEngine.ArchiveFormats()
}

// archiveOp is the state of one archive operation.
type archiveOp struct {
	format string
	td     *TelemetryData
}

// attempt calls fn up to [maxAttempts] times. Only [ErrFormatUnknown] leads to a second
// call, after the format registration ran. A failing registration ends the operation with
// its error.
func (e *Engine) attempt(op *archiveOp, fn func() error) error {
	for {
		op.td.Attempts++
		err := fn()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrFormatUnknown) || op.td.Attempts >= maxAttempts {
			return err
		}

		e.logger.Debug("format unknown, activating", "format", op.format, "attempt", op.td.Attempts)
		if err := e.registry.Activate(op.format); err != nil {
			return err
		}
		op.td.Activated = true
	}
}

// emit finishes td and passes it to the telemetry hook.
func (e *Engine) emit(ctx context.Context, td *TelemetryData, start time.Time, err error) {
	td.Duration = time.Since(start)
	td.LastError = err
	e.telemetryHook(ctx, td)
}

// makeArchive implements [Path.MakeArchive] on locations.
func (e *Engine) makeArchive(ctx context.Context, src Location, target string, o archiveOptions) (loc Location, err error) {
	td := &TelemetryData{Operation: "make_archive", Source: src.String(), Target: target}
	defer func(start time.Time) { e.emit(ctx, td, start, err) }(time.Now())

	// resolve source
	source, err := resolveStrict(src.String())
	if err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	sourceLoc := ParseLocation(source)

	// check target
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return Location{}, fmt.Errorf("cannot resolve target: %w", err)
	}
	td.Target = targetAbs
	targetLoc := ParseLocation(targetAbs)
	if _, err := os.Lstat(targetAbs); err == nil {
		if !o.existsOK {
			return Location{}, fmt.Errorf("%w: %s", ErrTargetExists, targetAbs)
		}
		e.logger.Info("removing existing archive", "target", targetAbs)
		if err := os.Remove(targetAbs); err != nil {
			return Location{}, fmt.Errorf("cannot replace target: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Location{}, fmt.Errorf("cannot check target: %w", err)
	}

	// determine format
	op := &archiveOp{format: o.format, td: td}
	if op.format == "" {
		op.format = e.ResolveFormat(targetLoc)
	}
	td.Format = op.format

	base, err := intermediateBase(targetLoc)
	if err != nil {
		return Location{}, err
	}

	e.logger.Info("make archive", "source", source, "target", targetAbs, "format", op.format)
	var produced string
	err = e.attempt(op, func() error {
		var err error
		produced, err = e.archiver.CreateArchive(ctx, base.String(), op.format, sourceLoc.Parent().String(), sourceLoc.Name())
		return err
	})
	if err != nil {
		return Location{}, err
	}

	// reconcile the produced file name with the requested one
	if produced != targetAbs {
		e.logger.Debug("renaming archive", "produced", produced, "target", targetAbs)
		if err := os.Rename(produced, targetAbs); err != nil {
			os.Remove(produced)
			return Location{}, fmt.Errorf("cannot rename archive: %w", err)
		}
	}

	if fi, err := os.Stat(targetAbs); err == nil {
		td.ArchiveSize = fi.Size()
	}
	return targetLoc, nil
}

// unpackArchive implements [Path.UnpackArchive] on locations.
func (e *Engine) unpackArchive(ctx context.Context, src Location, extractDir string, o archiveOptions) (loc Location, err error) {
	td := &TelemetryData{Operation: "unpack_archive", Source: src.String(), Target: extractDir}
	defer func(start time.Time) { e.emit(ctx, td, start, err) }(time.Now())

	source, err := resolveStrict(src.String())
	if err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	if fi, err := os.Stat(source); err == nil {
		td.ArchiveSize = fi.Size()
	}

	op := &archiveOp{format: o.format, td: td}
	if op.format == "" {
		op.format = e.ResolveFormat(src)
	}
	td.Format = op.format

	e.logger.Info("unpack archive", "source", source, "target", extractDir, "format", op.format)
	err = e.attempt(op, func() error {
		return e.archiver.ExtractArchive(ctx, source, extractDir, op.format)
	})
	if err != nil {
		return Location{}, err
	}
	return ParseLocation(extractDir), nil
}

// intermediateBase returns the base name an archive for target is created under before
// it is renamed to target. The name is unique within the directory of target, so no
// existing file is overwritten by the format's own extension. If the directory does not
// exist yet, target without its suffixes is used.
func intermediateBase(target Location) (Location, error) {
	f, err := os.CreateTemp(target.Parent().String(), "."+target.Name()+"-*")
	if errors.Is(err, fs.ErrNotExist) {
		if len(target.Suffixes()) == 0 {
			return target, nil
		}
		return target.WithSuffixes()
	}
	if err != nil {
		return Location{}, fmt.Errorf("cannot reserve archive name: %w", err)
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		return Location{}, fmt.Errorf("cannot reserve archive name: %w", err)
	}
	return ParseLocation(name), nil
}

// resolveStrict returns the absolute path of p with all symlinks evaluated. A missing
// path fails with the *fs.PathError of os.Stat.
func resolveStrict(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
