// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"io"
	"io/fs"
	"log/slog"
)

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// Config holds the settings used by a [Subsystem] while it packs and unpacks archives.
//
// The default configuration refuses path traversal and symlinks in the extraction path,
// and limits the number of entries and the extracted size.
type Config struct {
	// compressionLevel is passed to codecs that support levels, -1 selects the codec default
	compressionLevel int

	// continueOnUnsupportedFiles skips entries that cannot be extracted instead of failing
	continueOnUnsupportedFiles bool

	// customCreateDirMode is the file mode for created directories, that are not defined in the archive (respecting umask)
	customCreateDirMode fs.FileMode

	// denySymlinkExtraction offers the option to enable/disable the extraction of symlinks
	denySymlinkExtraction bool

	// logger stream for packing and unpacking
	logger logger

	// maxExtractionSize is the maximum size over all extracted files.
	// Set value to -1 to disable the check.
	maxExtractionSize int64

	// maxFiles is the maximum of entries (including folder and symlinks) in an archive.
	// Set value to -1 to disable the check.
	maxFiles int64

	// overwrite existing files in the destination
	overwrite bool

	// traverseSymlinks traverses symlinks to directories during extraction
	traverseSymlinks bool
}

// CompressionLevel returns the compression level, -1 means codec default.
func (c *Config) CompressionLevel() int {
	return c.compressionLevel
}

// ContinueOnUnsupportedFiles returns true if unsupported entries are skipped.
func (c *Config) ContinueOnUnsupportedFiles() bool {
	return c.continueOnUnsupportedFiles
}

// CustomCreateDirMode returns the file mode for created directories,
// that are not defined in the archive. (respecting umask)
func (c *Config) CustomCreateDirMode() fs.FileMode {
	return c.customCreateDirMode
}

// DenySymlinkExtraction returns true if symlinks are NOT allowed.
func (c *Config) DenySymlinkExtraction() bool {
	return c.denySymlinkExtraction
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// MaxExtractionSize returns the maximum size over all extracted files.
func (c *Config) MaxExtractionSize() int64 {
	return c.maxExtractionSize
}

// MaxFiles returns the maximum of entries (including folder and symlinks) in an archive.
func (c *Config) MaxFiles() int64 {
	return c.maxFiles
}

// Overwrite returns true if files should be overwritten in the destination.
func (c *Config) Overwrite() bool {
	return c.overwrite
}

// TraverseSymlinks returns true if symlinks should be traversed during extraction.
func (c *Config) TraverseSymlinks() bool {
	return c.traverseSymlinks
}

// CheckMaxFiles checks if counter exceeds the configured maximum. If the maximum is exceeded,
// a [ErrMaxFilesExceeded] error is returned.
func (c *Config) CheckMaxFiles(counter int64) error {

	// check if disabled
	if c.MaxFiles() == -1 {
		return nil
	}

	// check value
	if counter > c.MaxFiles() {
		return ErrMaxFilesExceeded
	}
	return nil
}

// CheckExtractionSize checks if fileSize exceeds configured maximum. If the maximum is exceeded,
// a [ErrMaxExtractionSizeExceeded] error is returned.
func (c *Config) CheckExtractionSize(fileSize int64) error {

	// check if disabled
	if c.MaxExtractionSize() == -1 {
		return nil
	}

	// check value
	if fileSize > c.MaxExtractionSize() {
		return ErrMaxExtractionSizeExceeded
	}
	return nil
}

const (
	defaultCompressionLevel      = -1            // codec default
	defaultContinueOnUnsupported = false         // fail on unsupported entries
	defaultCustomCreateDirMode   = 0750          // default directory permissions rwxr-x---
	defaultDenySymlinkExtraction = false         // allow symlink extraction
	defaultMaxFiles              = 100000        // 100k files
	defaultMaxExtractionSize     = 1 << (10 * 3) // 1 Gb
	defaultOverwrite             = true          // unpacking over an existing tree replaces files
	defaultTraverseSymlinks      = false         // don't traverse symlinks
)

// slog to discard
var defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style.
func NewConfig(opts ...ConfigOption) *Config {
	config := &Config{
		compressionLevel:           defaultCompressionLevel,
		continueOnUnsupportedFiles: defaultContinueOnUnsupported,
		customCreateDirMode:        defaultCustomCreateDirMode,
		denySymlinkExtraction:      defaultDenySymlinkExtraction,
		logger:                     defaultLogger,
		maxExtractionSize:          defaultMaxExtractionSize,
		maxFiles:                   defaultMaxFiles,
		overwrite:                  defaultOverwrite,
		traverseSymlinks:           defaultTraverseSymlinks,
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// WithCompressionLevel options pattern function to set the compression level of codecs
// that support levels. (-1 for the codec default)
func WithCompressionLevel(level int) ConfigOption {
	return func(c *Config) {
		c.compressionLevel = level
	}
}

// WithContinueOnUnsupportedFiles options pattern function to skip unsupported entries,
// like symlinks in Rar archives, instead of failing.
func WithContinueOnUnsupportedFiles(ctd bool) ConfigOption {
	return func(c *Config) {
		c.continueOnUnsupportedFiles = ctd
	}
}

// WithCustomCreateDirMode options pattern function to set the file mode
// for created directories, that are not defined in the archive. (respecting umask)
func WithCustomCreateDirMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.customCreateDirMode = mode
	}
}

// WithDenySymlinkExtraction options pattern function to deny symlink extraction.
func WithDenySymlinkExtraction(deny bool) ConfigOption {
	return func(c *Config) {
		c.denySymlinkExtraction = deny
	}
}

// WithInsecureTraverseSymlinks options pattern function to traverse symlinks during extraction.
func WithInsecureTraverseSymlinks(traverse bool) ConfigOption {
	return func(c *Config) {
		c.traverseSymlinks = traverse
	}
}

// WithLogger options pattern function to set a custom logger.
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithMaxExtractionSize options pattern function to set maximum size over all
// extracted files. (-1 to disable check)
func WithMaxExtractionSize(maxExtractionSize int64) ConfigOption {
	return func(c *Config) {
		c.maxExtractionSize = maxExtractionSize
	}
}

// WithMaxFiles options pattern function to set maximum number of extracted, files, directories
// and symlinks during the extraction. (-1 to disable check)
func WithMaxFiles(maxFiles int64) ConfigOption {
	return func(c *Config) {
		c.maxFiles = maxFiles
	}
}

// WithOverwrite options pattern function specify if files should be overwritten in the destination.
func WithOverwrite(enable bool) ConfigOption {
	return func(c *Config) {
		c.overwrite = enable
	}
}
