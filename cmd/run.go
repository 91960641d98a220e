// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/go-pathutil"
	"github.com/hashicorp/go-pathutil/archive"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Globals are the cli parameters shared by all commands
type Globals struct {
	ContinueOnUnsupportedFiles bool             `short:"C" help:"Skip unsupported entries, like symlinks in rar archives, instead of failing."`
	DenySymlinks               bool             `short:"D" help:"Deny symlink extraction."`
	FollowSymlinks             bool             `short:"F" help:"[Dangerous!] Follow symlinks to directories during extraction."`
	MaxFiles                   int64            `optional:"" default:"100000" env:"PATHUTIL_MAX_FILES" help:"Maximum files that are extracted before stop. (disable check: -1)"`
	MaxExtractionSize          string           `optional:"" default:"1GiB" env:"PATHUTIL_MAX_EXTRACTION_SIZE" help:"Maximum extraction size, e.g. \"512MiB\". (disable check: -1)"`
	KeepExisting               bool             `short:"K" help:"Fail instead of overwriting existing files during extraction."`
	Metrics                    bool             `short:"M" optional:"" default:"false" help:"Print telemetry to log after each archive operation."`
	Timeout                    time.Duration    `optional:"" default:"0s" env:"PATHUTIL_TIMEOUT" help:"Maximum time an operation may take. (disable check: 0)"`
	Verbose                    bool             `short:"v" optional:"" help:"Verbose logging."`
	Version                    kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`

	logger *slog.Logger     `kong:"-"`
	engine *pathutil.Engine `kong:"-"`
	out    io.Writer        `kong:"-"`
}

// CLI are the cli parameters for the pathutil binary
type CLI struct {
	Globals

	Pack    PackCmd    `cmd:"" help:"Create an archive of a file or directory."`
	Unpack  UnpackCmd  `cmd:"" help:"Extract one or more archives."`
	Formats FormatsCmd `cmd:"" help:"List the known archive formats."`
	Hash    HashCmd    `cmd:"" help:"Print or verify file digests."`
	Size    SizeCmd    `cmd:"" help:"Print the size of files and directories."`
}

// PackCmd creates an archive
type PackCmd struct {
	Source   string `arg:"" name:"source" help:"File or directory to archive." type:"path"`
	Target   string `arg:"" name:"target" help:"Path of the archive. The format is derived from its suffixes."`
	Format   string `short:"f" optional:"" help:"Archive format, overrides the suffixes of target."`
	ExistsOK bool   `short:"O" help:"Replace an existing archive."`
}

// Run creates the archive
func (c *PackCmd) Run(g *Globals) error {
	ctx, cancel := g.context()
	defer cancel()

	opts := []pathutil.ArchiveOption{pathutil.WithEngine(g.engine), pathutil.WithExistsOK(c.ExistsOK)}
	if c.Format != "" {
		opts = append(opts, pathutil.WithFormat(c.Format))
	}

	a, err := pathutil.New[pathutil.Plain](c.Source).MakeArchive(ctx, c.Target, opts...)
	if err != nil {
		return errors.Wrapf(err, "cannot create %s", c.Target)
	}
	fmt.Fprintln(g.out, a)
	return nil
}

// UnpackCmd extracts archives
type UnpackCmd struct {
	Archives    []string `arg:"" name:"archives" help:"Archives to extract, glob patterns are expanded."`
	Destination string   `short:"d" default:"." help:"Output directory. Several archives are extracted into a sub directory each."`
	Format      string   `short:"f" optional:"" help:"Archive format, overrides the suffixes of the archives."`
	Parallel    int      `short:"p" default:"4" help:"Number of archives extracted at the same time."`
}

// Run extracts the archives
func (c *UnpackCmd) Run(g *Globals) error {
	ctx, cancel := g.context()
	defer cancel()

	archives, err := pathutil.Expand[pathutil.Plain](c.Archives...)
	if err != nil {
		return errors.Wrap(err, "cannot expand archives")
	}
	if len(archives) == 0 {
		return errors.Errorf("no archive matches %q", c.Archives)
	}

	opts := []pathutil.ArchiveOption{pathutil.WithEngine(g.engine)}
	if c.Format != "" {
		opts = append(opts, pathutil.WithFormat(c.Format))
	}

	// archives that share a destination are extracted one after the other
	var dests []string
	groups := map[string][]pathutil.Path[pathutil.Plain]{}
	for _, a := range archives {
		dest := c.Destination
		if len(archives) > 1 {
			base, err := a.WithSuffixes()
			if err != nil {
				return errors.Wrapf(err, "cannot derive directory for %s", a)
			}
			dest = filepath.Join(c.Destination, base.Name())
		}
		if _, ok := groups[dest]; !ok {
			dests = append(dests, dest)
		}
		groups[dest] = append(groups[dest], a)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(c.Parallel, 1))
	for _, dest := range dests {
		dest := dest
		group := groups[dest]
		if len(group) > 1 {
			g.logger.Warn("archives share a destination", "destination", dest, "archives", len(group))
		}
		eg.Go(func() error {
			for _, a := range group {
				out, err := a.UnpackArchive(ctx, dest, opts...)
				if err != nil {
					return errors.Wrapf(err, "cannot extract %s", a)
				}
				g.logger.Info("extracted archive", "archive", a.String(), "destination", out.String())
			}
			return nil
		})
	}
	return eg.Wait()
}

// FormatsCmd lists archive formats
type FormatsCmd struct{}

// Run prints the formats
func (c *FormatsCmd) Run(g *Globals) error {
	for _, f := range g.engine.ArchiveFormats() {
		fmt.Fprintln(g.out, f)
	}
	return nil
}

// HashCmd prints or verifies digests
type HashCmd struct {
	Files     []string `arg:"" name:"files" help:"Files to hash, glob patterns are expanded."`
	Algorithm string   `short:"a" default:"md5" enum:"${algorithms}" help:"Hash algorithm (${enum})."`
	Length    int      `short:"l" default:"32" help:"Digest length in bytes for shake algorithms."`
	Verify    string   `optional:"" help:"Compare with this digest instead of printing, abbreviations are accepted. Shake digests are checked in the length of this digest."`
}

// Run hashes the files
func (c *HashCmd) Run(g *Globals) error {
	shake := c.Algorithm == "shake_128" || c.Algorithm == "shake_256"
	if shake && c.Verify == "" && c.Length <= 0 {
		return errors.Errorf("invalid digest length %d, must be positive", c.Length)
	}

	files, err := pathutil.Expand[pathutil.Plain](c.Files...)
	if err != nil {
		return errors.Wrap(err, "cannot expand files")
	}

	for _, f := range files {
		if c.Verify != "" {
			ok, err := f.Verify(c.Verify, c.Algorithm, false)
			if err != nil {
				return errors.Wrapf(err, "cannot verify %s", f)
			}
			if !ok {
				return errors.Errorf("%s: digest mismatch", f)
			}
			fmt.Fprintf(g.out, "%s: OK\n", f)
			continue
		}

		var digest string
		if shake {
			digest, err = f.HexdigestLength(c.Algorithm, c.Length)
		} else {
			digest, err = f.Hexdigest(c.Algorithm)
		}
		if err != nil {
			return errors.Wrapf(err, "cannot hash %s", f)
		}
		fmt.Fprintf(g.out, "%s  %s\n", digest, f)
	}
	return nil
}

// SizeCmd prints sizes
type SizeCmd struct {
	Paths     []string `arg:"" name:"paths" help:"Files or directories."`
	Unit      string   `short:"u" optional:"" help:"Print the size in this unit, e.g. \"MB\" or \"KiB\"."`
	Precision int      `default:"2" help:"Decimals printed together with --unit."`
}

// Run prints the sizes
func (c *SizeCmd) Run(g *Globals) error {
	for _, p := range c.Paths {
		size, err := pathutil.New[pathutil.Plain](p).Size()
		if err != nil {
			return errors.Wrapf(err, "cannot determine size of %s", p)
		}
		if c.Unit == "" {
			fmt.Fprintf(g.out, "%s\t%s\n", size, p)
			continue
		}
		s, err := size.Format(c.Unit, c.Precision)
		if err != nil {
			return errors.Wrap(err, "invalid unit")
		}
		fmt.Fprintf(g.out, "%s %s\t%s\n", s, c.Unit, p)
	}
	return nil
}

// context returns the context of a command, bound to the timeout flag.
func (g *Globals) context() (context.Context, context.CancelFunc) {
	if g.Timeout > 0 {
		return context.WithTimeout(context.Background(), g.Timeout)
	}
	return context.WithCancel(context.Background())
}

// setup creates logger and engine from the global flags.
func (g *Globals) setup(out io.Writer) error {
	// Check for verbose output
	logLevel := slog.LevelError
	if g.Verbose {
		logLevel = slog.LevelDebug
	}

	// setup logger
	g.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	g.out = out

	maxExtractionSize := int64(-1)
	if g.MaxExtractionSize != "-1" {
		size, err := pathutil.ParseByteSize(g.MaxExtractionSize)
		if err != nil {
			return errors.Wrap(err, "invalid max extraction size")
		}
		maxExtractionSize = int64(size)
	}

	// setup telemetry hook
	telemetryToLog := func(ctx context.Context, td *pathutil.TelemetryData) {
		if g.Metrics {
			g.logger.Info("archive operation finished", "telemetry", td)
		}
	}

	cfg := archive.NewConfig(
		archive.WithContinueOnUnsupportedFiles(g.ContinueOnUnsupportedFiles),
		archive.WithDenySymlinkExtraction(g.DenySymlinks),
		archive.WithInsecureTraverseSymlinks(g.FollowSymlinks),
		archive.WithLogger(g.logger),
		archive.WithMaxExtractionSize(maxExtractionSize),
		archive.WithMaxFiles(g.MaxFiles),
		archive.WithOverwrite(!g.KeepExisting),
	)
	g.engine = pathutil.NewEngine(
		pathutil.WithArchiveConfig(cfg),
		pathutil.WithLogger(g.logger),
		pathutil.WithTelemetryHook(telemetryToLog),
	)
	declareFlavors(g.engine)
	return nil
}

// declareFlavors makes every optional format known to e, they are installed on first use.
func declareFlavors(e *pathutil.Engine) {
	pathutil.Declare[pathutil.TarZstd](e)
	pathutil.Declare[pathutil.TarLz4](e)
	pathutil.Declare[pathutil.TarBrotli](e)
	pathutil.Declare[pathutil.TarSnappy](e)
	pathutil.Declare[pathutil.SevenZip](e)
	pathutil.Declare[pathutil.Rar](e)
}

// Run the entrypoint into pathutil as a cli tool
func Run(version, commit, date string) {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Description("Archive, hash and measure files"),
		kong.UsageOnError(),
		kong.Vars{
			"version":    fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
			"algorithms": strings.Join(pathutil.Algorithms(), ","),
		},
	)

	kctx.FatalIfErrorf(cli.Globals.setup(os.Stdout))
	kctx.FatalIfErrorf(kctx.Run(&cli.Globals))
}
