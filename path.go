// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"context"
	"os"
	"path/filepath"
)

// Path is a filesystem path of flavor F. Every operation that derives a new path
// returns a Path[F] again, so the capabilities of F are kept.
//
// Path is a value type and immutable, the zero value is the current directory ".".
type Path[F Flavor] struct {
	loc Location
}

// New joins elem into a Path[F] and declares F on the default engine.
func New[F Flavor](elem ...string) Path[F] {
	Declare[F](defaultEngine)
	return Path[F]{loc: Location{}.Join(elem...)}
}

// FromLocation returns loc as Path[F].
func FromLocation[F Flavor](loc Location) Path[F] {
	return Path[F]{loc: loc}
}

// Cwd returns the current working directory as Path[F].
func Cwd[F Flavor]() (Path[F], error) {
	wd, err := os.Getwd()
	if err != nil {
		return Path[F]{}, err
	}
	return New[F](wd), nil
}

// derive is the single way to construct derived paths, it keeps the flavor of p.
func (p Path[F]) derive(loc Location) Path[F] {
	return Path[F]{loc: loc}
}

// Location returns the underlying [Location].
func (p Path[F]) Location() Location { return p.loc }

// String returns the os specific form of p.
func (p Path[F]) String() string { return p.loc.String() }

// Name returns the final path segment.
func (p Path[F]) Name() string { return p.loc.Name() }

// Suffix returns the last suffix group of the name.
func (p Path[F]) Suffix() string { return p.loc.Suffix() }

// Suffixes returns all suffix groups of the name.
func (p Path[F]) Suffixes() []string { return p.loc.Suffixes() }

// Stem returns the name without the last suffix group.
func (p Path[F]) Stem() string { return p.loc.Stem() }

// Anchor returns volume and root of p.
func (p Path[F]) Anchor() string { return p.loc.Anchor() }

// Parts returns anchor and segments of p.
func (p Path[F]) Parts() []string { return p.loc.Parts() }

// IsAbs reports whether p is absolute.
func (p Path[F]) IsAbs() bool { return p.loc.IsAbs() }

// Equal reports whether p and other are the same path.
func (p Path[F]) Equal(other Path[F]) bool { return p.loc.Equal(other.loc) }

// Parent returns the directory of p.
func (p Path[F]) Parent() Path[F] { return p.derive(p.loc.Parent()) }

// Join appends elem to p.
func (p Path[F]) Join(elem ...string) Path[F] { return p.derive(p.loc.Join(elem...)) }

// WithName returns p with the name replaced.
func (p Path[F]) WithName(name string) (Path[F], error) {
	loc, err := p.loc.WithName(name)
	if err != nil {
		return Path[F]{}, err
	}
	return p.derive(loc), nil
}

// WithSuffix returns p with the last suffix group replaced, see [Location.WithSuffix].
func (p Path[F]) WithSuffix(suffix string) (Path[F], error) {
	loc, err := p.loc.WithSuffix(suffix)
	if err != nil {
		return Path[F]{}, err
	}
	return p.derive(loc), nil
}

// WithSuffixes returns p with all suffix groups replaced, see [Location.WithSuffixes].
func (p Path[F]) WithSuffixes(suffixes ...string) (Path[F], error) {
	loc, err := p.loc.WithSuffixes(suffixes...)
	if err != nil {
		return Path[F]{}, err
	}
	return p.derive(loc), nil
}

// RelativeTo returns p relative to base, see [Location.RelativeTo].
func (p Path[F]) RelativeTo(base string, walkUp int) (Path[F], error) {
	loc, err := p.loc.RelativeTo(ParseLocation(base), walkUp)
	if err != nil {
		return Path[F]{}, err
	}
	return p.derive(loc), nil
}

// Absolute returns p joined to the current working directory, without evaluating symlinks.
func (p Path[F]) Absolute() (Path[F], error) {
	abs, err := filepath.Abs(p.String())
	if err != nil {
		return Path[F]{}, err
	}
	return p.derive(ParseLocation(abs)), nil
}

// Resolve returns the absolute path of p with symlinks evaluated. With strict set, a
// missing path is an error, otherwise the absolute path is returned as is.
func (p Path[F]) Resolve(strict bool) (Path[F], error) {
	resolved, err := resolveStrict(p.String())
	if err != nil {
		if strict || !os.IsNotExist(err) {
			return Path[F]{}, err
		}
		return p.Absolute()
	}
	return p.derive(ParseLocation(resolved)), nil
}

// MakeArchive creates an archive of p at target and returns target.
//
// The format is resolved from the suffixes of target unless [WithFormat] is given. If
// target exists, [ErrTargetExists] is returned unless [WithExistsOK] is set, in which
// case it is replaced. A format the archive subsystem does not know is registered from
// the declared flavors and the creation is retried once. The archive always ends up at
// target, even if the format uses another file extension.
func (p Path[F]) MakeArchive(ctx context.Context, target string, opts ...ArchiveOption) (Path[F], error) {
	o := newArchiveOptions(opts)
	Declare[F](o.engine)
	loc, err := o.engine.makeArchive(ctx, p.loc, target, o)
	if err != nil {
		return Path[F]{}, err
	}
	return p.derive(loc), nil
}

// UnpackArchive extracts the archive p into extractDir and returns extractDir.
//
// The format is resolved from the suffixes of p unless [WithFormat] is given. Unknown
// formats are handled like in [Path.MakeArchive].
func (p Path[F]) UnpackArchive(ctx context.Context, extractDir string, opts ...ArchiveOption) (Path[F], error) {
	o := newArchiveOptions(opts)
	Declare[F](o.engine)
	loc, err := o.engine.unpackArchive(ctx, p.loc, extractDir, o)
	if err != nil {
		return Path[F]{}, err
	}
	return p.derive(loc), nil
}

// MarshalText implements [encoding.TextMarshaler] with slash separators.
func (p Path[F]) MarshalText() ([]byte, error) {
	return []byte(filepath.ToSlash(p.String())), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (p *Path[F]) UnmarshalText(text []byte) error {
	p.loc = ParseLocation(filepath.FromSlash(string(text)))
	return nil
}
