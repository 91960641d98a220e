// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// WalkUpUnlimited allows [Location.RelativeTo] to step through any number of parents.
const WalkUpUnlimited = -1

// Location is an immutable filesystem path made of an anchor and a list of segments.
// The anchor is the volume name followed by the root separator for absolute paths,
// the volume name alone for drive relative paths and empty otherwise. Segments never
// contain a separator and never are "." or empty.
type Location struct {
	anchor   string
	segments []string
}

// ParseLocation splits s into anchor and segments. Empty and "." segments are dropped,
// ".." segments are kept.
func ParseLocation(s string) Location {
	vol := filepath.VolumeName(s)
	rest := s[len(vol):]

	anchor := vol
	if len(rest) > 0 && os.IsPathSeparator(rest[0]) {
		anchor += string(filepath.Separator)
	}

	var segments []string
	for _, seg := range strings.FieldsFunc(rest, isSeparator) {
		if seg == "." {
			continue
		}
		segments = append(segments, seg)
	}
	return Location{anchor: anchor, segments: segments}
}

// String returns the os specific form of l. An empty location is ".".
func (l Location) String() string {
	joined := strings.Join(l.segments, string(filepath.Separator))
	if l.anchor == "" && joined == "" {
		return "."
	}
	return l.anchor + joined
}

// Anchor returns volume and root of l.
func (l Location) Anchor() string {
	return l.anchor
}

// IsAbs reports whether l is an absolute path.
func (l Location) IsAbs() bool {
	return filepath.IsAbs(l.String())
}

// Parts returns the anchor, if any, followed by all segments.
func (l Location) Parts() []string {
	parts := make([]string, 0, len(l.segments)+1)
	if l.anchor != "" {
		parts = append(parts, l.anchor)
	}
	return append(parts, l.segments...)
}

// Name returns the final segment, or "" if there is none.
func (l Location) Name() string {
	if len(l.segments) == 0 {
		return ""
	}
	return l.segments[len(l.segments)-1]
}

// Suffixes returns the suffix groups of the final segment. A name that ends with a dot
// has none, leading dots belong to the name and every further dot starts a group.
// The concatenation of all groups is the extension portion of the name.
func (l Location) Suffixes() []string {
	return suffixGroups(l.Name())
}

// CompoundSuffix returns all suffix groups joined together, e.g. ".tar.gz".
func (l Location) CompoundSuffix() string {
	return strings.Join(l.Suffixes(), "")
}

// Suffix returns the last suffix group or "".
func (l Location) Suffix() string {
	groups := l.Suffixes()
	if len(groups) == 0 {
		return ""
	}
	return groups[len(groups)-1]
}

// Stem returns the final segment without its last suffix group.
func (l Location) Stem() string {
	return strings.TrimSuffix(l.Name(), l.Suffix())
}

// Parent returns l without its final segment. The parent of an anchor or an empty
// location is the location itself.
func (l Location) Parent() Location {
	if len(l.segments) == 0 {
		return l
	}
	return Location{anchor: l.anchor, segments: l.segments[:len(l.segments)-1:len(l.segments)-1]}
}

// Join appends elem to l. An absolute element replaces everything before it.
func (l Location) Join(elem ...string) Location {
	out := l
	for _, e := range elem {
		next := ParseLocation(e)
		if next.anchor != "" {
			out = next
			continue
		}
		out = Location{anchor: out.anchor, segments: concat(out.segments, next.segments)}
	}
	return out
}

// WithName returns l with the final segment replaced by name.
func (l Location) WithName(name string) (Location, error) {
	if len(l.segments) == 0 {
		return Location{}, fmt.Errorf("%w: %q has an empty name", ErrInvalidName, l.String())
	}
	if name == "" || name == "." || strings.ContainsFunc(name, isSeparator) {
		return Location{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	segments := slices.Clone(l.segments)
	segments[len(segments)-1] = name
	return Location{anchor: l.anchor, segments: segments}, nil
}

// WithSuffix returns l with the last suffix group replaced by suffix. An empty suffix
// removes the last group, a suffix may consist of several groups like ".tar.gz".
func (l Location) WithSuffix(suffix string) (Location, error) {
	if l.Name() == "" {
		return Location{}, fmt.Errorf("%w: %q has an empty name", ErrInvalidSuffix, l.String())
	}
	if suffix != "" && !validSuffix(suffix) {
		return Location{}, fmt.Errorf("%w: %q", ErrInvalidSuffix, suffix)
	}
	return l.WithName(l.Stem() + suffix)
}

// WithSuffixes returns l with all suffix groups removed and suffixes appended in order.
// Without suffixes, or with only empty strings, the groups are removed only. Otherwise
// every entry has to be a dot prefixed suffix.
func (l Location) WithSuffixes(suffixes ...string) (Location, error) {
	if l.Name() == "" {
		return Location{}, fmt.Errorf("%w: %q has an empty name", ErrInvalidSuffix, l.String())
	}

	allEmpty := !slices.ContainsFunc(suffixes, func(s string) bool { return s != "" })
	if !allEmpty {
		for _, s := range suffixes {
			if !validGroup(s) {
				return Location{}, fmt.Errorf("%w: %q in %q", ErrInvalidSuffix, s, suffixes)
			}
		}
	}

	name := l.Name()
	base := strings.TrimSuffix(name, l.CompoundSuffix())
	if allEmpty {
		return l.WithName(base)
	}
	return l.WithName(base + strings.Join(suffixes, ""))
}

// RelativeTo returns l relative to base. Both have to share the anchor. walkUp limits
// the number of ".." segments that may be prepended, 0 requires base to be an ancestor
// of l and [WalkUpUnlimited] removes the limit.
func (l Location) RelativeTo(base Location, walkUp int) (Location, error) {
	if l.anchor != base.anchor {
		return Location{}, fmt.Errorf("%w: %q and %q have different anchors", ErrNotRelative, l.String(), base.String())
	}

	common := base
	steps := 0
	for !hasPrefix(l.segments, common.segments) {
		if walkUp != WalkUpUnlimited && steps >= walkUp {
			return Location{}, fmt.Errorf("%w: %q is not in the subpath of %q", ErrNotRelative, l.String(), base.String())
		}
		if len(common.segments) == 0 || common.Name() == ".." {
			return Location{}, fmt.Errorf("%w: cannot walk up from %q", ErrNotRelative, base.String())
		}
		common = common.Parent()
		steps++
	}

	segments := make([]string, 0, steps+len(l.segments)-len(common.segments))
	for i := 0; i < steps; i++ {
		segments = append(segments, "..")
	}
	segments = append(segments, l.segments[len(common.segments):]...)
	return Location{segments: segments}, nil
}

// Equal reports whether l and other consist of the same anchor and segments.
func (l Location) Equal(other Location) bool {
	return l.anchor == other.anchor && slices.Equal(l.segments, other.segments)
}

// suffixGroups implements the suffix rule of [Location.Suffixes].
func suffixGroups(name string) []string {
	if name == "" || strings.HasSuffix(name, ".") {
		return nil
	}
	name = strings.TrimLeft(name, ".")
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return nil
	}
	groups := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		groups = append(groups, "."+p)
	}
	return groups
}

// validSuffix reports whether s is a dot prefixed suffix without separators.
func validSuffix(s string) bool {
	return strings.HasPrefix(s, ".") && s != "." && !strings.ContainsFunc(s, isSeparator)
}

// validGroup is like validSuffix but accepts ".", which is a group of names like "a..b".
func validGroup(s string) bool {
	return strings.HasPrefix(s, ".") && !strings.ContainsFunc(s, isSeparator)
}

func isSeparator(r rune) bool {
	return r < 0x80 && os.IsPathSeparator(uint8(r))
}

func hasPrefix(s, prefix []string) bool {
	return len(s) >= len(prefix) && slices.Equal(s[:len(prefix)], prefix)
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
