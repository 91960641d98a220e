// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand returns the paths matching patterns in order of appearance. Patterns support
// "**" for any number of directories. Patterns without match are skipped and every
// path is returned once.
func Expand[F Flavor](patterns ...string) ([]Path[F], error) {
	Declare[F](defaultEngine)

	seen := map[string]struct{}{}
	var out []Path[F]
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("cannot expand %q: %w", pattern, err)
		}
		for _, m := range matches {
			p := New[F](m)
			if _, ok := seen[p.String()]; ok {
				continue
			}
			seen[p.String()] = struct{}{}
			out = append(out, p)
		}
	}
	return out, nil
}
