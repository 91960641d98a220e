// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"slices"
	"strings"

	"github.com/hashicorp/go-pathutil/archive"
)

// ResolveFormat returns the format of the archive at loc. The first entry of table whose
// extensions contain the compound suffix of loc wins. Without a match, the compound
// suffix with all dots removed is returned, e.g. "x.foo.bar" resolves to "foobar".
func ResolveFormat(table []archive.UnpackFormat, loc Location) string {
	compound := loc.CompoundSuffix()
	for _, f := range table {
		if slices.Contains(f.Extensions, compound) {
			return f.Name
		}
	}
	return strings.ReplaceAll(compound, ".", "")
}
