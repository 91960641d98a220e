// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ByteSize is a number of bytes.
type ByteSize int64

// units maps decimal and binary unit names to their number of bytes.
var units = map[string]*big.Int{
	"b":   big.NewInt(1),
	"kb":  humanize.BigKByte,
	"mb":  humanize.BigMByte,
	"gb":  humanize.BigGByte,
	"tb":  humanize.BigTByte,
	"pb":  humanize.BigPByte,
	"eb":  humanize.BigEByte,
	"zb":  humanize.BigZByte,
	"yb":  humanize.BigYByte,
	"kib": humanize.BigKiByte,
	"mib": humanize.BigMiByte,
	"gib": humanize.BigGiByte,
	"tib": humanize.BigTiByte,
	"pib": humanize.BigPiByte,
	"eib": humanize.BigEiByte,
	"zib": humanize.BigZiByte,
	"yib": humanize.BigYiByte,
}

// ParseByteSize parses a size like "42 MB" or "1.5GiB".
func ParseByteSize(s string) (ByteSize, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return ByteSize(n), nil
}

// String returns the size with binary units, e.g. "1.5 KiB".
func (b ByteSize) String() string {
	if b < 0 {
		return "-" + humanize.IBytes(uint64(-b))
	}
	return humanize.IBytes(uint64(b))
}

// In returns the size converted into unit, e.g. "kb" or "MiB". Unit names are not case sensitive.
func (b ByteSize) In(unit string) (float64, error) {
	div, ok := units[strings.ToLower(unit)]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt64(int64(b)), new(big.Float).SetInt(div)).Float64()
	return f, nil
}

// Format returns the size converted into unit with prec decimals and without unit name.
func (b ByteSize) Format(unit string, prec int) (string, error) {
	v, err := b.In(unit)
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(v, 'f', prec, 64), nil
}
