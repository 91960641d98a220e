// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// DefaultHash is the hash algorithm of flavors without [HashFlavor].
const DefaultHash = "md5"

// MinDigestLength is the shortest digest accepted by a non-strict [Path.Verify].
const MinDigestLength = 7

// hashers are the fixed length algorithms.
var hashers = map[string]func() (hash.Hash, error){
	"md5":        func() (hash.Hash, error) { return md5.New(), nil },
	"sha1":       func() (hash.Hash, error) { return sha1.New(), nil },
	"sha224":     func() (hash.Hash, error) { return sha256.New224(), nil },
	"sha256":     func() (hash.Hash, error) { return sha256.New(), nil },
	"sha384":     func() (hash.Hash, error) { return sha512.New384(), nil },
	"sha512":     func() (hash.Hash, error) { return sha512.New(), nil },
	"sha512_224": func() (hash.Hash, error) { return sha512.New512_224(), nil },
	"sha512_256": func() (hash.Hash, error) { return sha512.New512_256(), nil },
	"sha3_224":   func() (hash.Hash, error) { return sha3.New224(), nil },
	"sha3_256":   func() (hash.Hash, error) { return sha3.New256(), nil },
	"sha3_384":   func() (hash.Hash, error) { return sha3.New384(), nil },
	"sha3_512":   func() (hash.Hash, error) { return sha3.New512(), nil },
	"blake2b":    func() (hash.Hash, error) { return blake2b.New512(nil) },
	"blake2s":    func() (hash.Hash, error) { return blake2s.New256(nil) },
	"blake3":     func() (hash.Hash, error) { return blake3.New(), nil },
}

// shakes are the variable length algorithms.
var shakes = map[string]func() sha3.ShakeHash{
	"shake_128": sha3.NewShake128,
	"shake_256": sha3.NewShake256,
}

// Algorithms returns the names of all supported hash algorithms, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(hashers)+len(shakes))
	for name := range hashers {
		names = append(names, name)
	}
	for name := range shakes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// defaultHash returns the default algorithm of flavor F.
func defaultHash[F Flavor]() string {
	var zero F
	if hf, ok := any(zero).(HashFlavor); ok && hf.DefaultHash() != "" {
		return hf.DefaultHash()
	}
	return DefaultHash
}

// Hexdigest returns the hex encoded digest of the file p. An empty algorithm selects the
// default of the flavor. Variable length algorithms need [Path.HexdigestLength].
func (p Path[F]) Hexdigest(algorithm string) (string, error) {
	if algorithm == "" {
		algorithm = defaultHash[F]()
	}
	newHash, ok := hashers[algorithm]
	if !ok {
		if _, shake := shakes[algorithm]; shake {
			return "", fmt.Errorf("%w: %s needs a digest length", ErrUnknownAlgorithm, algorithm)
		}
		return "", fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algorithm)
	}
	h, err := newHash()
	if err != nil {
		return "", err
	}
	if err := p.hashFile(h); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HexdigestLength returns the hex encoded digest of length bytes of the file p for a
// variable length algorithm like "shake_128".
func (p Path[F]) HexdigestLength(algorithm string, length int) (string, error) {
	newShake, ok := shakes[algorithm]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algorithm)
	}
	if length <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidDigestLength, length)
	}
	h := newShake()
	if err := p.hashFile(h); err != nil {
		return "", err
	}
	out := make([]byte, length)
	if _, err := h.Read(out); err != nil {
		return "", err
	}
	return hex.EncodeToString(out), nil
}

// Verify compares digest with the digest of the file p. A strict comparison needs an
// exact match. Otherwise digest needs at least [MinDigestLength] characters, case is
// ignored and only the characters both digests have are compared. For variable length
// algorithms the digest length follows from digest.
func (p Path[F]) Verify(digest string, algorithm string, strict bool) (bool, error) {
	if !strict && len(digest) < MinDigestLength {
		return false, fmt.Errorf("%w: %d characters, need at least %d", ErrDigestTooShort, len(digest), MinDigestLength)
	}

	var sum string
	var err error
	if _, ok := shakes[algorithm]; ok {
		sum, err = p.HexdigestLength(algorithm, (len(digest)+1)/2)
	} else {
		sum, err = p.Hexdigest(algorithm)
	}
	if err != nil {
		return false, err
	}

	if strict {
		return sum == digest, nil
	}
	n := min(len(sum), len(digest))
	return sum[:n] == strings.ToLower(digest[:n]), nil
}

// hashFile writes the content of the regular file p into w.
func (p Path[F]) hashFile(w io.Writer) error {
	f, err := os.Open(p.String())
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return &os.PathError{Op: "hash", Path: p.String(), Err: fmt.Errorf("not a regular file")}
	}

	_, err = io.Copy(w, f)
	return err
}
