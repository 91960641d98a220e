// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package pathutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"syscall"
)

// Stat returns the [fs.FileInfo] of p, following symlinks.
func (p Path[F]) Stat() (fs.FileInfo, error) {
	return os.Stat(p.String())
}

// Lstat returns the [fs.FileInfo] of p without following symlinks.
func (p Path[F]) Lstat() (fs.FileInfo, error) {
	return os.Lstat(p.String())
}

// Exists reports whether p exists.
func (p Path[F]) Exists() bool {
	_, err := p.Stat()
	return err == nil
}

// IsFile reports whether p is a regular file.
func (p Path[F]) IsFile() bool {
	fi, err := p.Stat()
	return err == nil && fi.Mode().IsRegular()
}

// IsDir reports whether p is a directory.
func (p Path[F]) IsDir() bool {
	fi, err := p.Stat()
	return err == nil && fi.IsDir()
}

// Chdir changes the working directory to p. The returned function changes back to the
// previous working directory.
func (p Path[F]) Chdir() (restore func() error, err error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(p.String()); err != nil {
		return nil, err
	}
	return func() error { return os.Chdir(prev) }, nil
}

// Iterdir returns the entries of the directory p, sorted by name.
func (p Path[F]) Iterdir() ([]Path[F], error) {
	entries, err := os.ReadDir(p.String())
	if err != nil {
		return nil, err
	}
	out := make([]Path[F], 0, len(entries))
	for _, e := range entries {
		out = append(out, p.Join(e.Name()))
	}
	return out, nil
}

// Walk calls fn for p and every directory below it with the names of the contained
// directories and files. Walk is top down, fn may remove names from dirs to skip them.
func (p Path[F]) Walk(fn func(dir Path[F], dirs []string, files []string) ([]string, error)) error {
	entries, err := os.ReadDir(p.String())
	if err != nil {
		return err
	}

	var dirs, files []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		} else {
			files = append(files, e.Name())
		}
	}

	keep, err := fn(p, dirs, files)
	if err != nil {
		return err
	}
	for _, d := range keep {
		if err := p.Join(d).Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// Files returns all files below the directory p. depth limits how many directory
// levels are entered, 0 lists p only and -1 is unlimited. Directories for which
// exclude returns true are skipped, exclude may be nil.
func (p Path[F]) Files(depth int, exclude func(Path[F]) bool) ([]Path[F], error) {
	var out []Path[F]
	root := len(p.loc.segments)
	err := p.Walk(func(dir Path[F], dirs []string, files []string) ([]string, error) {
		for _, f := range files {
			out = append(out, dir.Join(f))
		}
		if depth >= 0 && len(dir.loc.segments)-root >= depth {
			return nil, nil
		}
		if exclude == nil {
			return dirs, nil
		}
		return slices.DeleteFunc(dirs, func(d string) bool { return exclude(dir.Join(d)) }), nil
	})
	return out, err
}

// Size returns the size of the file p or the sum of all files below the directory p.
func (p Path[F]) Size() (ByteSize, error) {
	fi, err := p.Stat()
	if err != nil {
		return 0, err
	}
	if !fi.IsDir() {
		return ByteSize(fi.Size()), nil
	}

	var total ByteSize
	err = filepath.WalkDir(p.String(), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += ByteSize(info.Size())
		return nil
	})
	return total, err
}

// ReadLines calls fn with every line of the file p, including the line terminator.
func (p Path[F]) ReadLines(fn func(line string) error) error {
	f, err := os.Open(p.String())
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			if err := fn(line); err != nil {
				return err
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Copy copies p to dst and returns the copy.
//
// A directory is copied recursively to dst itself, existing directories are merged
// unless existOK is false. A file is copied into the directory dst, which is created
// if missing, keeping its name, mode and modification time. With existOK false an
// existing destination fails with [fs.ErrExist].
func (p Path[F]) Copy(dst string, existOK bool) (Path[F], error) {
	fi, err := p.Stat()
	if err != nil {
		return Path[F]{}, err
	}

	if fi.IsDir() {
		if _, err := os.Lstat(dst); err == nil && !existOK {
			return Path[F]{}, &fs.PathError{Op: "copy", Path: dst, Err: fs.ErrExist}
		}
		if err := copyTree(p.String(), dst); err != nil {
			return Path[F]{}, err
		}
		return p.derive(ParseLocation(dst)), nil
	}

	target := filepath.Join(dst, p.Name())
	if _, err := os.Lstat(target); err == nil && !existOK {
		return Path[F]{}, &fs.PathError{Op: "copy", Path: target, Err: fs.ErrExist}
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return Path[F]{}, err
	}
	if err := copyFile(p.String(), target, fi); err != nil {
		return Path[F]{}, err
	}
	return p.derive(ParseLocation(target)), nil
}

// Move moves p into the directory dst, which is created if missing, and returns the
// new location. An existing entry of the same name in dst is an error.
func (p Path[F]) Move(dst string) (Path[F], error) {
	src, err := resolveStrict(p.String())
	if err != nil {
		return Path[F]{}, err
	}
	dstAbs, err := filepath.Abs(dst)
	if err != nil {
		return Path[F]{}, err
	}
	if err := os.MkdirAll(dstAbs, 0755); err != nil {
		return Path[F]{}, err
	}

	target := filepath.Join(dstAbs, filepath.Base(src))
	if _, err := os.Lstat(target); err == nil {
		return Path[F]{}, &fs.PathError{Op: "move", Path: target, Err: fs.ErrExist}
	}

	if err := os.Rename(src, target); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return Path[F]{}, err
		}

		// other device, copy and remove
		fi, err := os.Stat(src)
		if err != nil {
			return Path[F]{}, err
		}
		if fi.IsDir() {
			err = copyTree(src, target)
		} else {
			err = copyFile(src, target, fi)
		}
		if err != nil {
			return Path[F]{}, err
		}
		if err := os.RemoveAll(src); err != nil {
			return Path[F]{}, err
		}
	}
	return p.derive(ParseLocation(target)), nil
}

// Delete removes p. A non empty directory is only removed with recursive set. A missing
// path is an error unless missingOK is set.
func (p Path[F]) Delete(recursive bool, missingOK bool) error {
	fi, err := p.Lstat()
	if err != nil {
		if missingOK && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if fi.IsDir() && recursive {
		return os.RemoveAll(p.String())
	}
	return os.Remove(p.String())
}

// copyTree copies the directory src to dst. Symlinks are recreated, not followed.
// A dst inside src is not copied into itself.
func copyTree(src string, dst string) error {
	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	dstAbs, err := filepath.Abs(dst)
	if err != nil {
		return err
	}

	return filepath.WalkDir(srcAbs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dstAbs {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(srcAbs, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dstAbs, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			if err := os.MkdirAll(target, info.Mode().Perm()|0700); err != nil {
				return err
			}
			return nil

		case info.Mode()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			if _, err := os.Lstat(target); err == nil {
				if err := os.Remove(target); err != nil {
					return err
				}
			}
			return os.Symlink(link, target)

		case info.Mode().IsRegular():
			return copyFile(path, target, info)
		}

		return fmt.Errorf("cannot copy %s: unsupported file type %s", path, info.Mode().Type())
	})
}

// copyFile copies the regular file src with info to dst, keeping mode and modification time.
func copyFile(src string, dst string, info fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
