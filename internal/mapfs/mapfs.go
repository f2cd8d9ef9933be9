// Package mapfs presents a list of files scattered over the OS
// filesystem as one flat fs.FS, so they can be analysed like a directory.
package mapfs

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
)

// MapFS maps base names to OS paths.
type MapFS map[string]string

var _ fs.FS = MapFS(nil)

// Add registers path under its base name. Two different files with the
// same base name cannot share a MapFS.
func (m MapFS) Add(path string) error {
	name := filepath.Base(path)
	if existing, ok := m[name]; ok && existing != path {
		return errors.Errorf("%s and %s have the same name", existing, path)
	}
	if _, err := os.Stat(path); err != nil {
		return errors.WithStack(err)
	}
	m[name] = path
	return nil
}

func (m MapFS) Open(name string) (fs.File, error) {
	if name == "." {
		var entries []fs.DirEntry
		for base, path := range m {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			entries = append(entries, fs.FileInfoToDirEntry(renamed{FileInfo: info, name: base}))
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Name() < entries[j].Name()
		})
		return &root{entries: entries}, nil
	}

	path, ok := m[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return os.Open(path)
}

// renamed reports a file under its name in the MapFS.
type renamed struct {
	fs.FileInfo
	name string
}

func (r renamed) Name() string { return r.name }

// root is the only directory of a MapFS.
type root struct {
	entries []fs.DirEntry
	pos     int
}

func (d *root) Stat() (fs.FileInfo, error) { return rootInfo{}, nil }
func (d *root) Read([]byte) (int, error)   { return 0, io.EOF }
func (d *root) Close() error               { return nil }

func (d *root) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.pos:]
	if n <= 0 {
		d.pos = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.pos += n
	return rest[:n], nil
}

type rootInfo struct{}

func (rootInfo) Name() string       { return "." }
func (rootInfo) Size() int64        { return 0 }
func (rootInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o555 }
func (rootInfo) ModTime() time.Time { return time.Time{} }
func (rootInfo) IsDir() bool        { return true }
func (rootInfo) Sys() any           { return nil }
