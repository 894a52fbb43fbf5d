// Package fsys is a small filesystem collaborator: one capability,
// reading a source file by path, kept behind an interface so the core
// compilation path (which always receives pre-loaded source text) never
// has to import os directly. Discovering and loading imported modules
// through this collaborator is left unbuilt; only single-file compiles
// are wired up.
package fsys

import (
	"os"
	"path"
	"path/filepath"
)

// FileSystem reads source text by path, given as a sequence of path
// components rather than a pre-joined string, so callers never have to
// worry about separator conventions.
type FileSystem interface {
	ReadFile(components ...string) (text string, ok bool)
}

// OS reads from the real filesystem rooted at Root.
type OS struct {
	Root string
}

func (fs OS) ReadFile(components ...string) (string, bool) {
	path := filepath.Join(append([]string{fs.Root}, components...)...)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Mock serves fixed file contents from memory, for tests that exercise
// code paths depending on FileSystem without touching disk.
type Mock struct {
	Files map[string]string // joined path ("/"-separated) -> contents
}

func (fs Mock) ReadFile(components ...string) (string, bool) {
	key := path.Join(components...)
	text, ok := fs.Files[key]
	return text, ok
}
