package classpath

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"method-integrator/internal/match"
)

var (
	ErrClassNotFound = errors.New("class not found")
	ErrNameMismatch  = errors.New("class bytes define a different class")
)

// Source looks up raw class file bytes by class name. Names may use either
// "." or "/" as the package separator. A missing class is reported with an
// error wrapping ErrClassNotFound.
type Source interface {
	Find(className string) ([]byte, error)
}

// LoaderFunc adapts a lookup function to a Source.
type LoaderFunc func(className string) ([]byte, error)

// Find calls f(className).
func (f LoaderFunc) Find(className string) ([]byte, error) {
	return f(className)
}

// bytesSource serves a single class from memory.
type bytesSource struct {
	name string
	data []byte
}

// Bytes returns a Source that knows exactly one class.
func Bytes(className string, data []byte) Source {
	return &bytesSource{name: match.NormalizeClassName(className), data: data}
}

func (s *bytesSource) Find(className string) ([]byte, error) {
	if match.NormalizeClassName(className) != s.name {
		return nil, notFound(className)
	}
	return s.data, nil
}

func (s *bytesSource) String() string {
	return "bytes:" + s.name
}

// dirSource serves classes from a directory laid out by package.
type dirSource struct {
	root string
}

// Dir returns a Source reading <root>/<pkg path>/<Name>.class files.
func Dir(root string) Source {
	return &dirSource{root: root}
}

func (s *dirSource) Find(className string) ([]byte, error) {
	path := filepath.Join(s.root, filepath.FromSlash(ClassFilePath(className)))
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(className)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read class file %s: %w", path, err)
	}
	return data, nil
}

func (s *dirSource) String() string {
	return "dir:" + s.root
}

// jarSource serves classes from a jar (zip) archive. The archive is opened
// per lookup so the source holds no file handles.
type jarSource struct {
	path string
}

// Jar returns a Source reading class entries from a jar file.
func Jar(path string) Source {
	return &jarSource{path: path}
}

func (s *jarSource) Find(className string) ([]byte, error) {
	zr, err := zip.OpenReader(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open jar %s: %w", s.path, err)
	}
	defer zr.Close()

	entry := ClassFilePath(className)
	for _, f := range zr.File {
		if f.Name != entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in %s: %w", entry, s.path, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s in %s: %w", entry, s.path, err)
		}
		return data, nil
	}

	return nil, notFound(className)
}

func (s *jarSource) String() string {
	return "jar:" + s.path
}

// Sources chains several sources; the first one that knows a class wins.
type Sources []Source

// Find returns the bytes from the first source that has className. Errors
// other than ErrClassNotFound stop the search.
func (ss Sources) Find(className string) ([]byte, error) {
	for _, s := range ss {
		if s == nil {
			continue
		}
		data, err := s.Find(className)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrClassNotFound) {
			return nil, err
		}
	}
	return nil, notFound(className)
}

// Open builds a Source for a classpath entry: ".jar" and ".zip" files are
// read as archives, anything else as a class directory.
func Open(entry string) Source {
	ext := strings.ToLower(filepath.Ext(entry))
	if ext == ".jar" || ext == ".zip" {
		return Jar(entry)
	}
	return Dir(entry)
}

// OpenAll builds a chained Source from classpath entries.
func OpenAll(entries []string) Sources {
	ss := make(Sources, 0, len(entries))
	for _, e := range entries {
		ss = append(ss, Open(e))
	}
	return ss
}

// ClassFilePath returns the archive-relative path of a class file, e.g.
// "com/example/Widget.class".
func ClassFilePath(className string) string {
	return match.InternalClassName(className) + ".class"
}

func notFound(className string) error {
	return fmt.Errorf("%w: %s", ErrClassNotFound, match.NormalizeClassName(className))
}
