// Package corpus finds and reads corpus files.
package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yargevad/filepathx"
	"golang.org/x/sys/unix"
)

var (
	ErrNoFiles  = errors.New("corpus: no files matched")
	ErrTooLarge = errors.New("corpus: file too large to map")
)

// Find returns the regular files under root whose names end in one of
// exts, sorted. root must exist.
func Find(root string, exts ...string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("corpus root: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	if len(exts) == 0 {
		exts = []string{""}
	}

	seen := make(map[string]struct{})
	var files []string
	for _, ext := range exts {
		matches, err := filepathx.Glob(filepath.Join(root, "**", "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", root, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			if fi, err := os.Stat(m); err != nil || !fi.Mode().IsRegular() {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNoFiles, root, strings.Join(exts, ","))
	}
	slices.Sort(files)
	return files, nil
}

// File is a read-only view of a file's bytes.
type File struct {
	Data    []byte
	mmapped bool
}

// Open maps path read-only. When mmap is unavailable (or the file is empty)
// the bytes are read instead. The returned file must be closed.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, path)
	}
	size := int(size64)

	if size > 0 {
		data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
		if err == nil {
			return &File{Data: data, mmapped: true}, nil
		}
	}

	data, err := readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	return &File{Data: data}, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

// Close releases the mapping.
func (f *File) Close() error {
	if f == nil || f.Data == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.Data)
	}
	f.Data = nil
	f.mmapped = false
	return err
}

// ReadText returns the file's contents as a string.
func ReadText(path string) (string, error) {
	f, err := Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return string(f.Data), nil
}

// ReadLines splits the file on "\n". A trailing newline yields a final empty
// line, so joining the lines with "\n" restores the file.
func ReadLines(path string) ([]string, error) {
	text, err := ReadText(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(text, "\n"), nil
}

// EachField calls fn for every whitespace-separated field of the file. The
// strings passed to fn are copies and stay valid after the file is closed.
func EachField(path string, fn func(string)) error {
	f, err := Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	data := f.Data
	for len(data) > 0 {
		i := 0
		for i < len(data) && isSpace(data[i]) {
			i++
		}
		j := i
		for j < len(data) && !isSpace(data[j]) {
			j++
		}
		if j > i {
			fn(string(data[i:j]))
		}
		data = data[j:]
	}
	return nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r' || b == '\v' || b == '\f'
}
