package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A.java"), "class A {}")
	writeFile(t, filepath.Join(root, "pkg", "deep", "B.java"), "class B {}")
	writeFile(t, filepath.Join(root, "pkg", "notes.txt"), "x")

	got, err := Find(root, ".java")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(root, "A.java"),
		filepath.Join(root, "pkg", "deep", "B.java"),
	}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}

	if _, err := Find(root, ".kt"); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("got %v, want ErrNoFiles", err)
	}
	if _, err := Find(filepath.Join(root, "missing"), ".java"); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.java")
	writeFile(t, path, "line one\nline two\n")
	lines, err := ReadLines(path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(lines, []string{"line one", "line two", ""}) {
		t.Fatalf("got %q", lines)
	}

	empty := filepath.Join(dir, "empty.java")
	writeFile(t, empty, "")
	lines, err = ReadLines(empty)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(lines, []string{""}) {
		t.Fatalf("got %q", lines)
	}
}

func TestEachField(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.prep")
	writeFile(t, path, "  <w> get <Cap> name </w>\n\t<newline> x ")
	var got []string
	if err := EachField(path, func(s string) { got = append(got, s) }); err != nil {
		t.Fatal(err)
	}
	want := []string{"<w>", "get", "<Cap>", "name", "</w>", "<newline>", "x"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFileClose(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.txt")
	writeFile(t, path, "data")
	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(f.Data) != "data" {
		t.Fatalf("got %q", f.Data)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
