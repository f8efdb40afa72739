package vocab

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/samcharles93/codeprep/internal/logger"
)

// Ext is the extension of persisted partial vocabularies.
const Ext = ".pvocab"

const tmpExt = ".tmp"

var (
	ErrCorrupt       = errors.New("vocab: corrupt partial vocabulary")
	ErrBrokenLineage = errors.New("vocab: unrecoverable merge lineage")
)

// Path returns the file name of the vocabulary with id in dir.
func Path(dir, id string) string {
	return filepath.Join(dir, id+Ext)
}

func lineagePath(dir, parent1, parent2, child string) string {
	return filepath.Join(dir, parent1+"_"+parent2+"_"+child+Ext)
}

// Save writes pv to path through a temporary file. The file only appears at
// path after it has been synced and read back.
func Save(path string, pv *PartialVocab) error {
	tmp := path + tmpExt
	if err := writeBlob(tmp, pv); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	got, err := Load(tmp)
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("verify %s: %w", path, err)
	}
	if got.ID != pv.ID || len(got.Counts) != len(pv.Counts) || got.Files != pv.Files {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: %s does not match what was written", ErrCorrupt, path)
	}
	return os.Rename(tmp, path)
}

func writeBlob(path string, pv *PartialVocab) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := json.NewEncoder(enc).Encode(pv); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load reads a vocabulary written by Save.
func Load(path string) (*PartialVocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	defer dec.Close()

	var pv PartialVocab
	if err := json.NewDecoder(dec).Decode(&pv); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if pv.ID == "" || pv.Counts == nil {
		return nil, fmt.Errorf("%w: %s: missing id or counts", ErrCorrupt, path)
	}
	return &pv, nil
}

// commitMerge persists child, the merge of the vocabularies stored at
// parent1 and parent2 in dir. The child is first written under its lineage
// name, then the parents are removed, then it is renamed to its own name.
// Recover can finish any step that was interrupted.
func commitMerge(dir string, parent1, parent2 string, child *PartialVocab) (string, error) {
	lineage := lineagePath(dir, parent1, parent2, child.ID)
	if err := Save(lineage, child); err != nil {
		return "", err
	}
	return finishLineage(dir, lineage, parent1, parent2, child.ID)
}

func finishLineage(dir, lineage, parent1, parent2, child string) (string, error) {
	for _, p := range []string{parent1, parent2} {
		if err := os.Remove(Path(dir, p)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	dst := Path(dir, child)
	if err := os.Rename(lineage, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// parseLineage splits "p1_p2_child" into its ids.
func parseLineage(name string) (parent1, parent2, child string, ok bool) {
	parts := strings.Split(name, "_")
	if len(parts) != 3 {
		return "", "", "", false
	}
	for _, p := range parts {
		if p == "" {
			return "", "", "", false
		}
	}
	return parts[0], parts[1], parts[2], true
}

// Recover brings dir back to a consistent set of vocabularies after an
// interrupted run and returns their paths, sorted. Temporary files are
// deleted. A lineage file that loads completes its merge; one that does not
// is deleted, which requires both parents to still be present.
func Recover(dir string, log logger.Logger) ([]string, error) {
	log = logger.OrDiscard(log)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(name, tmpExt) {
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				errs = append(errs, err)
			}
			log.Warn("removed partial write", "file", name)
			continue
		}
		if !strings.HasSuffix(name, Ext) {
			continue
		}
		p1, p2, child, ok := parseLineage(strings.TrimSuffix(name, Ext))
		if !ok {
			continue
		}
		path := filepath.Join(dir, name)
		if _, err := Load(path); err == nil {
			if _, err := finishLineage(dir, path, p1, p2, child); err != nil {
				errs = append(errs, err)
				continue
			}
			log.Warn("completed interrupted merge", "child", child)
			continue
		}
		if !exists(Path(dir, p1)) || !exists(Path(dir, p2)) {
			errs = append(errs, fmt.Errorf("%w: %s is unreadable and a parent is gone", ErrBrokenLineage, name))
			continue
		}
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
			continue
		}
		log.Warn("discarded unreadable merge, parents kept", "file", name)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return List(dir)
}

// List returns the vocabulary files in dir, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, Ext) {
			continue
		}
		if _, _, _, lineage := parseLineage(strings.TrimSuffix(name, Ext)); lineage {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	slices.Sort(out)
	return out, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
