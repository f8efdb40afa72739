package vocab

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/samcharles93/codeprep/internal/logger"
)

// DefaultPartnerTimeout bounds how long a worker waits for the second
// vocabulary of a merge.
const DefaultPartnerTimeout = 10 * time.Minute

var (
	ErrWorkDirInUse = errors.New("vocab: work directory holds a previous run")
	ErrNothingToDo  = errors.New("vocab: no vocabularies to merge")
	errNoPartner    = errors.New("vocab: no merge partner")
)

const shutdown = -1

// Aggregator builds one vocabulary from many rendered files. Each file is
// counted into its own PartialVocab and assigned to a chunk; workers merge
// the vocabularies of each chunk pairwise and the last worker standing
// merges the chunks and writes the artifacts.
type Aggregator struct {
	Workers        int
	Chunks         int
	MaxVocab       int
	PartnerTimeout time.Duration
	// WorkDir holds the partial vocabularies, one subdirectory per chunk.
	WorkDir string
	OutDir  string
	// Shuffle deals files to chunks in a random order seeded with Seed.
	Shuffle bool
	Seed    uint64
	// KeepWork leaves WorkDir in place after a successful run.
	KeepWork bool
	Log      logger.Logger
}

func (a *Aggregator) workers() int {
	if a.Workers > 0 {
		return a.Workers
	}
	return runtime.NumCPU()
}

func (a *Aggregator) log() logger.Logger { return logger.OrDiscard(a.Log) }

func (a *Aggregator) chunkDir(c int) string {
	return filepath.Join(a.WorkDir, fmt.Sprintf("chunk-%03d", c))
}

// Run counts files and reduces them to the final vocabulary.
func (a *Aggregator) Run(ctx context.Context, files []string) (*PartialVocab, error) {
	if len(files) == 0 {
		return nil, ErrNothingToDo
	}
	if err := checkOutDir(a.OutDir); err != nil {
		return nil, err
	}
	if dirs, _ := filepath.Glob(filepath.Join(a.WorkDir, "chunk-*")); len(dirs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrWorkDirInUse, a.WorkDir)
	}

	sizes := make([]int64, len(files))
	for i, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, err
		}
		sizes[i] = info.Size()
	}
	var rng *rand.Rand
	if a.Shuffle {
		rng = rand.New(rand.NewPCG(a.Seed, a.Seed))
	}
	chunks := FitChunks(sizes, max(a.Chunks, 1), rng)

	paths, err := a.count(ctx, files, chunks)
	if err != nil {
		return nil, err
	}
	return a.reduce(ctx, paths)
}

// Resume recovers the work directory of an interrupted run and finishes it.
func (a *Aggregator) Resume(ctx context.Context) (*PartialVocab, error) {
	if err := checkOutDir(a.OutDir); err != nil {
		return nil, err
	}
	dirs, err := filepath.Glob(filepath.Join(a.WorkDir, "chunk-*"))
	if err != nil {
		return nil, err
	}
	var paths [][]string
	for _, dir := range dirs {
		recovered, err := Recover(dir, a.log())
		if err != nil {
			return nil, err
		}
		if len(recovered) > 0 {
			paths = append(paths, recovered)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNothingToDo, a.WorkDir)
	}
	a.log().Info("resuming aggregation", "chunks", len(paths))
	return a.reduce(ctx, paths)
}

type countTask struct {
	file  string
	chunk int
}

// count builds and persists one PartialVocab per file.
func (a *Aggregator) count(ctx context.Context, files []string, chunks [][]int) ([][]string, error) {
	for c := range chunks {
		if err := os.MkdirAll(a.chunkDir(c), 0o755); err != nil {
			return nil, err
		}
	}

	workers := min(a.workers(), len(files))
	tasks := make(chan countTask, workers*2)
	paths := make([][]string, len(chunks))
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Go(func() {
			for task := range tasks {
				pv, err := FromFile(task.file)
				if err == nil {
					path := Path(a.chunkDir(task.chunk), pv.ID)
					if err = Save(path, pv); err == nil {
						mu.Lock()
						paths[task.chunk] = append(paths[task.chunk], path)
						mu.Unlock()
						continue
					}
				}
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", task.file, err))
				mu.Unlock()
			}
		})
	}

feed:
	for c, idxs := range chunks {
		for _, i := range idxs {
			select {
			case <-ctx.Done():
				break feed
			case tasks <- countTask{file: files[i], chunk: c}:
			}
		}
	}
	close(tasks)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	out := paths[:0]
	for _, p := range paths {
		if len(p) > 0 {
			out = append(out, p)
		}
	}
	a.log().Info("counted files", "files", len(files), "chunks", len(out))
	return out, nil
}

type reduction struct {
	agg         *Aggregator
	queues      []chan string
	assign      chan int
	workersLeft atomic.Int32
	mergesLeft  atomic.Int64
	progress    rate.Sometimes

	mu     sync.Mutex
	errs   []error
	result *PartialVocab
}

// reduce merges every chunk down to one vocabulary, then merges the chunks.
func (a *Aggregator) reduce(ctx context.Context, chunks [][]string) (*PartialVocab, error) {
	workers := a.workers()
	r := &reduction{
		agg:      a,
		queues:   make([]chan string, len(chunks)),
		progress: rate.Sometimes{Interval: 5 * time.Second},
	}

	var merges int
	for c, paths := range chunks {
		r.queues[c] = make(chan string, len(paths))
		for _, p := range paths {
			r.queues[c] <- p
		}
		merges += len(paths) - 1
	}
	r.assign = make(chan int, merges+workers)
	for c, paths := range chunks {
		for range len(paths) - 1 {
			r.assign <- c
		}
	}
	for range workers {
		r.assign <- shutdown
	}
	r.workersLeft.Store(int32(workers))
	r.mergesLeft.Store(int64(merges))
	a.log().Info("merging partial vocabularies", "chunks", len(chunks), "merges", merges, "workers", workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() { r.work(ctx) })
	}
	wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := errors.Join(r.errs...); err != nil {
		return r.result, err
	}
	if !a.KeepWork {
		if err := os.RemoveAll(a.WorkDir); err != nil {
			return r.result, err
		}
	}
	return r.result, nil
}

func (r *reduction) fail(err error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

// work runs one worker until it takes a shutdown sentinel, fails, or gives
// up waiting for a partner. The last worker to stop merges the chunks.
func (r *reduction) work(ctx context.Context) {
	defer func() {
		if r.workersLeft.Add(-1) == 0 {
			r.finish()
		}
	}()

	for {
		var c int
		select {
		case <-ctx.Done():
			r.fail(ctx.Err())
			return
		case c = <-r.assign:
		}
		if c == shutdown {
			return
		}

		err := r.merge(ctx, c)
		switch {
		case err == nil:
			left := r.mergesLeft.Add(-1)
			r.progress.Do(func() {
				r.agg.log().Info("merge progress", "merges_left", left)
			})
		case errors.Is(err, errNoPartner):
			r.assign <- c
			r.agg.log().Warn("no merge partner, worker exiting", "chunk", c)
			return
		default:
			r.fail(err)
			return
		}
	}
}

// merge pops two vocabularies of chunk c, merges them, and queues the
// result. On failure the inputs that still exist go back on the queue.
func (r *reduction) merge(ctx context.Context, c int) error {
	q := r.queues[c]
	first, err := r.pop(ctx, q)
	if err != nil {
		return err
	}
	second, err := r.pop(ctx, q)
	if err != nil {
		q <- first
		return err
	}

	child, err := r.mergeFiles(first, second)
	if err != nil {
		for _, p := range []string{first, second} {
			if exists(p) {
				q <- p
			}
		}
		return err
	}
	q <- child
	return nil
}

func (r *reduction) mergeFiles(first, second string) (string, error) {
	pa, err := Load(first)
	if err != nil {
		return "", err
	}
	pb, err := Load(second)
	if err != nil {
		return "", err
	}
	child := Merge(pa, pb)
	return commitMerge(filepath.Dir(first), idOf(first), idOf(second), child)
}

func (r *reduction) pop(ctx context.Context, q chan string) (string, error) {
	timeout := r.agg.PartnerTimeout
	if timeout <= 0 {
		timeout = DefaultPartnerTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case p := <-q:
		return p, nil
	case <-timer.C:
		return "", errNoPartner
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// finish merges whatever each chunk queue still holds, in chunk order, and
// writes the artifacts. Only the last worker calls it.
func (r *reduction) finish() {
	var acc *PartialVocab
	for _, q := range r.queues {
	drain:
		for {
			select {
			case p := <-q:
				pv, err := Load(p)
				if err != nil {
					r.fail(err)
					return
				}
				if acc == nil {
					acc = pv
				} else {
					acc = Merge(acc, pv)
				}
			default:
				break drain
			}
		}
	}
	if acc == nil {
		r.fail(ErrNothingToDo)
		return
	}

	r.mu.Lock()
	failed := len(r.errs) > 0
	r.mu.Unlock()
	if failed {
		r.setResult(acc)
		return
	}
	if err := WriteArtifacts(r.agg.OutDir, acc, r.agg.MaxVocab); err != nil {
		r.fail(err)
		return
	}
	r.agg.log().Info("wrote vocabulary", "dir", r.agg.OutDir, "files", acc.Files, "size", len(acc.Counts))
	r.setResult(acc)
}

func (r *reduction) setResult(pv *PartialVocab) {
	r.mu.Lock()
	r.result = pv
	r.mu.Unlock()
}

func idOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Ext)
}
