// Package prep runs the configured passes over Java source and renders the
// result.
package prep

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samcharles93/codeprep/internal/corpus"
	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/noneng"
	"github.com/samcharles93/codeprep/internal/recognize"
	"github.com/samcharles93/codeprep/internal/render"
	"github.com/samcharles93/codeprep/internal/scanner"
	"github.com/samcharles93/codeprep/internal/split"
	"github.com/samcharles93/codeprep/internal/token"
)

// OutputExt is appended to every preprocessed file.
const OutputExt = ".prep"

const (
	passBlocks     = "loggable-blocks"
	passStatements = "log-statements"
	passNonEng     = "non-english"
	passSplit      = "split"
)

// Pass is one rewrite over a scanned file.
type Pass struct {
	Name string
	Run  func([]token.Token) ([]token.Token, error)
}

// Preprocessor is safe for concurrent use.
type Preprocessor struct {
	cfg      Config
	scan     *scanner.Scanner
	passes   []Pass
	render   render.Config
	sameCase *split.SameCase
	log      logger.Logger
}

// New validates cfg and builds the pass list. Passes whose output the key
// would not render are left out.
func New(cfg Config, res Resources) (*Preprocessor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.OrDiscard(res.Log)
	p := &Preprocessor{
		cfg:    cfg,
		scan:   scanner.New(log),
		render: cfg.RenderConfig(),
		log:    log,
	}

	if cfg.MarkLogs {
		blocks := recognize.NewBlocks(log)
		stmts := recognize.NewStatements(log)
		p.passes = append(p.passes,
			Pass{Name: passBlocks, Run: infallible(blocks.Rewrite)},
			Pass{Name: passStatements, Run: infallible(stmts.Rewrite)},
		)
	}
	if cfg.Split != split.LevelNone {
		s, err := split.New(cfg.Split, res.SameCase, res.Merges, res.MergeCache)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", cfg, err)
		}
		p.passes = append(p.passes, Pass{Name: passSplit, Run: s.Rewrite})
		if cfg.Split == split.LevelSameCase {
			p.sameCase = res.SameCase
		}
	}
	// Runs after splitting so each subword is tested on its own.
	if cfg.EnOnly {
		p.passes = append(p.passes, Pass{Name: passNonEng, Run: noneng.NewMarker(res.NonEng, log).Mark})
	}
	return p, nil
}

func infallible(fn func([]token.Token) []token.Token) func([]token.Token) ([]token.Token, error) {
	return func(t []token.Token) ([]token.Token, error) { return fn(t), nil }
}

func (p *Preprocessor) Config() Config { return p.cfg }

// Passes returns the pass names in run order, after scanning.
func (p *Preprocessor) Passes() []string {
	names := make([]string, len(p.passes))
	for i, ps := range p.passes {
		names[i] = ps.Name
	}
	return names
}

// Typos is the number of possible typos seen by same-case splitting.
func (p *Preprocessor) Typos() int64 {
	if p.sameCase == nil {
		return 0
	}
	return p.sameCase.Typos()
}

// Tokens scans lines and runs every pass.
func (p *Preprocessor) Tokens(lines []string) ([]token.Token, error) {
	toks := p.scan.Scan(lines)
	for _, ps := range p.passes {
		var err error
		toks, err = ps.Run(toks)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ps.Name, err)
		}
	}
	return toks, nil
}

// Preprocess returns the rendered symbols for lines.
func (p *Preprocessor) Preprocess(lines []string) ([]string, error) {
	toks, err := p.Tokens(lines)
	if err != nil {
		return nil, err
	}
	return render.Render(toks, p.render), nil
}

// BatchStats summarises a PreprocessFiles run.
type BatchStats struct {
	Files   int   `json:"files"`
	Failed  int   `json:"failed"`
	Symbols int64 `json:"symbols"`
	Typos   int64 `json:"typos"`
}

type fileTask struct {
	src string
	dst string
}

// PreprocessFiles writes one OutputExt file per input under outDir, keeping
// each file's path relative to root. Files are processed by workers
// goroutines; a failing file does not stop the others and all failures are
// returned joined.
func (p *Preprocessor) PreprocessFiles(ctx context.Context, root string, files []string, outDir string, workers int) (BatchStats, error) {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(files) {
		workers = len(files)
	}

	tasks := make(chan fileTask, workers*2)
	var (
		mu      sync.Mutex
		errs    []error
		done    atomic.Int64
		failed  atomic.Int64
		symbols atomic.Int64
		wg      sync.WaitGroup
	)
	typosBefore := p.Typos()

	for range workers {
		wg.Go(func() {
			for task := range tasks {
				n, err := p.preprocessFile(task)
				if err != nil {
					failed.Add(1)
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					p.log.Warn("preprocess failed", "file", task.src, "error", err)
					continue
				}
				done.Add(1)
				symbols.Add(int64(n))
			}
		})
	}

feed:
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(f)
		}
		select {
		case <-ctx.Done():
			break feed
		case tasks <- fileTask{src: f, dst: filepath.Join(outDir, rel+OutputExt)}:
		}
	}
	close(tasks)
	wg.Wait()

	stats := BatchStats{
		Files:   int(done.Load()),
		Failed:  int(failed.Load()),
		Symbols: symbols.Load(),
		Typos:   p.Typos() - typosBefore,
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	p.log.Info("preprocessed batch", "config", p.cfg.String(), "files", stats.Files, "failed", stats.Failed, "symbols", stats.Symbols, "typos", stats.Typos)
	return stats, errors.Join(errs...)
}

func (p *Preprocessor) preprocessFile(task fileTask) (int, error) {
	lines, err := corpus.ReadLines(task.src)
	if err != nil {
		return 0, err
	}
	symbols, err := p.Preprocess(lines)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", task.src, err)
	}
	if err := os.MkdirAll(filepath.Dir(task.dst), 0o755); err != nil {
		return 0, err
	}
	out := render.Join(symbols) + "\n"
	if err := os.WriteFile(task.dst, []byte(out), 0o644); err != nil {
		return 0, err
	}
	return len(symbols), nil
}
