package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/codeprep/internal/corpus"
	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/prep"
	"github.com/samcharles93/codeprep/internal/split"
)

func prepCmd() *cli.Command {
	var (
		outDir string
		exts   []string
	)

	return &cli.Command{
		Name:      "prep",
		Usage:     "Preprocess Java sources into one .prep file per input",
		ArgsUsage: "<path> [path...]",
		Flags: append([]cli.Flag{
			configKeyFlag(),
			workersFlag(),
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory (default: <path>_<key>)",
				Destination: &outDir,
			},
			&cli.StringSliceFlag{
				Name:        "ext",
				Usage:       "source file extensions",
				Value:       []string{".java"},
				Destination: &exts,
			},
		}, resourceFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			applyPrepConfig(c, LoadConfig())
			log := logger.FromContext(ctx)

			roots := c.Args().Slice()
			if len(roots) == 0 {
				return cli.Exit("error: at least one source path is required", 1)
			}
			if outDir != "" && len(roots) > 1 {
				return cli.Exit("error: --out is ambiguous with more than one source path", 1)
			}

			cfg, err := prep.ParseConfig(configKey)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			res, err := prep.LoadResources(cfg, resourcePaths(), log)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load resources: %v", err), 1)
			}
			pre, err := prep.New(cfg, res)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			var total prep.BatchStats
			var errs []error
			start := time.Now()
			for _, root := range roots {
				files, err := corpus.Find(root, exts...)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", root, err))
					continue
				}
				out := outDir
				if out == "" {
					out = defaultPrepOut(root, cfg)
				}
				base := root
				if info, err := os.Stat(root); err == nil && !info.IsDir() {
					base = filepath.Dir(root)
				}
				stats, err := pre.PreprocessFiles(ctx, base, files, out, int(workers))
				total.Files += stats.Files
				total.Failed += stats.Failed
				total.Symbols += stats.Symbols
				total.Typos += stats.Typos
				if err != nil {
					errs = append(errs, err)
				}
				log.Info("wrote", "path", root, "out", out, "files", stats.Files)
			}

			fmt.Printf("config:   %s\n", cfg)
			fmt.Printf("files:    %d (%d failed)\n", total.Files, total.Failed)
			fmt.Printf("symbols:  %d\n", total.Symbols)
			if cfg.Split == split.LevelSameCase {
				fmt.Printf("typos:    %d\n", total.Typos)
			}
			fmt.Printf("elapsed:  %s\n", time.Since(start).Round(time.Millisecond))

			if err := errors.Join(errs...); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return nil
		},
	}
}

// defaultPrepOut places output next to the input, suffixed with the key.
func defaultPrepOut(root string, cfg prep.Config) string {
	clean := filepath.Clean(root)
	if info, err := os.Stat(clean); err == nil && !info.IsDir() {
		clean = filepath.Dir(clean)
	}
	return clean + "_" + cfg.String()
}
