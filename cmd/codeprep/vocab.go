package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/codeprep/internal/corpus"
	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/prep"
	"github.com/samcharles93/codeprep/internal/vocab"
)

func vocabCmd() *cli.Command {
	var (
		outDir         string
		workDir        string
		chunks         int64
		maxVocab       int64
		partnerTimeout time.Duration
		shuffle        bool
		seed           uint64
		keepWork       bool
		resume         bool
	)

	return &cli.Command{
		Name:      "vocab",
		Usage:     "Count symbols in preprocessed files and write the vocabulary",
		ArgsUsage: "<path> [path...]",
		Flags: []cli.Flag{
			workersFlag(),
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory for vocab.txt, vocabsize.txt and field.json",
				Required:    true,
				Destination: &outDir,
			},
			&cli.StringFlag{
				Name:        "work-dir",
				Usage:       "directory for partial vocabularies (default: <out>/.partial)",
				Destination: &workDir,
			},
			&cli.Int64Flag{
				Name:        "chunks",
				Usage:       "number of independent merge groups",
				Value:       1,
				Destination: &chunks,
			},
			&cli.Int64Flag{
				Name:        "max-vocab",
				Usage:       "also write vocab.trunc.txt with at most this many entries (0 disables)",
				Destination: &maxVocab,
			},
			&cli.DurationFlag{
				Name:        "partner-timeout",
				Usage:       "how long a merge waits for a second partial vocabulary",
				Value:       vocab.DefaultPartnerTimeout,
				Destination: &partnerTimeout,
			},
			&cli.BoolFlag{
				Name:        "shuffle",
				Usage:       "deal files to chunks in random order",
				Destination: &shuffle,
			},
			&cli.Uint64Flag{
				Name:        "seed",
				Usage:       "shuffle seed",
				Destination: &seed,
			},
			&cli.BoolFlag{
				Name:        "keep-work",
				Usage:       "keep partial vocabularies after a successful run",
				Destination: &keepWork,
			},
			&cli.BoolFlag{
				Name:        "resume",
				Usage:       "finish an interrupted run from its work directory",
				Destination: &resume,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			applyVocabConfig(c, LoadConfig(), &chunks, &maxVocab, &workDir)
			log := logger.FromContext(ctx)

			if workDir == "" {
				workDir = filepath.Join(outDir, ".partial")
			}
			agg := &vocab.Aggregator{
				Workers:        int(workers),
				Chunks:         int(chunks),
				MaxVocab:       int(maxVocab),
				PartnerTimeout: partnerTimeout,
				WorkDir:        workDir,
				OutDir:         outDir,
				Shuffle:        shuffle,
				Seed:           seed,
				KeepWork:       keepWork,
				Log:            log,
			}

			start := time.Now()
			var (
				pv  *vocab.PartialVocab
				err error
			)
			if resume {
				pv, err = agg.Resume(ctx)
			} else {
				files, ferr := findPrepFiles(c.Args().Slice())
				if ferr != nil {
					return cli.Exit(fmt.Sprintf("error: %v", ferr), 1)
				}
				log.Info("found preprocessed files", "files", len(files))
				pv, err = agg.Run(ctx, files)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			fmt.Printf("files:      %d\n", pv.Files)
			fmt.Printf("vocab size: %d\n", len(pv.Counts))
			fmt.Printf("output:     %s\n", outDir)
			fmt.Printf("elapsed:    %s\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func findPrepFiles(roots []string) ([]string, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("at least one path with %s files is required", prep.OutputExt)
	}
	var files []string
	for _, root := range roots {
		found, err := corpus.Find(root, prep.OutputExt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", root, err)
		}
		files = append(files, found...)
	}
	return files, nil
}
