package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/codeprep/internal/bpe"
	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/token"
	"github.com/samcharles93/codeprep/internal/vocab"
)

const (
	mergesFile     = "merges.txt"
	mergeCacheFile = "merges_cache.txt"
)

func learnBPECmd() *cli.Command {
	var (
		vocabPath    string
		outDir       string
		numMerges    int64
		minFrequency int64
	)

	return &cli.Command{
		Name:  "learn-bpe",
		Usage: "Learn a BPE merge table from a vocabulary file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "vocab",
				Usage:       "vocab.txt written by the vocab command",
				Required:    true,
				Destination: &vocabPath,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory for merges.txt and merges_cache.txt",
				Required:    true,
				Destination: &outDir,
			},
			&cli.Int64Flag{
				Name:        "merges",
				Aliases:     []string{"n"},
				Usage:       "number of merges to learn",
				Value:       10000,
				Destination: &numMerges,
			},
			&cli.Int64Flag{
				Name:        "min-frequency",
				Usage:       "stop once the best pair is rarer than this",
				Value:       2,
				Destination: &minFrequency,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)

			entries, err := vocab.LoadVocab(vocabPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			words := trainingWords(entries)
			log.Info("loaded vocabulary", "path", vocabPath, "entries", len(entries), "words", len(words))

			res, err := bpe.Train(ctx, words, bpe.Options{
				NumMerges:    int(numMerges),
				MinFrequency: int(minFrequency),
				Log:          log,
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if err := bpe.SaveMerges(filepath.Join(outDir, mergesFile), res.Merges); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if err := bpe.SaveCache(filepath.Join(outDir, mergeCacheFile), res.Cache); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			fmt.Printf("merges:  %d\n", len(res.Merges))
			fmt.Printf("output:  %s\n", outDir)
			return nil
		},
	}
}

// trainingWords drops placeholders, which are never split.
func trainingWords(entries []vocab.Entry) map[string]int {
	words := make(map[string]int, len(entries))
	for _, e := range entries {
		if token.IsPlaceholder(e.Word) {
			continue
		}
		words[e.Word] += int(e.Count)
	}
	return words
}
