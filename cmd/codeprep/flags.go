package main

import (
	"runtime"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/codeprep/internal/prep"
)

var (
	configKey      string
	dictPath       string
	nonEngDictPath string
	mergesPath     string
	mergeCachePath string
	workers        int64
	logLevel       string
	logFormat      string
	debug          bool
)

func configKeyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"k"},
		Usage:       "representation key: en_only com_str split sep case tabs logs",
		Value:       "0021101",
		Destination: &configKey,
	}
}

func resourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dictionary",
			Aliases:     []string{"dict"},
			Usage:       "word frequency file for same-case splitting (split=3)",
			Destination: &dictPath,
		},
		&cli.StringFlag{
			Name:        "non-eng-dictionary",
			Usage:       "one word per line; words to treat as non-English (en_only=1)",
			Destination: &nonEngDictPath,
		},
		&cli.StringFlag{
			Name:        "merges",
			Usage:       "BPE merge table (split=4..8)",
			Destination: &mergesPath,
		},
		&cli.StringFlag{
			Name:        "merge-cache",
			Usage:       "precomputed BPE splits for the full merge table",
			Destination: &mergeCachePath,
		},
	}
}

func resourcePaths() prep.Paths {
	return prep.Paths{
		Dictionary: dictPath,
		NonEng:     nonEngDictPath,
		Merges:     mergesPath,
		MergeCache: mergeCachePath,
	}
}

func workersFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:        "workers",
		Aliases:     []string{"j"},
		Usage:       "parallel workers",
		Value:       int64(runtime.NumCPU()),
		Destination: &workers,
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
