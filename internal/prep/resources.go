package prep

import (
	"fmt"

	"github.com/samcharles93/codeprep/internal/bpe"
	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/noneng"
	"github.com/samcharles93/codeprep/internal/split"
)

// Resources holds the loaded models a Preprocessor may need. Fields the key
// does not use may be nil.
type Resources struct {
	SameCase   *split.SameCase
	NonEng     *noneng.Dictionary
	Merges     *bpe.MergeTable
	MergeCache map[string][]string
	Log        logger.Logger
}

// Paths names resource files on disk. Empty paths are skipped.
type Paths struct {
	Dictionary string `yaml:"dictionary" json:"dictionary,omitempty"`
	NonEng     string `yaml:"non_eng" json:"non_eng,omitempty"`
	Merges     string `yaml:"merges" json:"merges,omitempty"`
	MergeCache string `yaml:"merge_cache" json:"merge_cache,omitempty"`
}

// LoadResources loads what cfg needs from paths. A resource the key needs
// but paths does not name is reported when the Preprocessor is built.
func LoadResources(cfg Config, paths Paths, log logger.Logger) (Resources, error) {
	log = logger.OrDiscard(log)
	res := Resources{Log: log}

	if cfg.Split == split.LevelSameCase && paths.Dictionary != "" {
		dict, err := split.LoadDictionary(paths.Dictionary)
		if err != nil {
			return Resources{}, fmt.Errorf("load dictionary: %w", err)
		}
		sc, err := split.NewSameCase(dict, split.DefaultScorerParams(), 0, log)
		if err != nil {
			return Resources{}, err
		}
		res.SameCase = sc
		log.Info("loaded dictionary", "path", paths.Dictionary, "words", dict.Len())
	}

	if cfg.EnOnly && paths.NonEng != "" {
		dict, err := noneng.LoadDictionary(paths.NonEng)
		if err != nil {
			return Resources{}, fmt.Errorf("load non-English dictionary: %w", err)
		}
		res.NonEng = dict
		log.Info("loaded non-English dictionary", "path", paths.NonEng, "words", dict.Len())
	}

	if cfg.Split.IsBPE() && cfg.Split != split.LevelChars {
		if paths.Merges != "" {
			table, err := bpe.LoadMerges(paths.Merges)
			if err != nil {
				return Resources{}, fmt.Errorf("load merges: %w", err)
			}
			res.Merges = table
			log.Info("loaded merges", "path", paths.Merges, "merges", table.Len())
		}
		if paths.MergeCache != "" {
			cache, err := bpe.LoadCache(paths.MergeCache)
			if err != nil {
				return Resources{}, fmt.Errorf("load merge cache: %w", err)
			}
			res.MergeCache = cache
		}
	}
	return res, nil
}
