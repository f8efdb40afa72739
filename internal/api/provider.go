package api

import (
	"context"
	"strings"
	"sync"

	"github.com/samcharles93/codeprep/internal/logger"
	"github.com/samcharles93/codeprep/internal/prep"
)

// PreprocessorProvider hands out a Preprocessor for a config key.
type PreprocessorProvider interface {
	WithPreprocessor(ctx context.Context, key string, fn func(p *prep.Preprocessor) error) error
}

type ProviderConfig struct {
	// DefaultKey is used when a request names no config.
	DefaultKey string
	Paths      prep.Paths
	Log        logger.Logger
}

// CachedPreprocessorProvider builds one Preprocessor per key on first use.
type CachedPreprocessorProvider struct {
	cfg   ProviderConfig
	mu    sync.Mutex
	cache map[string]*prep.Preprocessor
}

func NewCachedPreprocessorProvider(cfg ProviderConfig) *CachedPreprocessorProvider {
	return &CachedPreprocessorProvider{
		cfg:   cfg,
		cache: make(map[string]*prep.Preprocessor),
	}
}

func (p *CachedPreprocessorProvider) WithPreprocessor(ctx context.Context, key string, fn func(p *prep.Preprocessor) error) error {
	cfg, err := p.resolveConfig(key)
	if err != nil {
		return err
	}
	pre, err := p.getOrLoad(cfg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(pre)
}

func (p *CachedPreprocessorProvider) resolveConfig(key string) (prep.Config, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = p.cfg.DefaultKey
	}
	if key == "" {
		return prep.Config{}, newInvalidRequest("config is required")
	}
	cfg, err := prep.ParseConfig(key)
	if err != nil {
		return prep.Config{}, newInvalidRequest(err.Error())
	}
	return cfg, nil
}

func (p *CachedPreprocessorProvider) getOrLoad(cfg prep.Config) (*prep.Preprocessor, error) {
	key := cfg.String()
	p.mu.Lock()
	pre, ok := p.cache[key]
	p.mu.Unlock()
	if ok {
		return pre, nil
	}

	res, err := prep.LoadResources(cfg, p.cfg.Paths, p.cfg.Log)
	if err != nil {
		return nil, err
	}
	loaded, err := prep.New(cfg, res)
	if err != nil {
		return nil, newInvalidRequest(err.Error())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.cache[key]; ok {
		return existing, nil
	}
	p.cache[key] = loaded
	return loaded, nil
}
