package api

import (
	lru "github.com/hashicorp/golang-lru"
)

const defaultStoreSize = 1024

// ResultStore keeps the most recent stored results.
type ResultStore struct {
	cache *lru.Cache
}

func NewResultStore(size int) (*ResultStore, error) {
	if size <= 0 {
		size = defaultStoreSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ResultStore{cache: cache}, nil
}

func (s *ResultStore) Put(resp PreprocessResponse) {
	s.cache.Add(resp.ID, resp)
}

func (s *ResultStore) Get(id string) (PreprocessResponse, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return PreprocessResponse{}, false
	}
	return v.(PreprocessResponse), true
}

func (s *ResultStore) Delete(id string) bool {
	return s.cache.Remove(id)
}

func (s *ResultStore) Len() int {
	return s.cache.Len()
}
