package token

import (
	"context"
	"fmt"

	"tokenfolio/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache wrap store with a read through lru cache. Catalog entries are
// immutable after creation, so cached rows never go stale.
func Cache(store core.TokenStore, capacity int) core.TokenStore {
	return &cacheTokenStore{
		TokenStore: store,
		cache:      gcache.New(capacity).LRU().Build(),
		sf:         &singleflight.Group{},
	}
}

type cacheTokenStore struct {
	core.TokenStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheTokenStore) Find(ctx context.Context, id uint64) (*core.Token, error) {
	key := s.idKey(id)
	if v, err := s.cache.Get(key); err == nil {
		if token, ok := v.(*core.Token); ok {
			return token, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		token, err := s.TokenStore.Find(ctx, id)
		if err != nil {
			return nil, err
		}
		if token.ID > 0 {
			s.cacheToken(token)
		}
		return token, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.Token), nil
}

func (s *cacheTokenStore) FindByAssetKey(ctx context.Context, assetKey string) (*core.Token, error) {
	key := s.assetKey(assetKey)
	if v, err := s.cache.Get(key); err == nil {
		if token, ok := v.(*core.Token); ok {
			return token, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		token, err := s.TokenStore.FindByAssetKey(ctx, assetKey)
		if err != nil {
			return nil, err
		}
		if token.ID > 0 {
			s.cacheToken(token)
		}
		return token, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.Token), nil
}

func (s *cacheTokenStore) CreateIfAbsent(ctx context.Context, token *core.Token) error {
	if err := s.TokenStore.CreateIfAbsent(ctx, token); err != nil {
		return err
	}

	s.cacheToken(token)
	return nil
}

func (s *cacheTokenStore) cacheToken(token *core.Token) {
	s.cache.Set(s.idKey(token.ID), token)
	s.cache.Set(s.assetKey(token.AssetKey), token)
}

func (s *cacheTokenStore) idKey(id uint64) string {
	return fmt.Sprintf("token:id:%d", id)
}

func (s *cacheTokenStore) assetKey(assetKey string) string {
	return fmt.Sprintf("token:key:%s", assetKey)
}
