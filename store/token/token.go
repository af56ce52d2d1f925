package token

import (
	"context"

	"tokenfolio/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type tokenStore struct {
	db *db.DB
}

// New new token catalog store
func New(db *db.DB) core.TokenStore {
	return &tokenStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Token{})

		if err := tx.AutoMigrate(core.Token{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_tokens_asset_key", "asset_key").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *tokenStore) Find(ctx context.Context, id uint64) (*core.Token, error) {
	var token core.Token

	err := s.db.View().Where("id = ?", id).First(&token).Error
	if store.IsErrNotFound(err) {
		return &core.Token{}, nil
	}

	return &token, err
}

func (s *tokenStore) FindByAssetKey(ctx context.Context, assetKey string) (*core.Token, error) {
	var token core.Token

	err := s.db.View().Where("asset_key = ?", assetKey).First(&token).Error
	if store.IsErrNotFound(err) {
		return &core.Token{}, nil
	}

	return &token, err
}

// CreateIfAbsent the unique index on asset_key is the only cross process
// coordination: a create that loses the race re-reads the winning row
// instead of failing the caller.
func (s *tokenStore) CreateIfAbsent(ctx context.Context, token *core.Token) error {
	if err := s.db.Update().Where("asset_key = ?", token.AssetKey).FirstOrCreate(token).Error; err != nil {
		var winner core.Token
		if e := s.db.View().Where("asset_key = ?", token.AssetKey).First(&winner).Error; e == nil && winner.ID > 0 {
			*token = winner
			return nil
		}

		return err
	}

	return nil
}

func (s *tokenStore) All(ctx context.Context) ([]*core.Token, error) {
	var tokens []*core.Token
	if err := s.db.View().Order("id ASC").Find(&tokens).Error; err != nil {
		return nil, err
	}

	return tokens, nil
}
