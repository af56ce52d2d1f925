package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Token catalog entry, one fungible asset shared across all portfolios.
// Created lazily on first reference, never mutated or deleted afterwards;
// price_usd is the snapshot taken at creation time.
type Token struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	AssetKey  string          `sql:"size:160;unique_index:idx_tokens_asset_key" json:"asset_key"`
	Chain     string          `sql:"size:32" json:"chain"`
	Contract  string          `sql:"size:128" json:"contract"`
	Symbol    string          `sql:"size:32" json:"symbol"`
	Name      string          `sql:"size:128" json:"name"`
	PriceUSD  decimal.Decimal `sql:"type:decimal(32,12)" json:"price_usd"`
	ImageURL  string          `sql:"size:512" json:"image_url,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TokenQuote metadata and price resolved from the upstream market data api
type TokenQuote struct {
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	PriceUSD decimal.Decimal `json:"price_usd"`
	ImageURL string          `json:"image_url"`
}

// TokenStore token catalog store interface
type TokenStore interface {
	// Find find by primary key. A miss returns a token with ID 0.
	Find(ctx context.Context, id uint64) (*Token, error)
	// FindByAssetKey find by chain qualified id. A miss returns a token with ID 0.
	FindByAssetKey(ctx context.Context, assetKey string) (*Token, error)
	// CreateIfAbsent insert the entry; when a concurrent caller already
	// cataloged the same asset key, load the winning row into token instead.
	CreateIfAbsent(ctx context.Context, token *Token) error
	All(ctx context.Context) ([]*Token, error)
}

// QuoteService resolves token metadata and price from the upstream provider.
// Fails with ErrQuoteUnavailable on network/non-2xx errors and with
// ErrQuoteMalformed when required fields are missing. No automatic retry.
type QuoteService interface {
	Quote(ctx context.Context, chain Chain, contract string) (*TokenQuote, error)
}
