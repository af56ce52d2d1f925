package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio one per user, enforced by the unique index on user_id
type Portfolio struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string    `sql:"size:36" json:"trace_id,omitempty"`
	UserID    string    `sql:"size:36;unique_index:idx_portfolios_user_id" json:"user_id"`
	Name      string    `sql:"size:64" json:"name"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Holding one line item of a portfolio. The unique index on
// (portfolio_id, token_id) keeps one row per asset; an add of an
// already held asset replaces the amount in place.
type Holding struct {
	ID          uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	PortfolioID uint64          `sql:"unique_index:idx_holdings_portfolio_token" json:"portfolio_id"`
	TokenID     uint64          `sql:"unique_index:idx_holdings_portfolio_token" json:"token_id"`
	Amount      decimal.Decimal `sql:"type:decimal(32,12)" json:"amount"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// HoldingDetail holding expanded with its catalog entry at read time.
// Value is amount * price_usd, computed, never stored.
type HoldingDetail struct {
	Holding
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	ImageURL string          `json:"image_url,omitempty"`
	PriceUSD decimal.Decimal `json:"price_usd"`
	Value    decimal.Decimal `json:"value"`
}

// PortfolioDetail portfolio with expanded holdings
type PortfolioDetail struct {
	Portfolio
	Holdings   []*HoldingDetail `json:"holdings"`
	TotalValue decimal.Decimal  `json:"total_value"`
}

// PortfolioStore portfolio store interface
type PortfolioStore interface {
	// Create create the portfolio; ErrPortfolioExists when the user already owns one
	Create(ctx context.Context, portfolio *Portfolio) error
	// Find find by owner. A miss returns a portfolio with ID 0.
	Find(ctx context.Context, userID string) (*Portfolio, error)
	// FindByID find by primary key. A miss returns a portfolio with ID 0.
	FindByID(ctx context.Context, id uint64) (*Portfolio, error)
	// ListHoldings holdings of a portfolio in insertion order
	ListHoldings(ctx context.Context, portfolioID uint64) ([]*Holding, error)
	// FindHolding find one holding. A miss returns a holding with ID 0.
	FindHolding(ctx context.Context, portfolioID, tokenID uint64) (*Holding, error)
	// UpsertHolding set the amount of the holding, inserting the row if absent
	UpsertHolding(ctx context.Context, holding *Holding) error
	// UpdateHoldingAmount replace the amount in place; ErrHoldingNotFound when absent
	UpdateHoldingAmount(ctx context.Context, portfolioID, tokenID uint64, amount decimal.Decimal) error
	// RemoveHolding delete the holding; ErrHoldingNotFound when absent
	RemoveHolding(ctx context.Context, portfolioID, tokenID uint64) error
}

// PortfolioService portfolio reconciliation service interface
type PortfolioService interface {
	CreatePortfolio(ctx context.Context, userID, name string) (*Portfolio, error)
	AddToken(ctx context.Context, userID string, portfolioID uint64, chain Chain, contract string, amount decimal.Decimal) (*Token, *PortfolioDetail, error)
	UpdateAmount(ctx context.Context, userID string, portfolioID, tokenID uint64, amount decimal.Decimal) (*Holding, error)
	RemoveToken(ctx context.Context, userID string, portfolioID, tokenID uint64) error
	GetPortfolio(ctx context.Context, userID string) (*PortfolioDetail, error)
}
