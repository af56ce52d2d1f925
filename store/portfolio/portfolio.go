package portfolio

import (
	"context"

	"tokenfolio/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type portfolioStore struct {
	db *db.DB
}

// New new portfolio store
func New(db *db.DB) core.PortfolioStore {
	return &portfolioStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Portfolio{})

		if err := tx.AutoMigrate(core.Portfolio{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_portfolios_user_id", "user_id").Error; err != nil {
			return err
		}

		hx := db.Update().Model(core.Holding{})

		if err := hx.AutoMigrate(core.Holding{}).Error; err != nil {
			return err
		}

		if err := hx.AddUniqueIndex("idx_holdings_portfolio_token", "portfolio_id", "token_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *portfolioStore) Create(ctx context.Context, portfolio *core.Portfolio) error {
	if err := s.db.Update().Create(portfolio).Error; err != nil {
		// the unique index on user_id decides the one-portfolio-per-user race
		var existing core.Portfolio
		if e := s.db.View().Where("user_id = ?", portfolio.UserID).First(&existing).Error; e == nil && existing.ID > 0 {
			return core.ErrPortfolioExists
		}

		return err
	}

	return nil
}

func (s *portfolioStore) Find(ctx context.Context, userID string) (*core.Portfolio, error) {
	var portfolio core.Portfolio

	err := s.db.View().Where("user_id = ?", userID).First(&portfolio).Error
	if store.IsErrNotFound(err) {
		return &core.Portfolio{}, nil
	}

	return &portfolio, err
}

func (s *portfolioStore) FindByID(ctx context.Context, id uint64) (*core.Portfolio, error) {
	var portfolio core.Portfolio

	err := s.db.View().Where("id = ?", id).First(&portfolio).Error
	if store.IsErrNotFound(err) {
		return &core.Portfolio{}, nil
	}

	return &portfolio, err
}

func (s *portfolioStore) ListHoldings(ctx context.Context, portfolioID uint64) ([]*core.Holding, error) {
	var holdings []*core.Holding
	if err := s.db.View().Where("portfolio_id = ?", portfolioID).Order("id ASC").Find(&holdings).Error; err != nil {
		return nil, err
	}

	return holdings, nil
}

func (s *portfolioStore) FindHolding(ctx context.Context, portfolioID, tokenID uint64) (*core.Holding, error) {
	var holding core.Holding

	err := s.db.View().Where("portfolio_id = ? AND token_id = ?", portfolioID, tokenID).First(&holding).Error
	if store.IsErrNotFound(err) {
		return &core.Holding{}, nil
	}

	return &holding, err
}

// UpsertHolding conditional update first, insert on zero rows, and when the
// insert loses a concurrent race the surviving row takes the amount. Never a
// fetch-then-save, so rapid successive edits cannot drop each other.
func (s *portfolioStore) UpsertHolding(ctx context.Context, holding *core.Holding) error {
	return s.db.Tx(func(tx *db.DB) error {
		update := tx.Update().Model(core.Holding{}).
			Where("portfolio_id = ? AND token_id = ?", holding.PortfolioID, holding.TokenID).
			Update("amount", holding.Amount)
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected > 0 {
			return nil
		}

		if err := tx.Update().Create(holding).Error; err != nil {
			retry := tx.Update().Model(core.Holding{}).
				Where("portfolio_id = ? AND token_id = ?", holding.PortfolioID, holding.TokenID).
				Update("amount", holding.Amount)
			if retry.Error != nil {
				return retry.Error
			}
			if retry.RowsAffected == 0 {
				// zero rows is also what mysql reports when the stored amount
				// already equals the new one; only a missing row is a failure
				var existing core.Holding
				if e := tx.View().Where("portfolio_id = ? AND token_id = ?", holding.PortfolioID, holding.TokenID).First(&existing).Error; e != nil || existing.ID == 0 {
					return err
				}
			}
		}

		return nil
	})
}

func (s *portfolioStore) UpdateHoldingAmount(ctx context.Context, portfolioID, tokenID uint64, amount decimal.Decimal) error {
	tx := s.db.Update().Model(core.Holding{}).
		Where("portfolio_id = ? AND token_id = ?", portfolioID, tokenID).
		Update("amount", amount)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		// distinguish an absent row from a same-value update
		holding, err := s.FindHolding(ctx, portfolioID, tokenID)
		if err != nil {
			return err
		}
		if holding.ID == 0 {
			return core.ErrHoldingNotFound
		}
	}

	return nil
}

func (s *portfolioStore) RemoveHolding(ctx context.Context, portfolioID, tokenID uint64) error {
	tx := s.db.Update().
		Where("portfolio_id = ? AND token_id = ?", portfolioID, tokenID).
		Delete(core.Holding{})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return core.ErrHoldingNotFound
	}

	return nil
}
