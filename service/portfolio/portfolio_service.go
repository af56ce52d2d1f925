package portfolio

import (
	"context"
	"strings"

	"tokenfolio/core"
	"tokenfolio/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

type portfolioService struct {
	portfolios core.PortfolioStore
	tokens     core.TokenStore
	quotez     core.QuoteService
}

// New new portfolio reconciliation service
func New(
	portfolios core.PortfolioStore,
	tokens core.TokenStore,
	quotez core.QuoteService,
) core.PortfolioService {
	return &portfolioService{
		portfolios: portfolios,
		tokens:     tokens,
		quotez:     quotez,
	}
}

func (s *portfolioService) CreatePortfolio(ctx context.Context, userID, name string) (*core.Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, core.ErrInvalidName
	}

	portfolio := &core.Portfolio{
		TraceID: uuid.New(),
		UserID:  userID,
		Name:    name,
	}

	if err := s.portfolios.Create(ctx, portfolio); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Infoln("portfolio created:", portfolio.ID, "user:", userID)
	return portfolio, nil
}

// AddToken resolve or create the catalog entry, then set the holding.
// An already held token takes the new amount in place; add is an
// idempotent set, not an increment.
func (s *portfolioService) AddToken(ctx context.Context, userID string, portfolioID uint64, chain core.Chain, contract string, amount decimal.Decimal) (*core.Token, *core.PortfolioDetail, error) {
	if strings.TrimSpace(contract) == "" {
		return nil, nil, core.ErrInvalidParams
	}
	if !number.Positive(amount) {
		return nil, nil, core.ErrInvalidAmount
	}

	portfolio, err := s.ownedPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, nil, err
	}

	// resolve or create must finish before any portfolio mutation so a
	// failed lookup leaves the holdings untouched
	token, err := s.resolveToken(ctx, chain, contract)
	if err != nil {
		return nil, nil, err
	}

	holding := &core.Holding{
		PortfolioID: portfolio.ID,
		TokenID:     token.ID,
		Amount:      amount,
	}
	if err := s.portfolios.UpsertHolding(ctx, holding); err != nil {
		return nil, nil, err
	}

	detail, err := s.expand(ctx, portfolio)
	if err != nil {
		return nil, nil, err
	}

	return token, detail, nil
}

func (s *portfolioService) UpdateAmount(ctx context.Context, userID string, portfolioID, tokenID uint64, amount decimal.Decimal) (*core.Holding, error) {
	if !number.Positive(amount) {
		return nil, core.ErrInvalidAmount
	}

	portfolio, err := s.ownedPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}

	if err := s.portfolios.UpdateHoldingAmount(ctx, portfolio.ID, tokenID, amount); err != nil {
		return nil, err
	}

	holding, err := s.portfolios.FindHolding(ctx, portfolio.ID, tokenID)
	if err != nil {
		return nil, err
	}
	if holding.ID == 0 {
		return nil, core.ErrHoldingNotFound
	}

	return holding, nil
}

// RemoveToken drops the holding only; the catalog entry is shared with
// other portfolios and stays.
func (s *portfolioService) RemoveToken(ctx context.Context, userID string, portfolioID, tokenID uint64) error {
	portfolio, err := s.ownedPortfolio(ctx, userID, portfolioID)
	if err != nil {
		return err
	}

	return s.portfolios.RemoveHolding(ctx, portfolio.ID, tokenID)
}

func (s *portfolioService) GetPortfolio(ctx context.Context, userID string) (*core.PortfolioDetail, error) {
	portfolio, err := s.portfolios.Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if portfolio.ID == 0 {
		return nil, core.ErrPortfolioNotFound
	}

	return s.expand(ctx, portfolio)
}

// ownedPortfolio loads the portfolio at portfolioID and checks it belongs to
// userID. A foreign portfolio renders as not found, its id is not leaked.
// portfolioID 0 falls back to the caller's own portfolio.
func (s *portfolioService) ownedPortfolio(ctx context.Context, userID string, portfolioID uint64) (*core.Portfolio, error) {
	if portfolioID == 0 {
		portfolio, err := s.portfolios.Find(ctx, userID)
		if err != nil {
			return nil, err
		}
		if portfolio.ID == 0 {
			return nil, core.ErrPortfolioNotFound
		}
		return portfolio, nil
	}

	portfolio, err := s.portfolios.FindByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio.ID == 0 || portfolio.UserID != userID {
		return nil, core.ErrPortfolioNotFound
	}

	return portfolio, nil
}

// resolveToken cache aside against the quote service: the catalog is read
// first and the upstream is only called on a miss.
func (s *portfolioService) resolveToken(ctx context.Context, chain core.Chain, contract string) (*core.Token, error) {
	assetKey := core.TokenAssetKey(chain, contract)

	token, err := s.tokens.FindByAssetKey(ctx, assetKey)
	if err != nil {
		return nil, err
	}
	if token.ID > 0 {
		return token, nil
	}

	quote, err := s.quotez.Quote(ctx, chain, contract)
	if err != nil {
		return nil, err
	}

	token = &core.Token{
		AssetKey: assetKey,
		Chain:    chain.String(),
		Contract: strings.TrimSpace(contract),
		Symbol:   quote.Symbol,
		Name:     quote.Name,
		PriceUSD: quote.PriceUSD,
		ImageURL: quote.ImageURL,
	}

	if err := s.tokens.CreateIfAbsent(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// expand read time join of holdings with their catalog entries
func (s *portfolioService) expand(ctx context.Context, portfolio *core.Portfolio) (*core.PortfolioDetail, error) {
	holdings, err := s.portfolios.ListHoldings(ctx, portfolio.ID)
	if err != nil {
		return nil, err
	}

	detail := &core.PortfolioDetail{
		Portfolio:  *portfolio,
		Holdings:   make([]*core.HoldingDetail, 0, len(holdings)),
		TotalValue: decimal.Zero,
	}

	for _, holding := range holdings {
		token, err := s.tokens.Find(ctx, holding.TokenID)
		if err != nil {
			return nil, err
		}
		if token.ID == 0 {
			// catalog rows are never deleted; a dangling reference is a bug
			logger.FromContext(ctx).Errorln("dangling token reference:", holding.TokenID, "portfolio:", portfolio.ID)
			return nil, core.ErrTokenNotFound
		}

		value := number.Values(holding.Amount, token.PriceUSD)
		detail.Holdings = append(detail.Holdings, &core.HoldingDetail{
			Holding:  *holding,
			Symbol:   token.Symbol,
			Name:     token.Name,
			ImageURL: token.ImageURL,
			PriceUSD: token.PriceUSD,
			Value:    value,
		})
		detail.TotalValue = detail.TotalValue.Add(value)
	}

	return detail, nil
}
