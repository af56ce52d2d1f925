package portfolio

import (
	"context"
	"sort"
	"sync"
	"testing"

	"tokenfolio/core"
	"tokenfolio/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQuoteService is a mock implementation of QuoteService for testing
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) Quote(ctx context.Context, chain core.Chain, contract string) (*core.TokenQuote, error) {
	args := m.Called(ctx, chain, contract)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*core.TokenQuote), args.Error(1)
}

// memTokenStore in memory token catalog with the same lose-the-race,
// re-read contract as the real store
type memTokenStore struct {
	mu    sync.Mutex
	seq   uint64
	byKey map[string]*core.Token
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{byKey: map[string]*core.Token{}}
}

func (s *memTokenStore) Find(ctx context.Context, id uint64) (*core.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, token := range s.byKey {
		if token.ID == id {
			t := *token
			return &t, nil
		}
	}
	return &core.Token{}, nil
}

func (s *memTokenStore) FindByAssetKey(ctx context.Context, assetKey string) (*core.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token, ok := s.byKey[assetKey]; ok {
		t := *token
		return &t, nil
	}
	return &core.Token{}, nil
}

func (s *memTokenStore) CreateIfAbsent(ctx context.Context, token *core.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if winner, ok := s.byKey[token.AssetKey]; ok {
		*token = *winner
		return nil
	}
	s.seq++
	token.ID = s.seq
	t := *token
	s.byKey[token.AssetKey] = &t
	return nil
}

func (s *memTokenStore) All(ctx context.Context) ([]*core.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens := make([]*core.Token, 0, len(s.byKey))
	for _, token := range s.byKey {
		t := *token
		tokens = append(tokens, &t)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].ID < tokens[j].ID })
	return tokens, nil
}

// memPortfolioStore in memory portfolio store enforcing the same unique
// constraints as the real one
type memPortfolioStore struct {
	mu         sync.Mutex
	seq, hseq  uint64
	portfolios []*core.Portfolio
	holdings   []*core.Holding
}

func newMemPortfolioStore() *memPortfolioStore {
	return &memPortfolioStore{}
}

func (s *memPortfolioStore) Create(ctx context.Context, portfolio *core.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.portfolios {
		if p.UserID == portfolio.UserID {
			return core.ErrPortfolioExists
		}
	}
	s.seq++
	portfolio.ID = s.seq
	p := *portfolio
	s.portfolios = append(s.portfolios, &p)
	return nil
}

func (s *memPortfolioStore) Find(ctx context.Context, userID string) (*core.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.portfolios {
		if p.UserID == userID {
			v := *p
			return &v, nil
		}
	}
	return &core.Portfolio{}, nil
}

func (s *memPortfolioStore) FindByID(ctx context.Context, id uint64) (*core.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.portfolios {
		if p.ID == id {
			v := *p
			return &v, nil
		}
	}
	return &core.Portfolio{}, nil
}

func (s *memPortfolioStore) ListHoldings(ctx context.Context, portfolioID uint64) ([]*core.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	holdings := make([]*core.Holding, 0)
	for _, h := range s.holdings {
		if h.PortfolioID == portfolioID {
			v := *h
			holdings = append(holdings, &v)
		}
	}
	return holdings, nil
}

func (s *memPortfolioStore) FindHolding(ctx context.Context, portfolioID, tokenID uint64) (*core.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.holdings {
		if h.PortfolioID == portfolioID && h.TokenID == tokenID {
			v := *h
			return &v, nil
		}
	}
	return &core.Holding{}, nil
}

func (s *memPortfolioStore) UpsertHolding(ctx context.Context, holding *core.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.holdings {
		if h.PortfolioID == holding.PortfolioID && h.TokenID == holding.TokenID {
			h.Amount = holding.Amount
			*holding = *h
			return nil
		}
	}
	s.hseq++
	holding.ID = s.hseq
	v := *holding
	s.holdings = append(s.holdings, &v)
	return nil
}

func (s *memPortfolioStore) UpdateHoldingAmount(ctx context.Context, portfolioID, tokenID uint64, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.holdings {
		if h.PortfolioID == portfolioID && h.TokenID == tokenID {
			h.Amount = amount
			return nil
		}
	}
	return core.ErrHoldingNotFound
}

func (s *memPortfolioStore) RemoveHolding(ctx context.Context, portfolioID, tokenID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, h := range s.holdings {
		if h.PortfolioID == portfolioID && h.TokenID == tokenID {
			s.holdings = append(s.holdings[:i], s.holdings[i+1:]...)
			return nil
		}
	}
	return core.ErrHoldingNotFound
}

func newTestService() (*memPortfolioStore, *memTokenStore, *MockQuoteService, core.PortfolioService) {
	portfolios := newMemPortfolioStore()
	tokens := newMemTokenStore()
	quotez := new(MockQuoteService)
	return portfolios, tokens, quotez, New(portfolios, tokens, quotez)
}

func abcQuote() *core.TokenQuote {
	return &core.TokenQuote{
		Symbol:   "ABC",
		Name:     "Abc Token",
		PriceUSD: number.Decimal("10"),
	}
}

func TestCreatePortfolio(t *testing.T) {
	ctx := context.Background()
	_, _, _, service := newTestService()

	portfolio, err := service.CreatePortfolio(ctx, "u-1", "Main")
	require.NoError(t, err)
	assert.Equal(t, "Main", portfolio.Name)
	assert.NotZero(t, portfolio.ID)
	assert.NotEmpty(t, portfolio.TraceID)
}

func TestCreatePortfolioEmptyName(t *testing.T) {
	ctx := context.Background()
	_, _, _, service := newTestService()

	_, err := service.CreatePortfolio(ctx, "u-1", "   ")
	assert.Equal(t, core.ErrInvalidName, err)
}

func TestCreatePortfolioTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	_, _, _, service := newTestService()

	_, err := service.CreatePortfolio(ctx, "u-1", "Main")
	require.NoError(t, err)

	_, err = service.CreatePortfolio(ctx, "u-1", "Second")
	assert.Equal(t, core.ErrPortfolioExists, err)
}

func TestAddTokenValidation(t *testing.T) {
	ctx := context.Background()
	_, _, quotez, service := newTestService()

	portfolio, err := service.CreatePortfolio(ctx, "u-1", "Main")
	require.NoError(t, err)

	for _, amount := range []string{"0", "-1", "not a number"} {
		_, _, err = service.AddToken(ctx, "u-1", portfolio.ID, core.ChainEthereum, "0xAAA", number.Decimal(amount))
		assert.Equal(t, core.ErrInvalidAmount, err, amount)
	}

	_, _, err = service.AddToken(ctx, "u-1", portfolio.ID, core.ChainEthereum, "  ", number.Decimal("1"))
	assert.Equal(t, core.ErrInvalidParams, err)

	// validation failures never reach the upstream
	quotez.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddTokenWithoutPortfolio(t *testing.T) {
	ctx := context.Background()
	_, _, _, service := newTestService()

	_, _, err := service.AddToken(ctx, "u-1", 1, core.ChainEthereum, "0xAAA", number.Decimal("2"))
	assert.Equal(t, core.ErrPortfolioNotFound, err)
}

func TestAddTokenForeignPortfolio(t *testing.T) {
	ctx := context.Background()
	_, _, _, service := newTestService()

	mine, err := service.CreatePortfolio(ctx, "u-1", "Mine")
	require.NoError(t, err)

	// another user probing someone else's portfolio id reads as not found
	_, _, err = service.AddToken(ctx, "u-2", mine.ID, core.ChainEthereum, "0xAAA", number.Decimal("2"))
	assert.Equal(t, core.ErrPortfolioNotFound, err)
}

func TestAddTokenReplacesAmount(t *testing.T) {
	ctx := context.Background()
	_, tokens, quotez, service := newTestService()
	quotez.On("Quote", mock.Anything, core.ChainEthereum, "0xAAA").Return(abcQuote(), nil).Once()

	portfolio, err := service.CreatePortfolio(ctx, "u-1", "Main")
	require.NoError(t, err)

	_, detail, err := service.AddToken(ctx, "u-1", portfolio.ID, core.ChainEthereum, "0xAAA", number.Decimal("5"))
	require.NoError(t, err)
	require.Len(t, detail.Holdings, 1)
	assert.Equal(t, "5", detail.Holdings[0].Amount.String())

	// add of an already held asset sets the amount, it does not append or sum
	_, detail, err = service.AddToken(ctx, "u-1", portfolio.ID, core.ChainEthereum, "0xAAA", number.Decimal("9"))
	require.NoError(t, err)
	require.Len(t, detail.Holdings, 1)
	assert.Equal(t, "9", detail.Holdings[0].Amount.String())

	// second add hits the catalog, not the upstream
	quotez.AssertNumberOfCalls(t, "Quote", 1)

	all, err := tokens.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddTokenMalformedQuote(t *testing.T) {
	ctx := context.Background()
	portfolios, tokens, quotez, service := newTestService()
	quotez.On("Quote", mock.Anything, core.ChainEthereum, "0xBAD").Return(nil, core.ErrQuoteMalformed)

	portfolio, err := service.CreatePortfolio(ctx, "u-1", "Main")
	require.NoError(t, err)

	_, _, err = service.AddToken(ctx, "u-1", portfolio.ID, core.ChainEthereum, "0xBAD", number.Decimal("2"))
	assert.Equal(t, core.ErrQuoteMalformed, err)

	// the failed lookup left both stores untouched
	holdings, err := portfolios.ListHoldings(ctx, portfolio.ID)
	require.NoError(t, err)
	assert.Empty(t, holdings)

	all, err := tokens.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddTokenConcurrentCatalog(t *testing.T) {
	ctx := context.Background()
	_, tokens, quotez, service := newTestService()
	quotez.On("Quote", mock.Anything, core.ChainEthereum, "0xAAA").Return(abcQuote(), nil)

	_, err := service.CreatePortfolio(ctx, "u-1", "One")
	require.NoError(t, err)
	p1, err := service.GetPortfolio(ctx, "u-1")
	require.NoError(t, err)
	_, err = service.CreatePortfolio(ctx, "u-2", "Two")
	require.NoError(t, err)
	p2, err := service.GetPortfolio(ctx, "u-2")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, c := range []struct {
		user string
		pid  uint64
	}{{"u-1", p1.ID}, {"u-2", p2.ID}} {
		wg.Add(1)
		go func(i int, user string, pid uint64) {
			defer wg.Done()
			_, _, errs[i] = service.AddToken(ctx, user, pid, core.ChainEthereum, "0xAAA", number.Decimal("1"))
		}(i, c.user, c.pid)
	}
	wg.Wait()

	// both racers succeed and exactly one catalog entry exists
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	all, err := tokens.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateAmount(t *testing.T) {
	ctx := context.Background()
	_, _, quotez, service := newTestService()
	quotez.On("Quote", mock.Anything, core.ChainEthereum, "0xAAA").Return(abcQuote(), nil)

	portfolio, err := service.CreatePortfolio(ctx, "u-1", "Main")
	require.NoError(t, err)

	token, _, err := service.AddToken(ctx, "u-1", portfolio.ID, core.ChainEthereum, "0xAAA", number.Decimal("2"))
	require.NoError(t, err)

	holding, err := service.UpdateAmount(ctx, "u-1", portfolio.ID, token.ID, number.Decimal("3"))
	require.NoError(t, err)
	assert.Equal(t, "3", holding.Amount.String())
}

func TestUpdateAmountValidation(t *testing.T) {
	ctx := context.Background()
	portfolios, _, quotez, service := newTestService()
	quotez.On("Quote", mock.Anything, core.ChainEthereum, "0xAAA").Return(abcQuote(), nil)

	portfolio, err := service.CreatePortfolio(ctx, "u-1", "Main")
	require.NoError(t, err)
	token, _, err := service.AddToken(ctx, "u-1", portfolio.ID, core.ChainEthereum, "0xAAA", number.Decimal("2"))
	require.NoError(t, err)

	for _, amount := range []string{"-1", "0", "garbage"} {
		_, err = service.UpdateAmount(ctx, "u-1", portfolio.ID, token.ID, number.Decimal(amount))
		assert.Equal(t, core.ErrInvalidAmount, err, amount)
	}

	// rejected updates leave the holding unchanged
	holding, err := portfolios.FindHolding(ctx, portfolio.ID, token.ID)
	require.NoError(t, err)
	assert.Equal(t, "2", holding.Amount.String())
}

func TestUpdateAmountMissingHolding(t *testing.T) {
	ctx := context.Background()
	_, _, _, service := newTestService()

	portfolio, err := service.CreatePortfolio(ctx, "u-1", "Main")
	require.NoError(t, err)

	_, err = service.UpdateAmount(ctx, "u-1", portfolio.ID, 999, number.Decimal("3"))
	assert.Equal(t, core.ErrHoldingNotFound, err)
}

func TestRemoveTokenIsolation(t *testing.T) {
	ctx := context.Background()
	portfolios, tokens, quotez, service := newTestService()
	quotez.On("Quote", mock.Anything, core.ChainEthereum, "0xAAA").Return(abcQuote(), nil)

	a, err := service.CreatePortfolio(ctx, "u-a", "A")
	require.NoError(t, err)
	b, err := service.CreatePortfolio(ctx, "u-b", "B")
	require.NoError(t, err)

	token, _, err := service.AddToken(ctx, "u-a", a.ID, core.ChainEthereum, "0xAAA", number.Decimal("2"))
	require.NoError(t, err)
	_, _, err = service.AddToken(ctx, "u-b", b.ID, core.ChainEthereum, "0xAAA", number.Decimal("4"))
	require.NoError(t, err)

	require.NoError(t, service.RemoveToken(ctx, "u-a", a.ID, token.ID))

	// the shared catalog entry and the other portfolio's holding survive
	all, err := tokens.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	holding, err := portfolios.FindHolding(ctx, b.ID, token.ID)
	require.NoError(t, err)
	assert.Equal(t, "4", holding.Amount.String())

	err = service.RemoveToken(ctx, "u-a", a.ID, token.ID)
	assert.Equal(t, core.ErrHoldingNotFound, err)
}

func TestGetPortfolioNotFound(t *testing.T) {
	ctx := context.Background()
	_, _, _, service := newTestService()

	_, err := service.GetPortfolio(ctx, "nobody")
	assert.Equal(t, core.ErrPortfolioNotFound, err)
}

func TestPortfolioLifecycle(t *testing.T) {
	ctx := context.Background()
	_, _, quotez, service := newTestService()
	quotez.On("Quote", mock.Anything, core.ChainEthereum, "0xAAA").Return(abcQuote(), nil).Once()

	portfolio, err := service.CreatePortfolio(ctx, "u-1", "Main")
	require.NoError(t, err)

	detail, err := service.GetPortfolio(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, detail.Holdings)

	token, _, err := service.AddToken(ctx, "u-1", portfolio.ID, core.ChainEthereum, "0xAAA", number.Decimal("2"))
	require.NoError(t, err)
	assert.Equal(t, "ABC", token.Symbol)

	detail, err = service.GetPortfolio(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, detail.Holdings, 1)
	assert.Equal(t, "20", detail.Holdings[0].Value.String())
	assert.Equal(t, "20", detail.TotalValue.String())

	_, detail, err = service.AddToken(ctx, "u-1", portfolio.ID, core.ChainEthereum, "0xAAA", number.Decimal("7"))
	require.NoError(t, err)
	require.Len(t, detail.Holdings, 1)
	assert.Equal(t, "7", detail.Holdings[0].Amount.String())
	assert.Equal(t, "70", detail.Holdings[0].Value.String())
	assert.Equal(t, "70", detail.TotalValue.String())

	require.NoError(t, service.RemoveToken(ctx, "u-1", portfolio.ID, token.ID))

	detail, err = service.GetPortfolio(ctx, "u-1")
	require.NoError(t, err)
	assert.Empty(t, detail.Holdings)
	assert.Equal(t, "0", detail.TotalValue.String())
}
