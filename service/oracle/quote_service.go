package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"tokenfolio/core"
	"tokenfolio/pkg/resthttp"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// QuoteService resolves token quotes from the coingecko api
type QuoteService struct {
	endpoint string
	sf       *singleflight.Group
}

// New new oracle quote service
func New(cfg *core.Config) core.QuoteService {
	resthttp.SetTimeout(cfg.Oracle.Timeout)

	return &QuoteService{
		endpoint: strings.TrimSuffix(cfg.Oracle.EndPoint, "/"),
		sf:       &singleflight.Group{},
	}
}

// contract chains resolve through the per platform contract endpoint,
// everything else through the catalog id endpoint
var quotePaths = map[core.Chain]func(endpoint, contract string) string{
	core.ChainEthereum:  contractPath("ethereum"),
	core.ChainSolana:    contractPath("solana"),
	core.ChainBSC:       contractPath("binance-smart-chain"),
	core.ChainPolygon:   contractPath("polygon-pos"),
	core.ChainAvalanche: contractPath("avalanche"),
	core.ChainFantom:    contractPath("fantom"),
}

func contractPath(platform string) func(endpoint, contract string) string {
	return func(endpoint, contract string) string {
		return fmt.Sprintf("%s/coins/%s/contract/%s", endpoint, platform, url.PathEscape(contract))
	}
}

func nativePath(endpoint, contract string) string {
	return fmt.Sprintf("%s/coins/%s", endpoint, url.PathEscape(strings.ToLower(contract)))
}

func (s *QuoteService) quoteURL(chain core.Chain, contract string) string {
	if build, ok := quotePaths[chain]; ok {
		return build(s.endpoint, contract)
	}

	return nativePath(s.endpoint, contract)
}

type quotePayload struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	MarketData struct {
		CurrentPrice struct {
			USD *decimal.Decimal `json:"usd"`
		} `json:"current_price"`
	} `json:"market_data"`
	Image struct {
		Large string `json:"large"`
	} `json:"image"`
}

// Quote fetch metadata and price for the asset. Concurrent resolves of the
// same asset collapse into one upstream call.
func (s *QuoteService) Quote(ctx context.Context, chain core.Chain, contract string) (*core.TokenQuote, error) {
	key := core.TokenAssetKey(chain, contract)

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.fetch(ctx, chain, contract)
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.TokenQuote), nil
}

func (s *QuoteService) fetch(ctx context.Context, chain core.Chain, contract string) (*core.TokenQuote, error) {
	log := logger.FromContext(ctx).WithField("service", "oracle")

	uri := s.quoteURL(chain, contract)
	resp, err := resthttp.Request(ctx).Get(uri)
	if err != nil {
		log.WithError(err).Errorln("quote fetch failed:", uri)
		return nil, core.ErrQuoteUnavailable
	}

	if !resp.IsSuccess() {
		log.Errorln("quote fetch status:", resp.Status(), uri)
		return nil, core.ErrQuoteUnavailable
	}

	var payload quotePayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		log.WithError(err).Errorln("decode quote payload")
		return nil, core.ErrQuoteMalformed
	}

	// an absent price must fail the call, never default to zero
	if payload.Symbol == "" || payload.Name == "" || payload.MarketData.CurrentPrice.USD == nil {
		return nil, core.ErrQuoteMalformed
	}

	quote := &core.TokenQuote{
		Symbol:   strings.ToUpper(payload.Symbol),
		Name:     payload.Name,
		PriceUSD: *payload.MarketData.CurrentPrice.USD,
	}

	if govalidator.IsRequestURL(payload.Image.Large) {
		quote.ImageURL = payload.Image.Large
	}

	return quote, nil
}
