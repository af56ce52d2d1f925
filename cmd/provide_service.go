package cmd

import (
	"tokenfolio/core"
	"tokenfolio/service/oracle"
	"tokenfolio/service/portfolio"
	"tokenfolio/service/session"
)

func provideConfig() *core.Config {
	return &cfg
}

func provideQuoteService() core.QuoteService {
	return oracle.New(&cfg)
}

func provideSessionService(users core.UserStore) core.Session {
	return session.New(users, cfg.Session)
}

func providePortfolioService(portfolios core.PortfolioStore, tokens core.TokenStore, quotez core.QuoteService) core.PortfolioService {
	return portfolio.New(portfolios, tokens, quotez)
}
