package cmd

import (
	"tokenfolio/core"
	"tokenfolio/store/portfolio"
	"tokenfolio/store/token"
	"tokenfolio/store/user"

	"github.com/fox-one/pkg/store/db"
)

const tokenCacheCapacity = 2048

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideTokenStore(db *db.DB) core.TokenStore {
	return token.Cache(token.New(db), tokenCacheCapacity)
}

func providePortfolioStore(db *db.DB) core.PortfolioStore {
	return portfolio.New(db)
}

func provideUserStore(db *db.DB) core.UserStore {
	return user.New(db)
}
