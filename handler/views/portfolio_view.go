package views

import (
	"tokenfolio/core"
)

// AddToken add token response: the affected catalog entry and the
// updated portfolio
type AddToken struct {
	Token     *core.Token           `json:"token"`
	Portfolio *core.PortfolioDetail `json:"portfolio"`
}

// Holding holding response
type Holding struct {
	core.Holding
}

// Tokens catalog listing
type Tokens struct {
	Tokens []*core.Token `json:"tokens"`
}
