package core

import "strings"

// Chain blockchain network a token contract lives on. CatalogNative marks
// assets tracked by their catalog id instead of a contract address.
type Chain int

const (
	// ChainCatalogNative chain-less asset, resolved by catalog id
	ChainCatalogNative Chain = iota
	// ChainEthereum ethereum
	ChainEthereum
	// ChainSolana solana
	ChainSolana
	// ChainBSC binance smart chain
	ChainBSC
	// ChainPolygon polygon
	ChainPolygon
	// ChainAvalanche avalanche
	ChainAvalanche
	// ChainFantom fantom
	ChainFantom
)

var chainNames = map[Chain]string{
	ChainCatalogNative: "catalog-native",
	ChainEthereum:      "ethereum",
	ChainSolana:        "solana",
	ChainBSC:           "binance-smart-chain",
	ChainPolygon:       "polygon",
	ChainAvalanche:     "avalanche",
	ChainFantom:        "fantom",
}

var chainValues = map[string]Chain{
	"ethereum":            ChainEthereum,
	"solana":              ChainSolana,
	"binance-smart-chain": ChainBSC,
	"polygon":             ChainPolygon,
	"avalanche":           ChainAvalanche,
	"fantom":              ChainFantom,
}

// ParseChain parse a chain name. Unrecognized values fall back to
// ChainCatalogNative rather than failing the request.
func ParseChain(v string) Chain {
	if chain, ok := chainValues[strings.ToLower(strings.TrimSpace(v))]; ok {
		return chain
	}

	return ChainCatalogNative
}

func (c Chain) String() string {
	if name, ok := chainNames[c]; ok {
		return name
	}

	return chainNames[ChainCatalogNative]
}

// TokenAssetKey chain qualified id, the unique key of a catalog entry
func TokenAssetKey(chain Chain, contract string) string {
	return c2s(chain) + ":" + strings.ToLower(strings.TrimSpace(contract))
}

func c2s(chain Chain) string {
	if chain == ChainCatalogNative {
		return "coingecko"
	}
	return chain.String()
}
