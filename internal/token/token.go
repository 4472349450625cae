package token

// Token identifies a tradable asset by its price-catalog id and ticker symbol.
type Token struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Quote is a market snapshot for a single token. Only Price feeds the
// calculator; the other fields are display data.
type Quote struct {
	Price     float64 `json:"price"`
	Change24h float64 `json:"change_24h"`
	MarketCap float64 `json:"market_cap"`
}

var catalog = []Token{
	{ID: "eth-ethereum", Symbol: "ETH", Name: "Ethereum"},
	{ID: "sol-solana", Symbol: "SOL", Name: "Solana"},
	{ID: "xrp-xrp", Symbol: "XRP", Name: "XRP"},
	{ID: "sui-sui", Symbol: "SUI", Name: "Sui"},
}

// Static quotes used when the price feed is unreachable for a token.
var fallbackQuotes = map[string]Quote{
	"eth-ethereum": {Price: 3245.67, Change24h: 2.34, MarketCap: 390_000_000_000},
	"sol-solana":   {Price: 198.43, Change24h: -1.22, MarketCap: 93_000_000_000},
	"xrp-xrp":      {Price: 0.634, Change24h: 0.87, MarketCap: 36_000_000_000},
	"sui-sui":      {Price: 4.12, Change24h: 5.43, MarketCap: 11_000_000_000},
}

// Catalog returns the fixed set of tracked tokens.
func Catalog() []Token {
	out := make([]Token, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a catalog token.
func ByID(id string) (Token, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Token{}, false
}

// FallbackQuote returns the static quote for a token.
func FallbackQuote(id string) (Quote, bool) {
	q, ok := fallbackQuotes[id]
	return q, ok
}
