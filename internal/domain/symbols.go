package domain

// DefaultSymbols lists the Coinbase products tracked when no symbol list is configured.
var DefaultSymbols = []string{
	"BTC-USD", "ETH-USD", "USDT-USD", "SOL-USD", "ADA-USD",
	"XRP-USD", "DOGE-USD", "AVAX-USD", "LTC-USD", "LINK-USD",
	"MATIC-USD", "DOT-USD", "BCH-USD", "ATOM-USD", "NEAR-USD",
	"TRX-USD", "ICP-USD", "APT-USD", "XTZ-USD", "XLM-USD",
}
