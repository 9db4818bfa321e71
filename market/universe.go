package market

// NiftyFifty is the default instrument universe: ten large-cap NSE
// tickers in Yahoo Finance notation.
var NiftyFifty = []string{
	"RELIANCE.NS", "TCS.NS", "INFY.NS", "HDFCBANK.NS", "ICICIBANK.NS",
	"SBIN.NS", "ITC.NS", "LT.NS", "KOTAKBANK.NS", "HINDUNILVR.NS",
}
