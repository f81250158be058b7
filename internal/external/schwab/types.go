package schwab

// invalidGreek is the value Schwab reports for greeks it could not compute
const invalidGreek = -999.0

// quoteEntry is one symbol in a /quotes response
type quoteEntry struct {
	Symbol      string      `json:"symbol"`
	Quote       quoteFields `json:"quote"`
	Fundamental fundamental `json:"fundamental"`
}

type quoteFields struct {
	LastPrice  float64 `json:"lastPrice"`
	ClosePrice float64 `json:"closePrice"`
	Mark       float64 `json:"mark"`
	QuoteTime  int64   `json:"quoteTime"` // epoch ms
}

type fundamental struct {
	NextEarningsDate string `json:"nextEarningsDate"`
}

// chainResponse is the /chains payload (calls only)
type chainResponse struct {
	Symbol          string           `json:"symbol"`
	Status          string           `json:"status"`
	UnderlyingPrice float64          `json:"underlyingPrice"`
	Underlying      *chainUnderlying `json:"underlying"`

	// "YYYY-MM-DD:dte" → strike → quotes
	CallExpDateMap map[string]map[string][]optionQuote `json:"callExpDateMap"`
}

type chainUnderlying struct {
	Symbol    string  `json:"symbol"`
	Last      float64 `json:"last"`
	Close     float64 `json:"close"`
	Mark      float64 `json:"mark"`
	QuoteTime int64   `json:"quoteTime"`
}

// optionQuote is one option in callExpDateMap
type optionQuote struct {
	Symbol           string  `json:"symbol"`
	PutCall          string  `json:"putCall"`
	Bid              float64 `json:"bid"`
	Ask              float64 `json:"ask"`
	Last             float64 `json:"last"`
	Mark             float64 `json:"mark"`
	Delta            float64 `json:"delta"`
	Gamma            float64 `json:"gamma"`
	Theta            float64 `json:"theta"`
	Vega             float64 `json:"vega"`
	Rho              float64 `json:"rho"`
	Volatility       float64 `json:"volatility"` // percent
	TotalVolume      int64   `json:"totalVolume"`
	OpenInterest     int64   `json:"openInterest"`
	StrikePrice      float64 `json:"strikePrice"`
	ExpirationDate   string  `json:"expirationDate"`
	DaysToExpiration int     `json:"daysToExpiration"`
}

// priceHistoryResponse is the /pricehistory payload
type priceHistoryResponse struct {
	Symbol  string   `json:"symbol"`
	Empty   bool     `json:"empty"`
	Candles []candle `json:"candles"`
}

type candle struct {
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   int64   `json:"volume"`
	Datetime int64   `json:"datetime"` // epoch ms
}
