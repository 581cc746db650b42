package alpaca

// Wire DTOs for Alpaca's REST API. Money and quantity fields arrive as
// JSON strings on the trading API; bar fields are plain numbers.

type accountDTO struct {
	BuyingPower    string `json:"buying_power"`
	Cash           string `json:"cash"`
	PortfolioValue string `json:"portfolio_value"`
}

type positionDTO struct {
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	AvgEntryPrice string `json:"avg_entry_price"`
	CurrentPrice  string `json:"current_price"`
	UnrealizedPL  string `json:"unrealized_pl"`
}

type orderDTO struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Qty    string `json:"qty"`
	Side   string `json:"side"`
	Status string `json:"status"`
}

type orderRequestDTO struct {
	Symbol      string `json:"symbol"`
	Qty         string `json:"qty"`
	Side        string `json:"side"`
	Type        string `json:"type"`
	TimeInForce string `json:"time_in_force"`
}

type barDTO struct {
	T string  `json:"t"`
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

type stockBarsDTO struct {
	Bars []barDTO `json:"bars"`
}

type latestTradeDTO struct {
	Trade struct {
		P float64 `json:"p"`
	} `json:"trade"`
}

type cryptoBarsDTO struct {
	Bars map[string][]barDTO `json:"bars"`
}

type cryptoQuotesDTO struct {
	Quotes map[string]struct {
		AskPrice float64 `json:"ap"`
		BidPrice float64 `json:"bp"`
	} `json:"quotes"`
}
