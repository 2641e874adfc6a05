package model

// QuoteRecord captures the quote a derived amount was sized from.
type QuoteRecord struct {
	Direction string `json:"direction"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
	BufferBps uint32 `json:"buffer_bps"`
	Price     string `json:"price,omitempty"`
}

// PlanReport records one assembled plan for audit output. Amounts are
// decimal strings in native smallest units.
type PlanReport struct {
	Target      string       `json:"target"`
	Operation   string       `json:"operation"`
	Mode        string       `json:"mode,omitempty"`
	TickLower   int32        `json:"tick_lower,omitempty"`
	TickUpper   int32        `json:"tick_upper,omitempty"`
	TickSpacing int32        `json:"tick_spacing,omitempty"`
	Amount0     string       `json:"amount0,omitempty"`
	Amount1     string       `json:"amount1,omitempty"`
	Liquidity   string       `json:"liquidity,omitempty"`
	Derived     bool         `json:"derived,omitempty"`
	Scaled      bool         `json:"scaled,omitempty"`
	Warnings    []string     `json:"warnings,omitempty"`
	Quote       *QuoteRecord `json:"quote,omitempty"`
	UnlockData  string       `json:"unlock_data"`
	CreatedAt   string       `json:"created_at"`
}
