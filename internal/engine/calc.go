package engine

import "math"

// Mode selects which unknown the calculator solves for.
type Mode string

const (
	// ModeProfit computes the profit of selling at a known price.
	ModeProfit Mode = "profit"
	// ModeSellPrice solves for the sell price that yields a target profit.
	ModeSellPrice Mode = "sellPrice"
)

// Proportional transaction fee charged on the gross amount of each side.
const (
	BuyFeeRate  = 0.001 // 0.10%
	SellFeeRate = 0.001 // 0.10%
)

// Params are the trade inputs. Investment and BuyPrice are always required;
// SellPrice or TargetProfit is required depending on Mode.
type Params struct {
	Investment   float64 `json:"investment"`
	BuyPrice     float64 `json:"buy_price"`
	SellPrice    float64 `json:"sell_price,omitempty"`
	TargetProfit float64 `json:"target_profit,omitempty"`
	Mode         Mode    `json:"mode"`
}

// Result holds every derived value for a trade. All fields are computed;
// none are independently settable. Values are unrounded; formatting is a
// presentation concern.
type Result struct {
	TokensCanBuy      float64 `json:"tokens_can_buy"`
	GrossRevenue      float64 `json:"gross_revenue"`
	TotalRevenue      float64 `json:"total_revenue"`
	BuyFee            float64 `json:"buy_fee"`
	SellFee           float64 `json:"sell_fee"`
	TotalFees         float64 `json:"total_fees"`
	NetProfit         float64 `json:"net_profit"`
	ProfitPercentage  float64 `json:"profit_percentage"`
	RequiredSellPrice float64 `json:"required_sell_price"`
	BreakEvenPrice    float64 `json:"break_even_price"`
	PriceDifference   float64 `json:"price_difference"`
}

// Compute derives the full result set for the given parameters, or nil when
// the inputs are incomplete for the active mode. A nil result is the normal
// empty state, not an error. Compute has no side effects and is safe to call
// on every input change.
func Compute(p Params) *Result {
	if p.Investment <= 0 || p.BuyPrice <= 0 {
		return nil
	}

	buyFee := p.Investment * BuyFeeRate
	tokensCanBuy := (p.Investment - buyFee) / p.BuyPrice
	if tokensCanBuy <= 0 || !isFinite(tokensCanBuy) {
		return nil
	}

	switch p.Mode {
	case ModeProfit:
		if p.SellPrice <= 0 {
			return nil
		}
		grossRevenue := tokensCanBuy * p.SellPrice
		sellFee := grossRevenue * SellFeeRate
		totalRevenue := grossRevenue - sellFee
		// Profit is measured against the original, pre-fee investment.
		netProfit := totalRevenue - p.Investment
		return &Result{
			TokensCanBuy:      tokensCanBuy,
			GrossRevenue:      grossRevenue,
			TotalRevenue:      totalRevenue,
			BuyFee:            buyFee,
			SellFee:           sellFee,
			TotalFees:         buyFee + sellFee,
			NetProfit:         netProfit,
			ProfitPercentage:  netProfit / p.Investment * 100,
			RequiredSellPrice: p.SellPrice,
			BreakEvenPrice:    p.BuyPrice,
			PriceDifference:   p.SellPrice - p.BuyPrice,
		}

	case ModeSellPrice:
		if p.TargetProfit <= 0 {
			return nil
		}
		desiredTotalRevenue := p.Investment + p.TargetProfit
		// Invert totalRevenue = grossRevenue * (1 - sellFeeRate).
		requiredGrossRevenue := desiredTotalRevenue / (1 - SellFeeRate)
		requiredSellPrice := requiredGrossRevenue / tokensCanBuy
		if !isFinite(requiredSellPrice) {
			return nil
		}
		sellFee := requiredGrossRevenue * SellFeeRate
		return &Result{
			TokensCanBuy:      tokensCanBuy,
			GrossRevenue:      requiredGrossRevenue,
			TotalRevenue:      desiredTotalRevenue,
			BuyFee:            buyFee,
			SellFee:           sellFee,
			TotalFees:         buyFee + sellFee,
			NetProfit:         p.TargetProfit,
			ProfitPercentage:  p.TargetProfit / p.Investment * 100,
			RequiredSellPrice: requiredSellPrice,
			BreakEvenPrice:    p.BuyPrice,
			PriceDifference:   requiredSellPrice - p.BuyPrice,
		}
	}

	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
