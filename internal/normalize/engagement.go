package normalize

import "github.com/shopspring/decimal"

// EngagementRate returns (likes+comments+shares)/followers*100 rounded to one decimal.
// It is 0 when followers is unknown or non-positive; the rate is then unknown, not zero.
func EngagementRate(likes, comments, shares, followers int64) float64 {
	if followers <= 0 {
		return 0
	}
	interactions := decimal.NewFromInt(max(likes, 0) + max(comments, 0) + max(shares, 0))
	rate := interactions.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(followers))
	return Round1(rate)
}

// Round1 rounds half away from zero to one decimal place.
func Round1(d decimal.Decimal) float64 {
	f, _ := d.Round(1).Float64()
	return f
}

// Round1Float is Round1 for values already held as float64.
func Round1Float(f float64) float64 {
	return Round1(decimal.NewFromFloat(f))
}
