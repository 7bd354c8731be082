package domain

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places kept for budgets, bids and
// transaction amounts. It matches the NUMERIC(12,2) columns in Postgres.
const MoneyScale = 2

// maxMoney is the first value that no longer fits NUMERIC(12,2).
var maxMoney = decimal.New(1, 12-MoneyScale)

// FitsMoneyScale reports whether d can be stored without rounding: at most
// MoneyScale decimal places and below 10^10 in magnitude.
func FitsMoneyScale(d decimal.Decimal) bool {
	return d.Truncate(MoneyScale).Equal(d) && d.Abs().LessThan(maxMoney)
}
