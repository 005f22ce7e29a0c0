// Package pricing は明細1行ぶんの税抜・税込金額を計算する。
// 金額はすべて最小通貨単位の整数で、税込額は行ごとに切り捨てる。
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNegativeInput = errors.New("pricing: negative input")
	ErrOverflow      = errors.New("pricing: amount overflows int64")
)

// 標準税率（10%）と明細に記録する税区分。
const (
	DefaultTaxRate     = "0.1"
	DefaultTaxCategory = "10"
)

// TaxRule は適用する税率と、明細に保存する区分ラベル。
type TaxRule struct {
	Rate     decimal.Decimal
	Category string
}

func DefaultTaxRule() TaxRule {
	return TaxRule{
		Rate:     decimal.RequireFromString(DefaultTaxRate),
		Category: DefaultTaxCategory,
	}
}

// ParseTaxRule は設定値（"0.1"など）からTaxRuleを作る。
func ParseTaxRule(rate string, category string) (TaxRule, error) {
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return TaxRule{}, fmt.Errorf("invalid tax rate %q: %w", rate, err)
	}
	if r.IsNegative() {
		return TaxRule{}, fmt.Errorf("invalid tax rate %q: %w", rate, ErrNegativeInput)
	}
	if category == "" {
		category = DefaultTaxCategory
	}
	return TaxRule{Rate: r, Category: category}, nil
}

// Amounts は1行ぶんの税抜・税込金額。
type Amounts struct {
	ExTax  int64
	IncTax int64
}

// Compute は単価×数量の税抜額と、税込額 floor(単価×数量×(1+税率)) を返す。
func Compute(unitPrice int64, quantity int64, rate decimal.Decimal) (Amounts, error) {
	if unitPrice < 0 || quantity < 0 || rate.IsNegative() {
		return Amounts{}, ErrNegativeInput
	}

	exTax := decimal.NewFromInt(unitPrice).Mul(decimal.NewFromInt(quantity))
	incTax := exTax.Mul(decimal.NewFromInt(1).Add(rate)).Floor()

	if !exTax.BigInt().IsInt64() || !incTax.BigInt().IsInt64() {
		return Amounts{}, ErrOverflow
	}

	return Amounts{
		ExTax:  exTax.IntPart(),
		IncTax: incTax.IntPart(),
	}, nil
}

// Compute は r の税率で計算する。
func (r TaxRule) Compute(unitPrice int64, quantity int64) (Amounts, error) {
	return Compute(unitPrice, quantity, r.Rate)
}
