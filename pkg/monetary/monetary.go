// Package monetary carries amounts in minor units across API, domain and storage.
package monetary

import (
	"strings"

	"github.com/Rhymond/go-money"
)

// Amount is a money value in minor units, e.g. cents.
type Amount struct {
	Amount   int64  `json:"amount" validate:"gte=0"`
	Currency string `json:"currency" validate:"required,iso4217"`
}

func (a Amount) Normalize() Amount {
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
	return a
}

func (a Amount) Money() *money.Money {
	return money.New(a.Amount, a.Currency)
}

func FromMoney(m *money.Money) *Amount {
	if m == nil {
		return nil
	}
	return &Amount{Amount: m.Amount(), Currency: m.Currency().Code}
}

// Display renders the amount with its currency symbol, e.g. "€1,234.50".
func (a Amount) Display() string {
	return a.Money().Display()
}

// Sum adds amounts of one currency. Amounts in another currency are skipped
// and counted in the second return value.
func Sum(currency string, amounts ...*money.Money) (*money.Money, int) {
	total := money.New(0, currency)
	skipped := 0
	for _, m := range amounts {
		if m == nil {
			continue
		}
		next, err := total.Add(m)
		if err != nil {
			skipped++
			continue
		}
		total = next
	}
	return total, skipped
}
