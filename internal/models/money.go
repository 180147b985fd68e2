package models

import "fmt"

// Money represents a monetary amount in the smallest currency unit (cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// NewMoney creates a Money value from a major-unit float amount.
func NewMoney(amount float64, currency string) Money {
	return Money{
		Amount:   int64(amount*100 + 0.5),
		Currency: currency,
	}
}

// Add returns the sum of two amounts. Currencies are assumed to match;
// the zero value adopts the other side's currency.
func (m Money) Add(other Money) Money {
	currency := m.Currency
	if currency == "" {
		currency = other.Currency
	}
	return Money{Amount: m.Amount + other.Amount, Currency: currency}
}

// Mul returns the amount multiplied by an integer factor.
func (m Money) Mul(factor int) Money {
	return Money{Amount: m.Amount * int64(factor), Currency: m.Currency}
}

// ToFloat returns the amount in major currency units.
func (m Money) ToFloat() float64 {
	return float64(m.Amount) / 100
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.ToFloat(), m.Currency)
}
