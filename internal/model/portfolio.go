package model

import "time"

// Holding is one position in a user's portfolio.
type Holding struct {
	Symbol       string
	Quantity     int64
	AveragePrice float64
	UpdatedAt    time.Time
}

// User is a registered advisory recipient, keyed by Telegram chat ID.
type User struct {
	ChatID      int64
	Username    string
	Budget      float64 // max price per share the user will pay; <=0 means unbounded
	CashBalance float64
	RiskProfile string
	CreatedAt   time.Time
	Holdings    []Holding
}

// Holds reports whether the user already owns the given symbol.
func (u *User) Holds(symbol string) bool {
	for _, h := range u.Holdings {
		if h.Symbol == symbol {
			return true
		}
	}
	return false
}

// NetWorthSnapshot is one end-of-day record of a user's total position.
type NetWorthSnapshot struct {
	Date             string // YYYY-MM-DD
	TotalInvested    float64
	TotalMarketValue float64
	CashBalance      float64
}

// Total returns market value plus cash for the snapshot day.
func (s NetWorthSnapshot) Total() float64 {
	return s.TotalMarketValue + s.CashBalance
}
