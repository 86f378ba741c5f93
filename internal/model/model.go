package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a user in the database
type User struct {
	ID       int
	Username string
	Cash     decimal.Decimal
}

// Holding represents the quantity of a stock currently owned by a user
type Holding struct {
	Symbol   string
	Name     string
	Quantity int64
}

// Transaction represents a completed buy or sell order
type Transaction struct {
	ID        int
	Direction string
	Symbol    string
	Name      string
	Quantity  int64
	Price     decimal.Decimal
	Time      time.Time
}

// Quote represents a point-in-time price answer from the quote service
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

// Buy and sell are the only transaction directions.
const (
	DirectionBuy  = "buy"
	DirectionSell = "sell"
)
