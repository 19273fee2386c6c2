package models

import "time"

type TicketType struct {
	ID          string
	BrandID     string
	EventName   string
	Name        string
	PriceCents  int64
	Currency    string
	Quantity    int
	MaxPerOrder int
	SalesStart  *time.Time
	SalesEnd    *time.Time
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
