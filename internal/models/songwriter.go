package models

import "time"

type Songwriter struct {
	ID             string
	BrandID        string
	Name           string
	Email          *string
	ProAffiliation *string // e.g. "ASCAP", "BMI", "SESAC"
	IPINumber      *string
	SplitPercent   float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
