package domain

import "time"

// Donation represents a single supporter contribution. Records are
// append-only: once written they are never updated or deleted.
type Donation struct {
	ID        string
	Amount    float64
	Message   string
	CreatedAt time.Time
}

// Totals is the aggregate view over all donations. It is derived on
// read with a SQL fold and never stored on its own.
type Totals struct {
	TotalDonations float64 `json:"totalDonations"`
	DonorCount     int64   `json:"donorCount"`
}
