package entity

import "time"

// Customer representa un cliente de la boutique.
type Customer struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	BranchID      string
	VIPStatus     bool
	LoyaltyPoints int64
	CreatedAt     time.Time
}
