package domain

import "time"

// Scanner models a reader station account authorized to verify tokens and
// record scans. The scanner credential authorizes who may call verify; it is
// never part of a token's identity claims.
type Scanner struct {
	ID           string
	Label        string
	Email        string
	UnidadeID    *string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
