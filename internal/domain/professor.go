package domain

import "time"

// Professor models a staff member who presents attendance via QR token.
// Matricula is the human-facing badge number; it is carried in tokens for
// auditability but never used for authorization.
type Professor struct {
	ID           string
	Nome         string
	Email        string
	Matricula    string
	UnidadeID    string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
