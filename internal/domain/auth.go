package domain

import "time"

// SubjectType differentiates professor vs scanner access tokens.
type SubjectType string

const (
	SubjectTypeProfessor SubjectType = "PROFESSOR"
	SubjectTypeScanner   SubjectType = "SCANNER"
)

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Subject   SubjectType
	ExpiresAt time.Time
	IssuedAt  time.Time
}
