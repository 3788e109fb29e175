package domain

import "time"

// NonceRecord is the persisted single-use state for one issued token. A nil
// UsedAt means the nonce is still available; it transitions to non-nil
// exactly once, on the first successful verification.
type NonceRecord struct {
	Nonce       string
	ProfessorID string
	ExpiresAt   time.Time
	UsedAt      *time.Time
	CreatedAt   time.Time
}

// Available reports whether the nonce has not been consumed yet.
func (n *NonceRecord) Available() bool {
	return n.UsedAt == nil
}

// ExpiredAt reports whether the nonce is past its expiry at the given moment.
func (n *NonceRecord) ExpiredAt(now time.Time) bool {
	return now.After(n.ExpiresAt)
}

// VerifiedSubject is the authoritative identity returned by a successful
// verification. Fields come from a fresh profile lookup, never from the
// token's embedded display claims.
type VerifiedSubject struct {
	ID        string
	Nome      string
	Matricula string
	UnidadeID string
}

// AttendanceEvent is the append-only record created when a scanner registers
// a verified token.
type AttendanceEvent struct {
	ID          string
	ProfessorID string
	UnidadeID   string
	ScannerID   string
	Nonce       string
	RecordedAt  time.Time
}
